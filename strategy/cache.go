package strategy

import (
	"slices"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/allot/internal/hash"
)

type cacheEntry struct {
	genes   []int
	fitness float64
}

// fitnessCache memoizes chromosome fitness for one run.
//
// Entries are keyed by the XXH3 hash of the genes and verified against the
// stored genes on lookup, so a hash collision is a miss, never a wrong value.
type fitnessCache struct {
	entries *xsync.Map[uint64, cacheEntry]
	hits    atomic.Int64
}

func newFitnessCache() *fitnessCache {
	return &fitnessCache{entries: xsync.NewMap[uint64, cacheEntry]()}
}

// Get returns the cached fitness of genes.
func (c *fitnessCache) Get(genes []int) (float64, bool) {
	e, ok := c.entries.Load(hash.Genes(genes, 0))
	if !ok || !slices.Equal(e.genes, genes) {
		return 0, false
	}
	c.hits.Add(1)

	return e.fitness, true
}

// Put stores the fitness of genes. On a hash collision the first entry is kept.
func (c *fitnessCache) Put(genes []int, fitness float64) {
	c.entries.LoadOrStore(hash.Genes(genes, 0), cacheEntry{genes: slices.Clone(genes), fitness: fitness})
}

// Size returns the number of cached chromosomes.
func (c *fitnessCache) Size() int {
	return c.entries.Size()
}

// Hits returns the number of successful lookups.
func (c *fitnessCache) Hits() int64 {
	return c.hits.Load()
}
