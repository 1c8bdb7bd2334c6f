// Package hash provides fast non-cryptographic hashing of integer sequences.
package hash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Genes computes a 64-bit XXH3 hash of a chromosome.
//
// Each gene is folded in as a little-endian uint32, so chromosomes with the
// same genes always hash identically regardless of platform int size. A seed
// of zero uses the unseeded hash.
//
// Parameters:
//   - genes: Person index per task
//   - seed: Hash seed
//
// Returns:
//   - uint64: Hash value (collisions are possible; callers must verify)
func Genes(genes []int, seed uint64) uint64 {
	buf := make([]byte, 0, 4*len(genes))
	for _, g := range genes {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(g)) //nolint:gosec // gene values are person indices
	}

	if seed != 0 {
		return xxh3.HashSeed(buf, seed)
	}

	return xxh3.Hash(buf)
}
