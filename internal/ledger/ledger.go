// Package ledger tracks committed hours per person and month against each
// person's nominal monthly capacity.
//
// Capacity for a month is availability fraction * 160 hours / part-time factor.
// Committing beyond capacity is a programming error and panics. Forks give
// allocators cheap copy-on-write views for simulation: a fork reads through to
// its parent and keeps its own writes local.
package ledger

import (
	"fmt"
	"math"

	"github.com/arloliu/allot/types"
)

// Epsilon absorbs floating-point drift when comparing hours against capacity.
const Epsilon = 1e-9

type cell struct {
	person string
	month  types.Month
}

// Ledger records committed hours. It is not safe for concurrent mutation;
// forks of a parent that is no longer written may be used concurrently.
type Ledger struct {
	parent    *Ledger
	capacity  map[cell]float64
	committed map[cell]float64
}

// New creates an empty ledger for people.
//
// Parameters:
//   - people: People whose capacity the ledger tracks (PartTimeFactor must be > 0)
//
// Returns:
//   - *Ledger: Ledger with zero committed hours
func New(people []types.Person) *Ledger {
	capacity := make(map[cell]float64)
	for _, p := range people {
		if p.PartTimeFactor <= 0 {
			continue
		}
		for month, fraction := range p.Availability {
			if fraction <= 0 {
				continue
			}
			capacity[cell{p.ID, month}] = fraction * types.HoursPerMonth / p.PartTimeFactor
		}
	}

	return &Ledger{
		capacity:  capacity,
		committed: make(map[cell]float64),
	}
}

// Capacity returns the nominal hours person can work in month.
func (l *Ledger) Capacity(person string, month types.Month) float64 {
	return l.capacity[cell{person, month}]
}

// Committed returns the hours already committed for person in month.
func (l *Ledger) Committed(person string, month types.Month) float64 {
	k := cell{person, month}
	for cur := l; cur != nil; cur = cur.parent {
		if h, ok := cur.committed[k]; ok {
			return h
		}
	}

	return 0
}

// Available returns the remaining hours for person in month, never negative.
func (l *Ledger) Available(person string, month types.Month) float64 {
	return math.Max(0, l.Capacity(person, month)-l.Committed(person, month))
}

// AvailableOver sums Available over months.
func (l *Ledger) AvailableOver(person string, months []types.Month) float64 {
	var total float64
	for _, m := range months {
		total += l.Available(person, m)
	}

	return total
}

// Commit books hours for person in month.
//
// It panics when hours is negative or not finite, or when the commitment would
// exceed the month's capacity by more than Epsilon.
func (l *Ledger) Commit(person string, month types.Month, hours float64) {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		panic(fmt.Sprintf("ledger: invalid hours %v for person %s month %s", hours, person, month))
	}
	if hours == 0 {
		return
	}

	committed := l.Committed(person, month) + hours
	capacity := l.Capacity(person, month)
	if committed > capacity+Epsilon {
		panic(fmt.Sprintf("ledger: overcommit person %s month %s: %.4f hours exceeds capacity %.4f",
			person, month, committed, capacity))
	}
	if committed > capacity {
		committed = capacity
	}
	l.committed[cell{person, month}] = committed
}

// Fork returns a copy-on-write child ledger.
//
// The child sees every commitment of its parent at the time of each read; the
// parent must not be written while the child is in use.
func (l *Ledger) Fork() *Ledger {
	return &Ledger{
		parent:    l,
		capacity:  l.capacity,
		committed: make(map[cell]float64),
	}
}

// Snapshot flattens the committed hours into person -> month -> hours.
// Only non-zero entries are included.
func (l *Ledger) Snapshot() map[string]map[types.Month]float64 {
	var chain []*Ledger
	for cur := l; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	flat := make(map[cell]float64)
	for i := len(chain) - 1; i >= 0; i-- {
		for k, h := range chain[i].committed {
			flat[k] = h
		}
	}

	out := make(map[string]map[types.Month]float64)
	for k, h := range flat {
		if h == 0 {
			continue
		}
		if out[k.person] == nil {
			out[k.person] = make(map[types.Month]float64)
		}
		out[k.person][k.month] = h
	}

	return out
}
