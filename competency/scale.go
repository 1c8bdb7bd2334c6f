// Package competency provides the ordinal competency model shared by every
// allocation strategy.
//
// A Scale ranks competency labels in declaration order. A person is eligible
// for a task when the person's rank is at least the task's required rank:
//
//	scale := competency.Default() // A < B < C
//	scale.IsEligible("C", "B")    // true
//	scale.IsEligible("A", "B")    // false
//
// Unknown labels on either side are never eligible.
package competency

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Incompatible is the rank reported for labels not on the scale.
const Incompatible = math.MaxInt

// ErrInvalidScale is returned when a scale has no levels, blank levels or duplicates.
var ErrInvalidScale = errors.New("invalid competency scale")

// DefaultLevels are the levels of the default scale, lowest first.
var DefaultLevels = []string{"A", "B", "C"}

// Scale is an immutable ordinal competency scale.
type Scale struct {
	levels []string
	ranks  map[string]int
}

// Parse builds a scale from levels ordered lowest to highest.
//
// Parameters:
//   - levels: Competency labels, lowest first (surrounding whitespace is trimmed)
//
// Returns:
//   - *Scale: The scale
//   - error: ErrInvalidScale when levels is empty or contains blank or duplicate labels
func Parse(levels ...string) (*Scale, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels", ErrInvalidScale)
	}

	s := &Scale{
		levels: make([]string, 0, len(levels)),
		ranks:  make(map[string]int, len(levels)),
	}
	for _, raw := range levels {
		level := strings.TrimSpace(raw)
		if level == "" {
			return nil, fmt.Errorf("%w: blank level", ErrInvalidScale)
		}
		if _, dup := s.ranks[level]; dup {
			return nil, fmt.Errorf("%w: duplicate level %q", ErrInvalidScale, level)
		}
		s.levels = append(s.levels, level)
		s.ranks[level] = len(s.levels)
	}

	return s, nil
}

// MustParse is like Parse but panics on an invalid scale.
func MustParse(levels ...string) *Scale {
	s, err := Parse(levels...)
	if err != nil {
		panic(err)
	}

	return s
}

// Default returns the A < B < C scale.
func Default() *Scale {
	return MustParse(DefaultLevels...)
}

// Levels returns a copy of the levels, lowest first.
func (s *Scale) Levels() []string {
	out := make([]string, len(s.levels))
	copy(out, s.levels)

	return out
}

// Rank returns the 1-based rank of label, or Incompatible if it is not on the scale.
func (s *Scale) Rank(label string) int {
	if r, ok := s.ranks[strings.TrimSpace(label)]; ok {
		return r
	}

	return Incompatible
}

// Known reports whether label is on the scale.
func (s *Scale) Known(label string) bool {
	return s.Rank(label) != Incompatible
}

// IsEligible reports whether a person at personLevel may take a task requiring
// requiredLevel. Both labels must be on the scale.
func (s *Scale) IsEligible(personLevel, requiredLevel string) bool {
	p, r := s.Rank(personLevel), s.Rank(requiredLevel)
	if p == Incompatible || r == Incompatible {
		return false
	}

	return p >= r
}

// ExactMatch reports whether both labels are known and share the same rank.
func (s *Scale) ExactMatch(personLevel, requiredLevel string) bool {
	p := s.Rank(personLevel)

	return p != Incompatible && p == s.Rank(requiredLevel)
}
