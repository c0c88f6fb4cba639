package store

import (
	"strings"

	"github.com/oddscape/oddscape/components"
)

// Criteria is a conjunction of optional predicates. Nil/zero fields are
// not evaluated. All numeric ranges are inclusive; string matches are
// case-insensitive substrings except Category, which is exact.
type Criteria struct {
	IDContains string
	Category   string
	Live       *bool

	MinProfit, MaxProfit         *float32
	MinRisk, MaxRisk             *float32
	MinConfidence, MaxConfidence *float32
	MinVolume, MaxVolume         *float32

	// Metadata matches each value as a substring of the entity's
	// metadata field of the same key.
	Metadata map[string]string
}

// IsEmpty reports whether no predicate is set.
func (c Criteria) IsEmpty() bool {
	return c.IDContains == "" &&
		c.Category == "" &&
		c.Live == nil &&
		c.MinProfit == nil && c.MaxProfit == nil &&
		c.MinRisk == nil && c.MaxRisk == nil &&
		c.MinConfidence == nil && c.MaxConfidence == nil &&
		c.MinVolume == nil && c.MaxVolume == nil &&
		len(c.Metadata) == 0
}

// Search returns the indices of all entities matching every set predicate,
// in index order. Empty criteria returns an empty result, never "all".
// When the live predicate is required the scan runs over the cached
// active-index subset instead of the full range.
func (s *Store) Search(c Criteria) []int {
	if s.disposed || c.IsEmpty() {
		return nil
	}

	// Exact category match against the closed table; an unknown name can
	// match nothing.
	var catCode uint8
	if c.Category != "" {
		code, ok := s.categoryCode[c.Category]
		if !ok {
			return nil
		}
		catCode = code
	}

	idNeedle := strings.ToLower(c.IDContains)

	var matches []int
	scan := func(i int) {
		if !s.matches(i, c, catCode, idNeedle) {
			return
		}
		matches = append(matches, i)
	}

	if c.Live != nil && *c.Live {
		for _, i := range s.activeIndices {
			scan(i)
		}
	} else {
		for i := range s.entities {
			scan(i)
		}
	}
	return matches
}

func (s *Store) matches(i int, c Criteria, catCode uint8, idNeedle string) bool {
	if idNeedle != "" && !strings.Contains(strings.ToLower(s.ids[i]), idNeedle) {
		return false
	}

	disp := s.dispMap.Get(s.entities[i])
	if c.Category != "" && disp.Category != catCode {
		return false
	}
	if c.Live != nil && disp.Live != *c.Live {
		return false
	}

	m := *s.metMap.Get(s.entities[i])
	if !inRange(m.Profit, c.MinProfit, c.MaxProfit) ||
		!inRange(m.Risk, c.MinRisk, c.MaxRisk) ||
		!inRange(m.Confidence, c.MinConfidence, c.MaxConfidence) ||
		!inRange(m.Volume, c.MinVolume, c.MaxVolume) {
		return false
	}

	if len(c.Metadata) > 0 {
		md := s.metadata[i]
		for key, needle := range c.Metadata {
			val, ok := md[key]
			if !ok || !strings.Contains(strings.ToLower(val), strings.ToLower(needle)) {
				return false
			}
		}
	}
	return true
}

func inRange(v float32, min, max *float32) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// MetricsOf is a convenience for building range criteria in callers.
func MetricsOf(profit, risk, confidence, volume float32) components.Metrics {
	return components.Metrics{Profit: profit, Risk: risk, Confidence: confidence, Volume: volume}
}
