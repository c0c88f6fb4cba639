package store

import "github.com/oddscape/oddscape/components"

// DisplayData is a read-only projection of one entity for tooltip and
// detail-panel use. Metadata is copied so callers never hold store-owned
// maps.
type DisplayData struct {
	ID       string
	Category string
	Live     bool
	Metrics  components.Metrics
	Metadata map[string]string
}

// DisplayData assembles the projection for entity i. Returns the zero
// value for out-of-range indices.
func (s *Store) DisplayData(i int) DisplayData {
	if s.disposed || i < 0 || i >= len(s.entities) {
		return DisplayData{}
	}

	md := make(map[string]string, len(s.metadata[i]))
	for k, v := range s.metadata[i] {
		md[k] = v
	}

	disp := s.dispMap.Get(s.entities[i])
	return DisplayData{
		ID:       s.ids[i],
		Category: s.CategoryName(disp.Category),
		Live:     disp.Live,
		Metrics:  *s.metMap.Get(s.entities[i]),
		Metadata: md,
	}
}
