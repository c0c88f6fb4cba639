package store

import "testing"

func searchStore(t *testing.T) *Store {
	t.Helper()
	s := New(testConfig(t))
	s.Initialize([]Entity{
		{ID: "lakers-ml-1", Category: "moneyline", Live: true,
			Metrics:  MetricsOf(0.8, 0.2, 0.9, 0.5),
			Metadata: map[string]string{"home_team": "Lakers"}},
		{ID: "lakers-sp-2", Category: "spread", Live: true,
			Metrics: MetricsOf(0.4, 0.6, 0.5, 0.3)},
		{ID: "celtics-ml-3", Category: "moneyline", Live: false,
			Metrics:  MetricsOf(0.7, 0.3, 0.8, 0.9),
			Metadata: map[string]string{"home_team": "Celtics"}},
		{ID: "heat-tot-4", Category: "total", Live: true,
			Metrics: MetricsOf(0.2, 0.8, 0.3, 0.1)},
	})
	return s
}

func TestSearchEmptyCriteriaMatchesNothing(t *testing.T) {
	s := searchStore(t)

	if got := s.Search(Criteria{}); got != nil {
		t.Errorf("empty criteria = %v, want nil", got)
	}
}

func TestSearchIDSubstring(t *testing.T) {
	s := searchStore(t)

	got := s.Search(Criteria{IDContains: "LAKERS"})
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("case-insensitive id search = %v, want [0 1]", got)
	}
}

func TestSearchCategoryExact(t *testing.T) {
	s := searchStore(t)

	got := s.Search(Criteria{Category: "moneyline"})
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("category search = %v, want [0 2]", got)
	}

	if got := s.Search(Criteria{Category: "money"}); got != nil {
		t.Errorf("partial category name matched %v, want nil", got)
	}
	if got := s.Search(Criteria{Category: "unknown"}); got != nil {
		t.Errorf("unknown category matched %v, want nil", got)
	}
}

func TestSearchConjunction(t *testing.T) {
	s := searchStore(t)

	live := true
	minP := float32(0.3)
	got := s.Search(Criteria{IDContains: "lakers", Live: &live, MinProfit: &minP})
	if len(got) != 2 {
		t.Fatalf("conjunction = %v, want two matches", got)
	}

	// Tighten the range: only the moneyline entry passes.
	minP = 0.5
	got = s.Search(Criteria{IDContains: "lakers", Live: &live, MinProfit: &minP})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("tightened conjunction = %v, want [0]", got)
	}
}

func TestSearchRangeInclusive(t *testing.T) {
	s := searchStore(t)

	// Bounds equal to a stored value must include it.
	min := float32(0.8)
	max := float32(0.8)
	got := s.Search(Criteria{MinProfit: &min, MaxProfit: &max})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("inclusive bound search = %v, want [0]", got)
	}
}

func TestSearchLiveOnly(t *testing.T) {
	s := searchStore(t)

	live := true
	got := s.Search(Criteria{Live: &live})
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 3 {
		t.Errorf("live search = %v, want [0 1 3]", got)
	}

	notLive := false
	got = s.Search(Criteria{Live: &notLive})
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("non-live search = %v, want [2]", got)
	}
}

func TestSearchMetadata(t *testing.T) {
	s := searchStore(t)

	got := s.Search(Criteria{Metadata: map[string]string{"home_team": "lake"}})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("metadata substring search = %v, want [0]", got)
	}

	// Entities without the key never match.
	got = s.Search(Criteria{Metadata: map[string]string{"venue": "x"}})
	if got != nil {
		t.Errorf("missing metadata key matched %v, want nil", got)
	}
}

func TestSearchProfitRange(t *testing.T) {
	s := New(testConfig(t))
	s.Initialize([]Entity{
		{ID: "p0", Category: "c", Metrics: MetricsOf(0.1, 0.5, 0.5, 0.5)},
		{ID: "p1", Category: "c", Metrics: MetricsOf(0.5, 0.5, 0.5, 0.5)},
		{ID: "p2", Category: "c", Metrics: MetricsOf(0.9, 0.5, 0.5, 0.5)},
		{ID: "p3", Category: "c", Metrics: MetricsOf(0.5, 0.5, 0.5, 0.5)},
	})

	min := float32(0.4)
	max := float32(0.9)
	got := s.Search(Criteria{MinProfit: &min, MaxProfit: &max})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("profit range search = %v, want [1 2 3]", got)
	}
}

func TestSearchResultsInIndexOrder(t *testing.T) {
	s := searchStore(t)

	got := s.Search(Criteria{IDContains: "-"})
	for k := 1; k < len(got); k++ {
		if got[k-1] >= got[k] {
			t.Fatalf("results not in index order: %v", got)
		}
	}
}
