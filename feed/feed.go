// Package feed loads opportunity and connection lists from CSV files
// produced by the scoring pipeline. It is the only place that knows the
// wire shape; the engine consumes the converted records.
package feed

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/oddscape/oddscape/components"
	"github.com/oddscape/oddscape/edges"
	"github.com/oddscape/oddscape/store"
)

// OpportunityRecord is one CSV row from the scoring pipeline. The score
// columns are normalized to [0,1] upstream; the engine clamps defensively
// anyway.
type OpportunityRecord struct {
	ID         string  `csv:"id"`
	Category   string  `csv:"category"`
	Live       bool    `csv:"live"`
	Profit     float32 `csv:"profit_score"`
	Risk       float32 `csv:"risk_score"`
	Confidence float32 `csv:"confidence"`
	Volume     float32 `csv:"volume"`

	// Carried verbatim into entity metadata for tooltip and search use.
	HomeTeam   string `csv:"home_team"`
	AwayTeam   string `csv:"away_team"`
	MarketType string `csv:"market_type"`
	Date       string `csv:"date"`
	Books      string `csv:"books"`
}

// ConnectionRecord is one CSV row of the connectivity list.
type ConnectionRecord struct {
	Source string `csv:"source"`
	Target string `csv:"target"`
}

// Entity converts the record to the engine's input shape.
func (r OpportunityRecord) Entity() store.Entity {
	md := make(map[string]string, 5)
	if r.HomeTeam != "" {
		md["home_team"] = r.HomeTeam
	}
	if r.AwayTeam != "" {
		md["away_team"] = r.AwayTeam
	}
	if r.MarketType != "" {
		md["market_type"] = r.MarketType
	}
	if r.Date != "" {
		md["date"] = r.Date
	}
	if r.Books != "" {
		md["books"] = r.Books
	}

	return store.Entity{
		ID:       r.ID,
		Category: r.Category,
		Live:     r.Live,
		Metrics: components.Metrics{
			Profit:     r.Profit,
			Risk:       r.Risk,
			Confidence: r.Confidence,
			Volume:     r.Volume,
		},
		Metadata: md,
	}
}

// LoadOpportunities reads an opportunity CSV into engine entities.
func LoadOpportunities(path string) ([]store.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening opportunities %s: %w", path, err)
	}
	defer f.Close()

	var records []OpportunityRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing opportunities %s: %w", path, err)
	}

	entities := make([]store.Entity, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		entities = append(entities, r.Entity())
	}
	return entities, nil
}

// LoadConnections reads a connection CSV. Rows with a missing endpoint id
// are dropped here; rows naming unknown entities are dropped later by the
// connectivity renderer.
func LoadConnections(path string) ([]edges.Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening connections %s: %w", path, err)
	}
	defer f.Close()

	var records []ConnectionRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing connections %s: %w", path, err)
	}

	conns := make([]edges.Connection, 0, len(records))
	for _, r := range records {
		if r.Source == "" || r.Target == "" {
			continue
		}
		conns = append(conns, edges.Connection{Source: r.Source, Target: r.Target})
	}
	return conns, nil
}
