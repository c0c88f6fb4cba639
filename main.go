package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/oddscape/oddscape/config"
	"github.com/oddscape/oddscape/edges"
	"github.com/oddscape/oddscape/feed"
	"github.com/oddscape/oddscape/scene"
	"github.com/oddscape/oddscape/store"
	"github.com/oddscape/oddscape/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	dataPath := flag.String("data", "", "Opportunities CSV (empty = built-in demo dataset)")
	connsPath := flag.String("connections", "", "Connections CSV")
	outputDir := flag.String("output-dir", "", "Output directory for perf CSV and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output frame stats via slog")
	seed := flag.Int64("seed", 0, "RNG seed for the demo dataset and jitter (0 = time-based)")
	jitter := flag.Bool("jitter", false, "Periodically nudge live entity metrics to exercise updates")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	entities, conns, err := loadDataset(*dataPath, *connsPath, rng)
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	out, err := telemetryOutput(*outputDir, cfg)
	if err != nil {
		slog.Error("failed to set up output dir", "error", err)
		os.Exit(1)
	}
	if out != nil {
		defer out.Close()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "oddscape")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Escape clears focus instead of closing the window

	sc := scene.New(cfg, scene.Callbacks{
		Focus:   func(id string) { slog.Debug("focus", "id", id) },
		Unfocus: func() { slog.Debug("unfocus") },
	})
	defer sc.Dispose()

	sc.LoadEntities(entities, conns)

	slog.Info("starting", "seed", rngSeed, "entities", len(entities), "connections", len(conns))

	var frame int64
	window := int64(cfg.Telemetry.WindowFrames)
	if window <= 0 {
		window = 120
	}

	for !rl.WindowShouldClose() {
		sc.Update()
		sc.Draw()
		frame++

		if *jitter && frame%30 == 0 {
			jitterOne(sc, rng)
		}

		if frame%window == 0 {
			stats := sc.Perf()
			if *logStats {
				stats.LogStats()
			}
			if out != nil {
				if err := out.WritePerf(stats, frame); err != nil {
					slog.Warn("perf write failed", "error", err)
				}
			}
		}
	}
}

func loadDataset(dataPath, connsPath string, rng *rand.Rand) ([]store.Entity, []edges.Connection, error) {
	if dataPath == "" {
		entities, conns := demoDataset(rng)
		return entities, conns, nil
	}

	entities, err := feed.LoadOpportunities(dataPath)
	if err != nil {
		return nil, nil, err
	}
	var conns []edges.Connection
	if connsPath != "" {
		conns, err = feed.LoadConnections(connsPath)
		if err != nil {
			return nil, nil, err
		}
	}
	return entities, conns, nil
}

func telemetryOutput(dir string, cfg *config.Config) (*telemetry.OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		return nil, err
	}
	return om, nil
}

// jitterOne nudges a random live entity's metrics, exercising the
// in-place update path.
func jitterOne(sc *scene.Scene, rng *rand.Rand) {
	st := sc.Store()
	live := st.ActiveIndices()
	if len(live) == 0 {
		return
	}
	i := live[rng.Intn(len(live))]
	m := st.MetricsAt(i)
	sc.UpdateEntity(st.IDAt(i), store.MetricsOf(
		m.Profit+(rng.Float32()-0.5)*0.04,
		m.Risk+(rng.Float32()-0.5)*0.04,
		m.Confidence+(rng.Float32()-0.5)*0.04,
		m.Volume+(rng.Float32()-0.5)*0.04,
	))
}

var demoMarkets = []string{"moneyline", "spread", "total", "player_props"}

var demoTeams = []string{
	"Lakers", "Celtics", "Warriors", "Bucks", "Nuggets", "Heat",
	"Suns", "Knicks", "Mavericks", "Clippers", "76ers", "Grizzlies",
}

// demoDataset builds a deterministic set of opportunities with a sparse
// connection graph, for running without a feed.
func demoDataset(rng *rand.Rand) ([]store.Entity, []edges.Connection) {
	const n = 400

	entities := make([]store.Entity, 0, n)
	for i := 0; i < n; i++ {
		home := demoTeams[rng.Intn(len(demoTeams))]
		away := demoTeams[rng.Intn(len(demoTeams))]
		for away == home {
			away = demoTeams[rng.Intn(len(demoTeams))]
		}
		market := demoMarkets[rng.Intn(len(demoMarkets))]

		entities = append(entities, store.Entity{
			ID:       fmt.Sprintf("opp-%04d", i),
			Category: market,
			Live:     rng.Float32() < 0.2,
			Metrics: store.MetricsOf(
				rng.Float32()*0.9,
				rng.Float32()*0.9,
				0.2+rng.Float32()*0.7,
				rng.Float32(),
			),
			Metadata: map[string]string{
				"home_team":   home,
				"away_team":   away,
				"market_type": market,
				"date":        "2026-08-25",
				"books":       "demo",
			},
		})
	}

	// Sparse random connectivity, roughly one edge per two entities.
	conns := make([]edges.Connection, 0, n/2)
	for i := 0; i < n/2; i++ {
		a := rng.Intn(n)
		b := rng.Intn(n)
		if a == b {
			continue
		}
		conns = append(conns, edges.Connection{
			Source: entities[a].ID,
			Target: entities[b].ID,
		})
	}

	return entities, conns
}
