// Package telemetry collects frame timing over a rolling window and
// exports aggregated statistics for logging and CSV output.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one frame of the render loop.
const (
	PhaseInput      = "input"
	PhaseAdvance    = "advance"
	PhaseTransforms = "transforms"
	PhaseEdges      = "edges"
	PhaseDraw       = "draw"
	PhaseUI         = "ui"
)

// FrameSample holds timing data for a single frame.
type FrameSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []FrameSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize frames
// (e.g. 120 for two seconds at 60 fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]FrameSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a named phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = FrameSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// FrameStats holds aggregated statistics over the window.
type FrameStats struct {
	AvgFrame time.Duration
	P50Frame time.Duration
	P95Frame time.Duration
	MaxFrame time.Duration
	FPS      float64

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() FrameStats {
	out := FrameStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.sampleCount == 0 {
		return out
	}

	durations := make([]float64, 0, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	var maxFrame time.Duration

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		durations = append(durations, float64(s.FrameDuration))
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	sort.Float64s(durations)
	avg := stat.Mean(durations, nil)

	out.AvgFrame = time.Duration(avg)
	out.P50Frame = time.Duration(stat.Quantile(0.5, stat.Empirical, durations, nil))
	out.P95Frame = time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))
	out.MaxFrame = maxFrame
	if avg > 0 {
		out.FPS = float64(time.Second) / avg
	}

	for phase, sum := range phaseSum {
		phaseAvg := sum / time.Duration(p.sampleCount)
		out.PhaseAvg[phase] = phaseAvg
		if avg > 0 {
			out.PhasePct[phase] = float64(phaseAvg) / avg * 100
		}
	}
	return out
}

// LogStats emits the aggregated window via slog.
func (s FrameStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"p50_frame_us", s.P50Frame.Microseconds(),
		"p95_frame_us", s.P95Frame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"fps", int(s.FPS),
	}
	for _, phase := range []string{PhaseInput, PhaseAdvance, PhaseTransforms, PhaseEdges, PhaseDraw, PhaseUI} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// FrameStatsCSV is a flat record for CSV export.
type FrameStatsCSV struct {
	WindowEnd     int64   `csv:"window_end_frame"`
	AvgFrameUS    int64   `csv:"avg_frame_us"`
	P50FrameUS    int64   `csv:"p50_frame_us"`
	P95FrameUS    int64   `csv:"p95_frame_us"`
	MaxFrameUS    int64   `csv:"max_frame_us"`
	FPS           float64 `csv:"fps"`
	InputPct      float64 `csv:"input_pct"`
	AdvancePct    float64 `csv:"advance_pct"`
	TransformsPct float64 `csv:"transforms_pct"`
	EdgesPct      float64 `csv:"edges_pct"`
	DrawPct       float64 `csv:"draw_pct"`
	UIPct         float64 `csv:"ui_pct"`
}

// ToCSV flattens the stats for gocsv.
func (s FrameStats) ToCSV(windowEnd int64) FrameStatsCSV {
	return FrameStatsCSV{
		WindowEnd:     windowEnd,
		AvgFrameUS:    s.AvgFrame.Microseconds(),
		P50FrameUS:    s.P50Frame.Microseconds(),
		P95FrameUS:    s.P95Frame.Microseconds(),
		MaxFrameUS:    s.MaxFrame.Microseconds(),
		FPS:           s.FPS,
		InputPct:      s.PhasePct[PhaseInput],
		AdvancePct:    s.PhasePct[PhaseAdvance],
		TransformsPct: s.PhasePct[PhaseTransforms],
		EdgesPct:      s.PhasePct[PhaseEdges],
		DrawPct:       s.PhasePct[PhaseDraw],
		UIPct:         s.PhasePct[PhaseUI],
	}
}
