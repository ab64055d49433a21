package transit

import (
	"math"
	"testing"
	"time"

	"github.com/ngmaloney/exuma-cuts/internal/models"
	"github.com/ngmaloney/exuma-cuts/internal/tides"
)

var est = time.FixedZone("EST", -5*3600)

// day 0 is Friday 2025-03-14
func at(day, h, m int) time.Time {
	return time.Date(2025, 3, 14+day, h, m, 0, 0, est)
}

func standardCut() models.CutDefinition {
	return models.CutDefinition{ID: "conch", Name: "Conch Cut", OffsetMinutes: 0, MaxCurrentKnots: 3, BearingDeg: 90, Group: models.GroupExuma}
}

func depthCut(mlw float64) models.CutDefinition {
	return models.CutDefinition{ID: "raggeds", Name: "Ragged Shoal", MaxCurrentKnots: 1.5, BearingDeg: 45, Group: models.GroupRaggeds, MLWDepthFt: &mlw, DepthCritical: true}
}

// semidiurnal builds alternating events every 6h12m starting with a low at start
func semidiurnal(start time.Time, n int) []models.TideEvent {
	events := make([]models.TideEvent, n)
	for i := range events {
		e := models.TideEvent{Time: start.Add(time.Duration(i) * (6*time.Hour + 12*time.Minute)), Type: models.TideLow, Height: 0.2}
		if i%2 == 1 {
			e.Type = models.TideHigh
			e.Height = 3.0
		}
		events[i] = e
	}
	return events
}

func findWindow(t *testing.T, plan models.TransitPlan, center time.Time) models.TransitWindow {
	t.Helper()
	for _, d := range plan.Days {
		for _, w := range d.Windows {
			if w.Time.Equal(center) {
				return w
			}
		}
	}
	t.Fatalf("no window centered at %v", center)
	return models.TransitWindow{}
}

func TestScore_NightPenaltyCompounds(t *testing.T) {
	series := []models.TideEvent{
		{Time: at(0, 9, 40), Type: models.TideHigh, Height: 3.0},
		{Time: at(0, 15, 55), Type: models.TideLow, Height: 0.3},
		{Time: at(0, 22, 10), Type: models.TideHigh, Height: 2.9},
		{Time: at(1, 4, 20), Type: models.TideLow, Height: 0.2},
	}
	now := at(0, 12, 0)
	plan := Score(DefaultConfig(), standardCut(), series, nil, now)

	if got := plan.WindowCount(); got != 3 {
		t.Fatalf("WindowCount() = %d, want 3 (the 09:40 window has closed)", got)
	}

	tests := []struct {
		name     string
		center   time.Time
		want     int
		daylight bool
	}{
		// 0.35*7 + 0.45*10 + 2 = 8.95
		{"low slack in daylight", at(0, 15, 55), 9, true},
		// (0.35*9 + 0.45*10) * 0.4 = 3.06
		{"high slack at night", at(0, 22, 10), 3, false},
		// (0.35*7 + 0.45*10) * 0.4 = 2.78
		{"low slack before dawn", at(1, 4, 20), 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := findWindow(t, plan, tt.center)
			if w.Score != tt.want {
				t.Errorf("Score = %d, want %d", w.Score, tt.want)
			}
			if w.Factors.Daylight != tt.daylight {
				t.Errorf("Daylight = %v, want %v", w.Factors.Daylight, tt.daylight)
			}
			if w.Confidence != models.ConfidenceHigh {
				t.Errorf("Confidence = %v, want high", w.Confidence)
			}
		})
	}

	if plan.Days[0].BestWindow == nil || !plan.Days[0].BestWindow.Time.Equal(at(0, 15, 55)) {
		t.Errorf("today's best = %+v, want the 15:55 window", plan.Days[0].BestWindow)
	}
	if plan.OverallBest == nil || plan.OverallBest.Score != 9 {
		t.Errorf("OverallBest = %+v, want score 9", plan.OverallBest)
	}
}

func TestScore_ConfidenceDecay(t *testing.T) {
	series := []models.TideEvent{
		{Time: at(0, 14, 0), Type: models.TideHigh, Height: 3.0},
		{Time: at(0, 20, 15), Type: models.TideLow, Height: 0.2},
		{Time: at(1, 2, 30), Type: models.TideHigh, Height: 3.0},
		{Time: at(1, 8, 45), Type: models.TideLow, Height: 0.2},
		{Time: at(1, 15, 0), Type: models.TideHigh, Height: 3.0},
		{Time: at(1, 21, 15), Type: models.TideLow, Height: 0.2},
		{Time: at(2, 3, 30), Type: models.TideHigh, Height: 3.0},
		{Time: at(2, 9, 45), Type: models.TideLow, Height: 0.2},
		{Time: at(2, 16, 0), Type: models.TideHigh, Height: 3.0},
	}
	plan := Score(DefaultConfig(), standardCut(), series, nil, at(0, 12, 0))

	tests := []struct {
		center     time.Time
		confidence models.Confidence
		score      int
	}{
		{at(0, 14, 0), models.ConfidenceHigh, 10},    // 9.65
		{at(1, 8, 45), models.ConfidenceHigh, 9},     // 20h away, 8.95
		{at(1, 15, 0), models.ConfidenceGood, 9},     // 9.65 * 0.95 = 9.17
		{at(2, 9, 45), models.ConfidenceGood, 9},     // 45h away, 8.95 * 0.95 = 8.50
		{at(2, 16, 0), models.ConfidenceModerate, 8}, // 9.65 * 0.88 = 8.49
	}
	for _, tt := range tests {
		w := findWindow(t, plan, tt.center)
		if w.Confidence != tt.confidence || w.Score != tt.score {
			t.Errorf("%v: confidence %v score %d, want %v %d", tt.center, w.Confidence, w.Score, tt.confidence, tt.score)
		}
	}

	if got := plan.Days[2].Label; got != "Sunday" {
		t.Errorf("day 3 label = %q, want Sunday", got)
	}
}

func TestScore_TruncatesHoursForConfidence(t *testing.T) {
	// 24h59m away still rounds down into the first tier
	series := []models.TideEvent{
		{Time: at(0, 8, 0), Type: models.TideLow, Height: 0.2},
		{Time: at(1, 8, 59), Type: models.TideHigh, Height: 3.0},
	}
	plan := Score(DefaultConfig(), standardCut(), series, nil, at(0, 8, 0))
	if w := findWindow(t, plan, at(1, 8, 59)); w.Confidence != models.ConfidenceHigh {
		t.Errorf("Confidence = %v, want high", w.Confidence)
	}
}

func TestScore_DepthCritical(t *testing.T) {
	series := []models.TideEvent{
		{Time: at(0, 6, 0), Type: models.TideLow, Height: 0.2},
		{Time: at(0, 12, 15), Type: models.TideHigh, Height: 3.1},
		{Time: at(0, 18, 30), Type: models.TideLow, Height: 0.1},
	}
	plan := Score(DefaultConfig(), depthCut(4.0), series, nil, at(0, 9, 0))

	w := findWindow(t, plan, at(0, 12, 15))
	if w.DepthFt == nil || math.Abs(*w.DepthFt-7.1) > 1e-9 {
		t.Fatalf("DepthFt = %v, want 7.1", w.DepthFt)
	}
	if w.Factors.DepthScore == nil || *w.Factors.DepthScore != 9 {
		t.Errorf("DepthScore = %v, want 9", w.Factors.DepthScore)
	}
	// 0.4*9 + 0.2*9 + 0.3*10 + 1 = 9.4
	if w.Score != 9 {
		t.Errorf("Score = %d, want 9", w.Score)
	}
	if w.Summary != "High slack · 7.1ft depth · light N" {
		t.Errorf("Summary = %q", w.Summary)
	}

	low := findWindow(t, plan, at(0, 18, 30))
	// 18:30 is past daylight and depth 4.1 scores 2: (0.4*2 + 0.2*7 + 0.3*10) * 0.4 = 2.08
	if low.Score != 2 || low.Factors.Daylight {
		t.Errorf("low slack Score = %d daylight %v, want 2 at night", low.Score, low.Factors.Daylight)
	}
}

func TestScore_OpposingWind(t *testing.T) {
	series := []models.TideEvent{
		{Time: at(0, 6, 0), Type: models.TideLow, Height: 0.2},
		{Time: at(0, 12, 15), Type: models.TideHigh, Height: 3.1},
	}
	// Flood runs toward 270 on a 090 cut, so wind from the west opposes it
	windSeries := []models.WindSample{{Time: at(0, 12, 0), SpeedKnots: 16, DirectionDeg: 270, GustKnots: 21}}
	plan := Score(DefaultConfig(), standardCut(), series, windSeries, at(0, 9, 0))

	w := findWindow(t, plan, at(0, 12, 15))
	if !w.Factors.WindOpposing || w.Factors.WindScore != 1 {
		t.Errorf("factors = %+v, want opposing with wind score 1", w.Factors)
	}
	// 0.35*9 + 0.45*1 + 2 = 5.6
	if w.Score != 6 {
		t.Errorf("Score = %d, want 6", w.Score)
	}
	if w.Summary != "High slack · W 16kts opposing" {
		t.Errorf("Summary = %q", w.Summary)
	}
}

func TestWindScore(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name     string
		speed    float64
		gust     float64
		opposing bool
		want     float64
	}{
		{"opposing strong", 15, 0, true, 1},
		{"opposing fresh", 10, 0, true, 3},
		{"opposing light", 4, 0, true, 5},
		{"gusty beats speed", 6, 25, false, 2},
		{"20 knots", 20, 22, false, 3},
		{"15 knots", 15, 18, false, 5},
		{"10 knots", 10, 12, false, 7},
		{"5 knots", 5, 7, false, 9},
		{"calm", 4.9, 6, false, 10},
	}
	for _, tt := range tests {
		if got := cfg.windScore(tt.speed, tt.gust, tt.opposing); got != tt.want {
			t.Errorf("%s: windScore = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDepthScore(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct{ depth, want float64 }{
		{9, 10}, {8, 10}, {7.5, 9}, {6.5, 8}, {6.2, 7}, {5.5, 6}, {5.1, 5}, {4.5, 3}, {4.0, 2}, {3.9, 1}, {-2, 1},
	}
	for _, tt := range tests {
		if got := cfg.depthScore(tt.depth); got != tt.want {
			t.Errorf("depthScore(%v) = %v, want %v", tt.depth, got, tt.want)
		}
	}
}

func TestScore_DaysPartitionRetainedWindows(t *testing.T) {
	cfg := DefaultConfig()
	series := semidiurnal(at(-1, 3, 0), 28)

	for _, now := range []time.Time{at(0, 0, 10), at(0, 12, 0), at(0, 23, 50)} {
		plan := Score(cfg, standardCut(), series, nil, now)

		want := 0
		for _, sw := range tides.SlackWindows(series, cfg.Thresholds.SlackHalfWidth) {
			if sw.End.After(now) && sw.Start.Before(now.Add(cfg.Horizon)) {
				want++
			}
		}
		if got := plan.WindowCount(); got != want {
			t.Errorf("now %v: WindowCount() = %d, want %d", now, got, want)
		}
		if len(plan.Days) < 3 {
			t.Fatalf("now %v: %d days, want at least 3", now, len(plan.Days))
		}

		seen := map[time.Time]bool{}
		for i, d := range plan.Days {
			next := d.Date.AddDate(0, 0, 1)
			for _, w := range d.Windows {
				if seen[w.Time] {
					t.Errorf("window %v appears twice", w.Time)
				}
				seen[w.Time] = true
				if !w.End.After(now) {
					t.Errorf("window %v already closed at %v", w.Time, now)
				}
				if !w.Time.Before(next) || (i > 0 && w.Time.Before(d.Date)) {
					t.Errorf("window %v outside day %v", w.Time, d.Date)
				}
			}
			if len(d.Windows) > 0 && d.BestWindow == nil {
				t.Errorf("day %s has windows but no best", d.Label)
			}
			if len(d.Windows) == 0 && d.BestWindow != nil {
				t.Errorf("day %s has a best window but no windows", d.Label)
			}
		}
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	cfg := DefaultConfig()
	series := semidiurnal(at(0, 1, 0), 14)
	series[3].Height = -0.8
	now := at(0, 5, 0)

	cuts := []models.CutDefinition{standardCut(), depthCut(-5), depthCut(0), depthCut(4), depthCut(12)}
	speeds := []float64{0, 4.9, 5, 10, 15, 20, 35, 80, math.NaN()}
	gusts := []float64{0, 24.9, 25, 90}
	dirs := []float64{0, 45, 90, 180, 225, 270, 359}

	for _, cut := range cuts {
		for _, s := range speeds {
			for _, g := range gusts {
				for _, d := range dirs {
					ws := []models.WindSample{{Time: now, SpeedKnots: s, GustKnots: g, DirectionDeg: d}}
					plan := Score(cfg, cut, series, ws, now)
					for _, day := range plan.Days {
						for _, w := range day.Windows {
							if w.Score < 1 || w.Score > 10 {
								t.Fatalf("cut %s speed %v gust %v dir %v: score %d out of range", cut.ID, s, g, d, w.Score)
							}
						}
					}
				}
			}
		}
	}
}

func TestScore_NoTides(t *testing.T) {
	plan := Score(DefaultConfig(), standardCut(), nil, nil, at(0, 12, 0))
	if plan.WindowCount() != 0 || plan.OverallBest != nil {
		t.Errorf("empty series gave %d windows, best %v", plan.WindowCount(), plan.OverallBest)
	}
	if len(plan.Days) != 3 {
		t.Errorf("len(Days) = %d, want 3", len(plan.Days))
	}
}

func TestScore_BestPrefersEarliestOnTie(t *testing.T) {
	series := []models.TideEvent{
		{Time: at(0, 8, 0), Type: models.TideHigh, Height: 3.0},
		{Time: at(0, 14, 0), Type: models.TideHigh, Height: 3.0},
	}
	plan := Score(DefaultConfig(), standardCut(), series, nil, at(0, 7, 0))
	if b := plan.Days[0].BestWindow; b == nil || !b.Time.Equal(at(0, 8, 0)) {
		t.Errorf("BestWindow = %+v, want the 08:00 window", b)
	}
	if !plan.OverallBest.Time.Equal(at(0, 8, 0)) {
		t.Errorf("OverallBest = %v, want 08:00", plan.OverallBest.Time)
	}
}

func TestSummary(t *testing.T) {
	depth := 6.24
	tests := []struct {
		name string
		w    models.TransitWindow
		cut  models.CutDefinition
		want string
	}{
		{
			name: "full depth-critical night opposing",
			w: models.TransitWindow{Type: models.TideHigh, DepthFt: &depth, WindSpeedKnots: 14.2, WindCardinal: "ENE",
				Factors: models.TransitFactors{WindOpposing: true}},
			cut:  depthCut(3),
			want: "High slack · 6.2ft depth · ENE 14kts opposing · dark",
		},
		{
			name: "fresh breeze daylight",
			w:    models.TransitWindow{Type: models.TideLow, WindSpeedKnots: 12, WindCardinal: "SE", Factors: models.TransitFactors{Daylight: true}},
			cut:  standardCut(),
			want: "Low slack · SE 12kts",
		},
		{
			name: "light air",
			w:    models.TransitWindow{Type: models.TideLow, WindSpeedKnots: 9.9, WindCardinal: "S", Factors: models.TransitFactors{Daylight: true}},
			cut:  standardCut(),
			want: "Low slack · light S",
		},
	}
	for _, tt := range tests {
		if got := Summary(tt.w, tt.cut); got != tt.want {
			t.Errorf("%s: Summary() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	cfg := DefaultConfig()
	cfg.DepthSteps = Steps{{Min: 4, Score: 2}, {Min: 8, Score: 10}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unordered depth steps")
	}

	cfg = DefaultConfig()
	cfg.MinScore = 11
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min above max")
	}
}
