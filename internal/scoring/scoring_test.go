package scoring

import (
	"math"
	"testing"
	"time"

	"vigil/internal/config"
)

func testScorer() Scorer {
	return New(config.Default().Scoring)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTemporalScoreAgeZero(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := s.TemporalScore(now, now); got != 1.0 {
		t.Errorf("TemporalScore(age 0) = %f, want exactly 1.0", got)
	}

	// Same calendar day, a few hours old — still whole-day age 0
	earlier := now.Add(-6 * time.Hour)
	if got := s.TemporalScore(earlier, now); got != 1.0 {
		t.Errorf("TemporalScore(6h) = %f, want 1.0", got)
	}
}

func TestTemporalScoreNegativeAge(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Issue dated in the future (clock skew) must clamp to 1.0, never exceed it
	future := now.Add(48 * time.Hour)
	if got := s.TemporalScore(future, now); got != 1.0 {
		t.Errorf("TemporalScore(future date) = %f, want 1.0", got)
	}
}

func TestTemporalScoreMonotonic(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	prev := 2.0
	for _, days := range []int{0, 1, 7, 30, 90, 365, 3650} {
		got := s.TemporalScore(now.AddDate(0, 0, -days), now)
		if got <= 0 || got > 1 {
			t.Errorf("TemporalScore(%dd) = %f, want in (0,1]", days, got)
		}
		if got >= prev {
			t.Errorf("TemporalScore(%dd) = %f, not decreasing (prev %f)", days, got, prev)
		}
		prev = got
	}
}

func TestTemporalScoreKnownValue(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// exp(-0.02 * 30) ≈ 0.5488
	got := s.TemporalScore(now.AddDate(0, 0, -30), now)
	if math.Abs(got-math.Exp(-0.6)) > 1e-12 {
		t.Errorf("TemporalScore(30d) = %f, want %f", got, math.Exp(-0.6))
	}
}

func TestSeverityNormalization(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	prev := -1.0
	for sev := 1; sev <= 10; sev++ {
		score := s.Issue(sev, 0, now, now)
		want := float64(sev) / 10
		if !approx(score.Severity, want) {
			t.Errorf("severity %d → %f, want %f", sev, score.Severity, want)
		}
		if score.Severity <= prev {
			t.Errorf("severity score not strictly increasing at %d", sev)
		}
		prev = score.Severity
	}
}

func TestImpactCap(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		impact float64
		want   float64
	}{
		{0, 0},
		{50000, 0.5},
		{100000, 1},
		{250000, 1}, // capped
		{1e9, 1},    // capped
	}
	for _, c := range cases {
		score := s.Issue(5, c.impact, now, now)
		if !approx(score.Impact, c.want) {
			t.Errorf("impact %f → %f, want %f", c.impact, score.Impact, c.want)
		}
	}
}

func TestRelevanceConvexBound(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, sev := range []int{1, 5, 10} {
		for _, impact := range []float64{0, 20000, 100000, 500000} {
			for _, days := range []int{0, 10, 100, 1000} {
				score := s.Issue(sev, impact, now.AddDate(0, 0, -days), now)
				if score.Relevance < 0 || score.Relevance > 1 {
					t.Errorf("relevance out of [0,1]: sev=%d impact=%f days=%d → %f",
						sev, impact, days, score.Relevance)
				}
			}
		}
	}
}

func TestOutOfDomainInputsDoNotPanic(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Severity is not clamped: out-of-range values score out of range.
	score := s.Issue(15, 0, now, now)
	if !approx(score.Severity, 1.5) {
		t.Errorf("severity 15 → %f, want 1.5 (unclamped)", score.Severity)
	}

	// Negative impact produces a negative component, not a panic.
	score = s.Issue(5, -10000, now, now)
	if score.Impact >= 0 {
		t.Errorf("negative impact → %f, want negative", score.Impact)
	}
}

func TestIssueBlendKnownValues(t *testing.T) {
	s := testScorer()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// The reference case: 30 days old, severity 8, impact 50000.
	score := s.Issue(8, 50000, now.AddDate(0, 0, -30), now)

	if got := Round3(score.Temporal); got != 0.549 {
		t.Errorf("temporal = %f, want 0.549", got)
	}
	if !approx(score.Severity, 0.8) {
		t.Errorf("severity = %f, want 0.8", score.Severity)
	}
	if !approx(score.Impact, 0.5) {
		t.Errorf("impact = %f, want 0.5", score.Impact)
	}
	// 0.4·0.549 + 0.4·0.8 + 0.2·0.5
	if got := Round3(score.Relevance); got != 0.640 {
		t.Errorf("relevance = %f, want 0.640", got)
	}
}

func TestIssueBlendAlternateConfig(t *testing.T) {
	cfg := config.Default().Scoring
	cfg.DecayRate = 0.1
	cfg.ImpactCap = 10000
	cfg.TemporalWeight = 0.5
	cfg.SeverityWeight = 0.3
	cfg.ImpactWeight = 0.2
	s := New(cfg)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	score := s.Issue(10, 10000, now, now)

	// temporal=1, severity=1, impact=1 → relevance = sum of weights
	if !approx(score.Relevance, 1.0) {
		t.Errorf("relevance = %f, want 1.0", score.Relevance)
	}

	score = s.Issue(10, 10000, now.AddDate(0, 0, -10), now)
	want := 0.5*math.Exp(-1) + 0.3 + 0.2
	if !approx(score.Relevance, want) {
		t.Errorf("relevance = %f, want %f", score.Relevance, want)
	}
}

func TestRound3(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.5488116360940264, 0.549},
		{0.78, 0.78},
		{0.0004, 0},
		{0.0005, 0.001},
		{1.0, 1.0},
	}
	for _, c := range cases {
		if got := Round3(c.in); got != c.want {
			t.Errorf("Round3(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
