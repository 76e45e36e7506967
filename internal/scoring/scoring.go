package scoring

import (
	"math"
	"time"

	"vigil/internal/config"
)

// Scorer computes issue relevance from recency, severity, and financial
// impact. It is a pure value type: no clock, no storage. Callers pass the
// reference time explicitly so scoring is deterministic under test.
type Scorer struct {
	cfg config.ScoringConfig
}

// New returns a Scorer using the given blend configuration.
func New(cfg config.ScoringConfig) Scorer {
	return Scorer{cfg: cfg}
}

// Score holds the relevance blend and its components, unrounded.
// Ranking and aggregation use these raw values; rounding happens only
// when building response payloads (see Round3).
type Score struct {
	Relevance float64
	Temporal  float64
	Severity  float64
	Impact    float64
}

// TemporalScore maps an issue's age to (0,1] via exponential decay:
// exp(-λ · ageDays), where ageDays is the whole number of days elapsed.
// Age 0 scores exactly 1.0. Negative ages (clock skew between writer and
// scorer) clamp to 0 rather than scoring above 1.
func (s Scorer) TemporalScore(issueDate, now time.Time) float64 {
	days := math.Floor(now.Sub(issueDate).Hours() / 24)
	if days <= 0 {
		return 1.0
	}
	return math.Exp(-s.cfg.DecayRate * days)
}

// Issue scores a single quality issue at the given reference time.
//
// Severity normalizes linearly on its fixed 1–10 scale; financial impact
// normalizes against the cap and saturates at 1 so a single large loss
// cannot dominate the blend. Severity itself is deliberately not clamped:
// out-of-range stored values score out of range rather than erroring, and
// the function is total over all inputs.
func (s Scorer) Issue(severity int, financialImpact float64, issueDate, now time.Time) Score {
	temporal := s.TemporalScore(issueDate, now)
	sev := float64(severity) / 10
	impact := math.Min(financialImpact/s.cfg.ImpactCap, 1)

	return Score{
		Relevance: s.cfg.TemporalWeight*temporal + s.cfg.SeverityWeight*sev + s.cfg.ImpactWeight*impact,
		Temporal:  temporal,
		Severity:  sev,
		Impact:    impact,
	}
}

// Round3 rounds to 3 decimal places for display stability.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
