package engine

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"vigil/internal/config"
	"vigil/internal/scoring"
	"vigil/internal/store"
)

// Sentinel errors for unresolvable references. Everything else that comes
// out of the engine is a wrapped store failure.
var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

// Store is the narrow repository port the engine scores against. The
// SQLite store satisfies it; tests substitute fakes.
type Store interface {
	GetInvoice(id string) (*store.Invoice, error)
	GetSupplier(id string) (*store.Supplier, error)
	ActiveBySupplier(supplierID string) ([]store.QualityIssue, error)
	ActiveOlderThan(cutoff time.Time) ([]store.QualityIssue, error)
	SetIssuesStatus(ids []string, status string) error
	SetSupplierRisk(id string, score float64) error
}

// RiskLevel buckets an averaged relevance score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Recommendations paired with each risk level.
const (
	RecommendApprove  = "Approve"
	RecommendInspect  = "Require Quality Inspection"
	RecommendEscalate = "Escalate to Procurement Head"
)

// ScoredIssue pairs an issue with its unrounded score components.
type ScoredIssue struct {
	Issue store.QualityIssue
	Score scoring.Score
}

// ContextItem is one scored issue as it appears in a risk payload.
// All score fields are rounded to 3 decimals for display stability.
type ContextItem struct {
	IssueID         string  `json:"issue_id"`
	Severity        int     `json:"severity"`
	FinancialImpact float64 `json:"financial_impact"`
	IssueDate       string  `json:"issue_date"` // ISO 8601
	Relevance       float64 `json:"relevance"`
	TemporalScore   float64 `json:"temporal_score"`
	SeverityScore   float64 `json:"severity_score"`
	ImpactScore     float64 `json:"impact_score"`
}

// Assessment is the final risk verdict for an invoice or supplier.
type Assessment struct {
	InvoiceID      string        `json:"invoice_id,omitempty"`
	SupplierID     string        `json:"supplier_id"`
	RiskScore      float64       `json:"risk_score"`
	RiskLevel      RiskLevel     `json:"risk_level"`
	Recommendation string        `json:"recommendation"`
	ContextUsed    []ContextItem `json:"context_used"`
}

// Engine ties the scoring core to the record store: it evicts stale
// memory, retrieves and ranks context, and reduces it to a verdict.
type Engine struct {
	store  Store
	clock  clockwork.Clock
	scorer scoring.Scorer
	cfg    config.Config
	cron   *cron.Cron
}

// New creates an Engine over the given store and clock.
func New(st Store, clock clockwork.Clock, cfg config.Config) *Engine {
	return &Engine{
		store:  st,
		clock:  clock,
		scorer: scoring.New(cfg.Scoring),
		cfg:    cfg,
	}
}

// ApplyLifecycle flips active issues older than the retention window to
// dormant in one atomic batch and returns the number transitioned.
// Idempotent: a second run with no newly stale issues transitions nothing.
func (e *Engine) ApplyLifecycle() (int, error) {
	cutoff := e.clock.Now().AddDate(0, 0, -e.cfg.Lifecycle.RetentionDays)

	stale, err := e.store.ActiveOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("query stale issues: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]string, len(stale))
	for i, issue := range stale {
		ids[i] = issue.ID
	}
	if err := e.store.SetIssuesStatus(ids, store.StatusDormant); err != nil {
		return 0, fmt.Errorf("mark dormant: %w", err)
	}
	return len(ids), nil
}

// RetrieveContext fetches a supplier's active issues, scores each, and
// returns the top-K by descending relevance. Ties break on issue ID
// ascending so ordering is reproducible. The truncation bounds downstream
// payload size; an empty result just means no history.
func (e *Engine) RetrieveContext(supplierID string) ([]ScoredIssue, error) {
	issues, err := e.store.ActiveBySupplier(supplierID)
	if err != nil {
		return nil, fmt.Errorf("query active issues: %w", err)
	}

	now := e.clock.Now()
	scored := make([]ScoredIssue, len(issues))
	for i, issue := range issues {
		scored[i] = ScoredIssue{
			Issue: issue,
			Score: e.scorer.Issue(issue.Severity, issue.FinancialImpact, issue.IssueDate, now),
		}
	}

	// Rank on the unrounded relevance; rounded values could tie.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score.Relevance != scored[j].Score.Relevance {
			return scored[i].Score.Relevance > scored[j].Score.Relevance
		}
		return scored[i].Issue.ID < scored[j].Issue.ID
	})

	if len(scored) > e.cfg.Scoring.TopK {
		scored = scored[:e.cfg.Scoring.TopK]
	}
	return scored, nil
}

// AggregateRisk reduces scored context to a verdict. Thresholds are
// strict: a score exactly on a boundary falls to the lower level.
func (e *Engine) AggregateRisk(context []ScoredIssue) (float64, RiskLevel, string) {
	score := 0.0
	if len(context) > 0 {
		sum := 0.0
		for _, item := range context {
			sum += item.Score.Relevance
		}
		score = sum / float64(len(context))
	}

	switch {
	case score > e.cfg.Scoring.HighThreshold:
		return score, RiskHigh, RecommendEscalate
	case score > e.cfg.Scoring.MediumThreshold:
		return score, RiskMedium, RecommendInspect
	default:
		return score, RiskLow, RecommendApprove
	}
}

// ProcessInvoice runs the full pipeline for one invoice: lifecycle sweep,
// context retrieval for the invoice's supplier, aggregation. Returns
// ErrInvoiceNotFound if the invoice does not resolve.
func (e *Engine) ProcessInvoice(invoiceID string) (*Assessment, error) {
	// Evict stale memory first so retrieval never scores an issue this
	// same operation should have made dormant.
	if _, err := e.ApplyLifecycle(); err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}

	invoice, err := e.store.GetInvoice(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("resolve invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	assessment, err := e.assess(invoice.SupplierID)
	if err != nil {
		return nil, err
	}
	assessment.InvoiceID = invoice.ID
	return assessment, nil
}

// ScoreSupplier runs the pipeline addressed by supplier rather than
// invoice. Returns ErrSupplierNotFound if the supplier does not resolve.
func (e *Engine) ScoreSupplier(supplierID string) (*Assessment, error) {
	if _, err := e.ApplyLifecycle(); err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}

	supplier, err := e.store.GetSupplier(supplierID)
	if err != nil {
		return nil, fmt.Errorf("resolve supplier: %w", err)
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}

	return e.assess(supplier.ID)
}

func (e *Engine) assess(supplierID string) (*Assessment, error) {
	context, err := e.RetrieveContext(supplierID)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	score, level, recommendation := e.AggregateRisk(context)

	// Remember the latest verdict on the supplier. Failing to record it
	// doesn't invalidate the assessment.
	if err := e.store.SetSupplierRisk(supplierID, score); err != nil {
		log.Printf("record supplier risk for %s: %v", supplierID, err)
	}

	items := make([]ContextItem, len(context))
	for i, sc := range context {
		items[i] = ContextItem{
			IssueID:         sc.Issue.ID,
			Severity:        sc.Issue.Severity,
			FinancialImpact: sc.Issue.FinancialImpact,
			IssueDate:       sc.Issue.IssueDate.UTC().Format(time.RFC3339),
			Relevance:       scoring.Round3(sc.Score.Relevance),
			TemporalScore:   scoring.Round3(sc.Score.Temporal),
			SeverityScore:   scoring.Round3(sc.Score.Severity),
			ImpactScore:     scoring.Round3(sc.Score.Impact),
		}
	}

	return &Assessment{
		SupplierID:     supplierID,
		RiskScore:      scoring.Round3(score),
		RiskLevel:      level,
		Recommendation: recommendation,
		ContextUsed:    items,
	}, nil
}

// StartSweepScheduler runs a lifecycle sweep immediately and then on the
// configured cron schedule. Call Stop to halt the scheduler.
func (e *Engine) StartSweepScheduler() error {
	if n, err := e.ApplyLifecycle(); err != nil {
		log.Printf("lifecycle sweep error: %v", err)
	} else if n > 0 {
		log.Printf("lifecycle sweep: %d issues went dormant", n)
	}

	c := cron.New()
	_, err := c.AddFunc(e.cfg.Lifecycle.SweepSchedule, func() {
		if n, err := e.ApplyLifecycle(); err != nil {
			log.Printf("lifecycle sweep error: %v", err)
		} else if n > 0 {
			log.Printf("lifecycle sweep: %d issues went dormant", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", e.cfg.Lifecycle.SweepSchedule, err)
	}
	c.Start()
	e.cron = c
	return nil
}

// Stop shuts down the engine's background scheduler.
func (e *Engine) Stop() {
	if e.cron != nil {
		e.cron.Stop()
	}
}
