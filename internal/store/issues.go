package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Issue status values. Transitions are one-way: active issues go dormant
// once they age out of the retention window, never back.
const (
	StatusActive  = "active"
	StatusDormant = "dormant"
)

// QualityIssue is one remembered supplier quality event. IssueDate is
// immutable after creation; all decay math depends on it.
type QualityIssue struct {
	ID              string
	SupplierID      string
	InvoiceID       string
	Severity        int // 1-10 scale
	FinancialImpact float64
	Status          string
	IssueDate       time.Time
	CreatedAt       time.Time
}

// CreateIssue inserts a new active quality issue.
func (db *DB) CreateIssue(issue *QualityIssue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	if issue.Status == "" {
		issue.Status = StatusActive
	}
	issue.CreatedAt = time.Now().UTC()

	_, err := db.Exec(`
		INSERT INTO quality_issues (id, supplier_id, invoice_id, severity, financial_impact, status, issue_date, created_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?)
	`, issue.ID, issue.SupplierID, issue.InvoiceID, issue.Severity, issue.FinancialImpact,
		issue.Status, issue.IssueDate.UnixMilli(), issue.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	return nil
}

// GetIssue returns an issue by ID, or nil if not found.
func (db *DB) GetIssue(id string) (*QualityIssue, error) {
	row := db.QueryRow(`
		SELECT id, supplier_id, invoice_id, severity, financial_impact, status, issue_date, created_at
		FROM quality_issues WHERE id = ?
	`, id)
	issue, err := scanIssue(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return issue, nil
}

// ActiveBySupplier returns all active issues for a supplier, ordered by ID
// so result order is reproducible across runs.
func (db *DB) ActiveBySupplier(supplierID string) ([]QualityIssue, error) {
	rows, err := db.Query(`
		SELECT id, supplier_id, invoice_id, severity, financial_impact, status, issue_date, created_at
		FROM quality_issues WHERE supplier_id = ? AND status = ?
		ORDER BY id
	`, supplierID, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("active by supplier: %w", err)
	}
	defer rows.Close()
	return scanIssues(rows)
}

// ActiveOlderThan returns all active issues whose issue_date is strictly
// before the cutoff. Used by the lifecycle sweep.
func (db *DB) ActiveOlderThan(cutoff time.Time) ([]QualityIssue, error) {
	rows, err := db.Query(`
		SELECT id, supplier_id, invoice_id, severity, financial_impact, status, issue_date, created_at
		FROM quality_issues WHERE status = ? AND issue_date < ?
		ORDER BY id
	`, StatusActive, cutoff.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("active older than: %w", err)
	}
	defer rows.Close()
	return scanIssues(rows)
}

// SetIssuesStatus flips the given issues to the new status in a single
// transaction. All-or-nothing: a failure rolls back every change.
func (db *DB) SetIssuesStatus(ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}

	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE quality_issues SET status = ? WHERE id = ?`, status, id); err != nil {
			tx.Rollback()
			return fmt.Errorf("update issue %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

// CountByStatus returns the number of issues with the given status.
func (db *DB) CountByStatus(status string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM quality_issues WHERE status = ?`, status).Scan(&count)
	return count, err
}

func scanIssue(scan func(dest ...any) error) (*QualityIssue, error) {
	var q QualityIssue
	var invoiceID sql.NullString
	var issueDate, createdAt int64
	if err := scan(&q.ID, &q.SupplierID, &invoiceID, &q.Severity, &q.FinancialImpact,
		&q.Status, &issueDate, &createdAt); err != nil {
		return nil, err
	}
	q.InvoiceID = invoiceID.String
	q.IssueDate = time.UnixMilli(issueDate).UTC()
	q.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &q, nil
}

func scanIssues(rows *sql.Rows) ([]QualityIssue, error) {
	var issues []QualityIssue
	for rows.Next() {
		issue, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}
