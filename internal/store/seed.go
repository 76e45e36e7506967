package store

import (
	"fmt"
	"time"
)

// Seed wipes all data and loads the demo fixture: one supplier with a
// pending invoice and two quality issues, one recent and one aging.
// The issue dates are relative to now so decay behaves the same whenever
// the fixture is loaded.
func (db *DB) Seed(now time.Time) (*Invoice, error) {
	for _, stmt := range []string{
		"DELETE FROM quality_issues",
		"DELETE FROM invoices",
		"DELETE FROM suppliers",
	} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("seed wipe: %w", err)
		}
	}

	supplier, err := db.CreateSupplier("Supplier XYZ")
	if err != nil {
		return nil, fmt.Errorf("seed supplier: %w", err)
	}

	invoice, err := db.CreateInvoice(supplier.ID, 250000)
	if err != nil {
		return nil, fmt.Errorf("seed invoice: %w", err)
	}

	issues := []*QualityIssue{
		{
			SupplierID:      supplier.ID,
			InvoiceID:       invoice.ID,
			Severity:        8,
			FinancialImpact: 50000,
			IssueDate:       now.AddDate(0, 0, -30),
		},
		{
			SupplierID:      supplier.ID,
			InvoiceID:       invoice.ID,
			Severity:        6,
			FinancialImpact: 20000,
			IssueDate:       now.AddDate(0, 0, -300),
		},
	}
	for _, issue := range issues {
		if err := db.CreateIssue(issue); err != nil {
			return nil, fmt.Errorf("seed issue: %w", err)
		}
	}

	return invoice, nil
}
