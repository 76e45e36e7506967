package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "suppliers: vendors tracked by the memory engine",
		SQL: `
CREATE TABLE suppliers (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    risk_score  REAL NOT NULL DEFAULT 0.0,
    created_at  INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "invoices: incoming invoices to be risk-scored",
		SQL: `
CREATE TABLE invoices (
    id          TEXT PRIMARY KEY,
    supplier_id TEXT NOT NULL,
    amount      REAL NOT NULL,
    created_at  INTEGER NOT NULL,

    FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
);

CREATE INDEX idx_invoices_supplier ON invoices(supplier_id);
`,
	},
	{
		Version:     3,
		Description: "quality_issues: the supplier quality memory",
		SQL: `
CREATE TABLE quality_issues (
    id               TEXT PRIMARY KEY,
    supplier_id      TEXT NOT NULL,
    invoice_id       TEXT,
    severity         INTEGER NOT NULL,
    financial_impact REAL NOT NULL DEFAULT 0,
    status           TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'dormant')),
    issue_date       INTEGER NOT NULL,
    created_at       INTEGER NOT NULL,

    FOREIGN KEY (supplier_id) REFERENCES suppliers(id),
    FOREIGN KEY (invoice_id) REFERENCES invoices(id)
);

CREATE INDEX idx_issues_supplier_status ON quality_issues(supplier_id, status);
CREATE INDEX idx_issues_status_date     ON quality_issues(status, issue_date);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
