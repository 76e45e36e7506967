package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Supplier is a vendor whose quality history the engine remembers.
type Supplier struct {
	ID        string
	Name      string
	RiskScore float64 // last computed risk, updated after each scoring run
	CreatedAt time.Time
}

// CreateSupplier inserts a new supplier and returns it with a generated ID.
func (db *DB) CreateSupplier(name string) (*Supplier, error) {
	s := &Supplier{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(`
		INSERT INTO suppliers (id, name, risk_score, created_at)
		VALUES (?, ?, 0.0, ?)
	`, s.ID, s.Name, s.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return s, nil
}

// GetSupplier returns a supplier by ID, or nil if not found.
func (db *DB) GetSupplier(id string) (*Supplier, error) {
	var s Supplier
	var createdAt int64
	err := db.QueryRow(`
		SELECT id, name, risk_score, created_at FROM suppliers WHERE id = ?
	`, id).Scan(&s.ID, &s.Name, &s.RiskScore, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	s.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &s, nil
}

// ListSuppliers returns all suppliers ordered by name.
func (db *DB) ListSuppliers() ([]Supplier, error) {
	rows, err := db.Query(`
		SELECT id, name, risk_score, created_at FROM suppliers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		var createdAt int64
		if err := rows.Scan(&s.ID, &s.Name, &s.RiskScore, &createdAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		s.CreatedAt = time.UnixMilli(createdAt).UTC()
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// SetSupplierRisk records the latest computed risk score on the supplier.
func (db *DB) SetSupplierRisk(id string, score float64) error {
	_, err := db.Exec(`UPDATE suppliers SET risk_score = ? WHERE id = ?`, score, id)
	if err != nil {
		return fmt.Errorf("set supplier risk: %w", err)
	}
	return nil
}
