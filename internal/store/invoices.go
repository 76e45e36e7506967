package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invoice is an incoming invoice awaiting a risk verdict.
type Invoice struct {
	ID         string
	SupplierID string
	Amount     float64
	CreatedAt  time.Time
}

// CreateInvoice inserts a new invoice for a supplier.
func (db *DB) CreateInvoice(supplierID string, amount float64) (*Invoice, error) {
	inv := &Invoice{
		ID:         uuid.NewString(),
		SupplierID: supplierID,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := db.Exec(`
		INSERT INTO invoices (id, supplier_id, amount, created_at)
		VALUES (?, ?, ?, ?)
	`, inv.ID, inv.SupplierID, inv.Amount, inv.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

// GetInvoice returns an invoice by ID, or nil if not found.
func (db *DB) GetInvoice(id string) (*Invoice, error) {
	var inv Invoice
	var createdAt int64
	err := db.QueryRow(`
		SELECT id, supplier_id, amount, created_at FROM invoices WHERE id = ?
	`, id).Scan(&inv.ID, &inv.SupplierID, &inv.Amount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &inv, nil
}
