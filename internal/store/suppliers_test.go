package store

import (
	"testing"
)

func TestCreateAndGetSupplier(t *testing.T) {
	db := testDB(t)

	supplier, err := db.CreateSupplier("Acme Metals")
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	if supplier.ID == "" {
		t.Error("expected generated ID")
	}

	found, err := db.GetSupplier(supplier.ID)
	if err != nil {
		t.Fatalf("GetSupplier: %v", err)
	}
	if found == nil {
		t.Fatal("expected supplier, got nil")
	}
	if found.Name != "Acme Metals" {
		t.Errorf("name = %q, want Acme Metals", found.Name)
	}
	if found.RiskScore != 0 {
		t.Errorf("risk_score = %f, want 0", found.RiskScore)
	}
}

func TestGetSupplierNotFound(t *testing.T) {
	db := testDB(t)

	found, err := db.GetSupplier("nope")
	if err != nil {
		t.Fatalf("GetSupplier: %v", err)
	}
	if found != nil {
		t.Error("expected nil for missing supplier")
	}
}

func TestSetSupplierRisk(t *testing.T) {
	db := testDB(t)

	supplier, _ := db.CreateSupplier("Acme Metals")
	if err := db.SetSupplierRisk(supplier.ID, 0.64); err != nil {
		t.Fatalf("SetSupplierRisk: %v", err)
	}

	found, _ := db.GetSupplier(supplier.ID)
	if found.RiskScore != 0.64 {
		t.Errorf("risk_score = %f, want 0.64", found.RiskScore)
	}
}

func TestListSuppliers(t *testing.T) {
	db := testDB(t)

	db.CreateSupplier("Zeta Foundry")
	db.CreateSupplier("Acme Metals")

	suppliers, err := db.ListSuppliers()
	if err != nil {
		t.Fatalf("ListSuppliers: %v", err)
	}
	if len(suppliers) != 2 {
		t.Fatalf("len = %d, want 2", len(suppliers))
	}
	if suppliers[0].Name != "Acme Metals" {
		t.Errorf("first supplier = %q, want Acme Metals (ordered by name)", suppliers[0].Name)
	}
}

func TestCreateAndGetInvoice(t *testing.T) {
	db := testDB(t)

	supplier, _ := db.CreateSupplier("Acme Metals")
	invoice, err := db.CreateInvoice(supplier.ID, 250000)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	found, err := db.GetInvoice(invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if found == nil {
		t.Fatal("expected invoice, got nil")
	}
	if found.SupplierID != supplier.ID || found.Amount != 250000 {
		t.Errorf("got supplier=%q amount=%f", found.SupplierID, found.Amount)
	}

	missing, err := db.GetInvoice("nope")
	if err != nil {
		t.Fatalf("GetInvoice missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing invoice")
	}
}
