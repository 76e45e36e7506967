package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vigil/internal/engine"
	"vigil/internal/store"
)

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.db.Seed(s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "sample supplier memory created",
		"invoice_id":  invoice.ID,
		"supplier_id": invoice.SupplierID,
	})
}

func (s *Server) handleCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	supplier, err := s.db.CreateSupplier(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":   supplier.ID,
		"name": supplier.Name,
	})
}

func (s *Server) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.db.ListSuppliers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type supplierJSON struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		RiskScore float64 `json:"risk_score"`
	}
	out := make([]supplierJSON, len(suppliers))
	for i, sup := range suppliers {
		out[i] = supplierJSON{sup.ID, sup.Name, sup.RiskScore}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(out),
		"suppliers": out,
	})
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SupplierID string  `json:"supplier_id"`
		Amount     float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SupplierID == "" {
		writeError(w, http.StatusBadRequest, "supplier_id required")
		return
	}

	supplier, err := s.db.GetSupplier(req.SupplierID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if supplier == nil {
		writeError(w, http.StatusNotFound, "supplier not found")
		return
	}

	invoice, err := s.db.CreateInvoice(req.SupplierID, req.Amount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          invoice.ID,
		"supplier_id": invoice.SupplierID,
		"amount":      invoice.Amount,
	})
}

func (s *Server) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierID")

	var req struct {
		InvoiceID       string  `json:"invoice_id"`
		Severity        int     `json:"severity"`
		FinancialImpact float64 `json:"financial_impact"`
		IssueDate       string  `json:"issue_date"` // RFC 3339; empty means now
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	supplier, err := s.db.GetSupplier(supplierID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if supplier == nil {
		writeError(w, http.StatusNotFound, "supplier not found")
		return
	}

	issueDate := s.clock.Now()
	if req.IssueDate != "" {
		issueDate, err = time.Parse(time.RFC3339, req.IssueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "issue_date must be RFC 3339")
			return
		}
	}

	issue := &store.QualityIssue{
		SupplierID:      supplierID,
		InvoiceID:       req.InvoiceID,
		Severity:        req.Severity,
		FinancialImpact: req.FinancialImpact,
		IssueDate:       issueDate,
	}
	if err := s.db.CreateIssue(issue); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         issue.ID,
		"status":     issue.Status,
		"issue_date": issue.IssueDate.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProcessInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")

	assessment, err := s.engine.ProcessInvoice(invoiceID)
	if err != nil {
		if errors.Is(err, engine.ErrInvoiceNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleSupplierRisk(w http.ResponseWriter, r *http.Request) {
	supplierID := chi.URLParam(r, "supplierID")

	assessment, err := s.engine.ScoreSupplier(supplierID)
	if err != nil {
		if errors.Is(err, engine.ErrSupplierNotFound) {
			writeError(w, http.StatusNotFound, "supplier not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.ApplyLifecycle()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transitioned": n,
	})
}
