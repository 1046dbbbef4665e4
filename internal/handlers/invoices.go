package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "payout_vault/internal/errors"
	"payout_vault/internal/middleware"
	"payout_vault/internal/services"
)

// InvoiceHandler handles deposit invoice routes.
type InvoiceHandler struct {
	invoices *services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type createInvoiceRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Memo     string `json:"memo"`
}

// Create issues a new deposit invoice.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	operator := middleware.GetOperator(r)
	if operator == nil {
		respondError(w, apperrors.Unauthorized(""))
		return
	}

	var req createInvoiceRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	invoice, err := h.invoices.Create(operator.ID, req.Amount, req.Currency, req.Memo, clientIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, invoice)
}

// Get returns a single invoice by reference.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	invoice, err := h.invoices.Get(reference)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// List returns recent invoices.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	invoices, err := h.invoices.Recent(limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

// MarkPaid flags an invoice as settled.
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	operator := middleware.GetOperator(r)
	if operator == nil {
		respondError(w, apperrors.Unauthorized(""))
		return
	}

	reference := chi.URLParam(r, "reference")
	if err := h.invoices.MarkPaid(operator.ID, reference, clientIP(r)); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}

// QRCode serves the invoice payment QR code as a PNG image.
func (h *InvoiceHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	png, err := h.invoices.QRCode(reference)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
