package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"

	apperrors "payout_vault/internal/errors"
	"payout_vault/internal/models"
	"payout_vault/internal/repository"
)

// qrSize is the pixel width of generated invoice QR codes.
const qrSize = 256

// InvoiceService manages deposit invoices and their QR codes.
type InvoiceService struct {
	invoices *repository.InvoiceRepository
	audit    *AuditService

	// depositAddress is the custodian account deposits are directed to.
	depositAddress string
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoices *repository.InvoiceRepository, audit *AuditService, depositAddress string) *InvoiceService {
	return &InvoiceService{
		invoices:       invoices,
		audit:          audit,
		depositAddress: depositAddress,
	}
}

// Create issues a new deposit invoice with a random reference.
func (s *InvoiceService) Create(operatorID, amount int64, currency, memo, ip string) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}
	if currency == "" {
		currency = "EUR"
	}

	reference, err := generateReference()
	if err != nil {
		return nil, apperrors.Internal("generating invoice reference", err)
	}

	invoice := &models.Invoice{
		Reference: reference,
		Amount:    amount,
		Currency:  currency,
		Memo:      memo,
	}
	id, err := s.invoices.Create(invoice)
	if err != nil {
		return nil, apperrors.Internal("creating invoice", err)
	}
	invoice.ID = id

	s.audit.LogAction(operatorID, AuditInvoiceCreated, "invoice", id,
		map[string]any{"reference": reference, "amount": amount, "currency": currency}, ip)

	return invoice, nil
}

// Get retrieves an invoice by reference.
func (s *InvoiceService) Get(reference string) (*models.Invoice, error) {
	invoice, err := s.invoices.GetByReference(reference)
	if err != nil {
		return nil, apperrors.Internal("loading invoice", err)
	}
	if invoice == nil {
		return nil, apperrors.NotFound("invoice")
	}
	return invoice, nil
}

// MarkPaid flags an invoice as settled.
func (s *InvoiceService) MarkPaid(operatorID int64, reference, ip string) error {
	invoice, err := s.Get(reference)
	if err != nil {
		return err
	}
	if invoice.Paid {
		return apperrors.Validation("invoice is already paid")
	}

	if err := s.invoices.MarkPaid(reference); err != nil {
		return apperrors.Internal("marking invoice paid", err)
	}

	s.audit.LogAction(operatorID, AuditInvoicePaid, "invoice", invoice.ID,
		map[string]any{"reference": reference}, ip)
	return nil
}

// Recent lists the most recent invoices.
func (s *InvoiceService) Recent(limit int) ([]*models.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	invoices, err := s.invoices.Recent(limit)
	if err != nil {
		return nil, apperrors.Internal("listing invoices", err)
	}
	return invoices, nil
}

// QRCode renders the invoice's payment URI as a PNG.
func (s *InvoiceService) QRCode(reference string) ([]byte, error) {
	invoice, err := s.Get(reference)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(s.paymentURI(invoice), qrcode.Medium, qrSize)
	if err != nil {
		return nil, apperrors.Internal("rendering invoice QR code", err)
	}
	return png, nil
}

// paymentURI builds the URI encoded into the invoice QR code.
func (s *InvoiceService) paymentURI(invoice *models.Invoice) string {
	q := url.Values{}
	q.Set("amount", fmt.Sprintf("%d", invoice.Amount))
	q.Set("currency", invoice.Currency)
	q.Set("reference", invoice.Reference)
	if invoice.Memo != "" {
		q.Set("memo", invoice.Memo)
	}
	return fmt.Sprintf("pay:%s?%s", s.depositAddress, q.Encode())
}

// generateReference creates a random invoice reference.
func generateReference() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "inv-" + hex.EncodeToString(bytes), nil
}
