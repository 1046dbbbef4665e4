package repository

import (
	"database/sql"
	"errors"

	"payout_vault/internal/database"
	"payout_vault/internal/models"
)

// InvoiceRepository handles deposit invoice database operations.
type InvoiceRepository struct {
	db *database.DB
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(db *database.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts a new invoice and returns its ID.
func (r *InvoiceRepository) Create(inv *models.Invoice) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO invoices (reference, amount, currency, memo, paid)
		VALUES (?, ?, ?, ?, ?)
	`, inv.Reference, inv.Amount, inv.Currency, inv.Memo, boolToInt(inv.Paid))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByReference retrieves an invoice by its reference. Returns nil if not found.
func (r *InvoiceRepository) GetByReference(reference string) (*models.Invoice, error) {
	row := r.db.QueryRow(`
		SELECT id, reference, amount, currency, memo, paid, created_at
		FROM invoices
		WHERE reference = ?
	`, reference)

	inv := &models.Invoice{}
	var memo sql.NullString
	var paid int

	err := row.Scan(&inv.ID, &inv.Reference, &inv.Amount, &inv.Currency, &memo, &paid, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if memo.Valid {
		inv.Memo = memo.String
	}
	inv.Paid = paid == 1
	return inv, nil
}

// MarkPaid flags an invoice as paid.
func (r *InvoiceRepository) MarkPaid(reference string) error {
	result, err := r.db.Exec(`UPDATE invoices SET paid = 1 WHERE reference = ?`, reference)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("invoice not found")
	}
	return nil
}

// Recent retrieves the most recent invoices.
func (r *InvoiceRepository) Recent(limit int) ([]*models.Invoice, error) {
	rows, err := r.db.Query(`
		SELECT id, reference, amount, currency, memo, paid, created_at
		FROM invoices
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]*models.Invoice, 0)
	for rows.Next() {
		inv := &models.Invoice{}
		var memo sql.NullString
		var paid int

		err := rows.Scan(&inv.ID, &inv.Reference, &inv.Amount, &inv.Currency, &memo, &paid, &inv.CreatedAt)
		if err != nil {
			return nil, err
		}

		if memo.Valid {
			inv.Memo = memo.String
		}
		inv.Paid = paid == 1
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
