package repository

import (
	"database/sql"
	"errors"

	"payout_vault/internal/database"
	"payout_vault/internal/models"
)

// WithdrawalRepository handles withdrawal attempt database operations.
type WithdrawalRepository struct {
	db *database.DB
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create inserts a new withdrawal attempt and returns its ID.
func (r *WithdrawalRepository) Create(a *models.WithdrawalAttempt) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO withdrawal_attempts (operator_id, srp_id, amount, destination, status, failure, custodian_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.OperatorID, a.SRPID, a.Amount, a.Destination, a.Status, a.Failure, a.CustodianRef)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByID retrieves a withdrawal attempt by ID. Returns nil if not found.
func (r *WithdrawalRepository) GetByID(id int64) (*models.WithdrawalAttempt, error) {
	row := r.db.QueryRow(`
		SELECT id, operator_id, srp_id, amount, destination, status, failure, custodian_ref, created_at
		FROM withdrawal_attempts
		WHERE id = ?
	`, id)

	a := &models.WithdrawalAttempt{}
	var failure, ref sql.NullString

	err := row.Scan(&a.ID, &a.OperatorID, &a.SRPID, &a.Amount, &a.Destination,
		&a.Status, &failure, &ref, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if failure.Valid {
		a.Failure = failure.String
	}
	if ref.Valid {
		a.CustodianRef = ref.String
	}
	return a, nil
}

// MarkConfirmed records a successful withdrawal with its custodian reference.
func (r *WithdrawalRepository) MarkConfirmed(id int64, custodianRef string) error {
	return r.updateStatus(id, models.WithdrawalConfirmed, "", custodianRef)
}

// MarkFailed records a failed withdrawal with the failure category.
// The category names the error kind only; it never carries secrets.
func (r *WithdrawalRepository) MarkFailed(id int64, failure string) error {
	return r.updateStatus(id, models.WithdrawalFailed, failure, "")
}

func (r *WithdrawalRepository) updateStatus(id int64, status, failure, ref string) error {
	result, err := r.db.Exec(`
		UPDATE withdrawal_attempts
		SET status = ?, failure = ?, custodian_ref = ?
		WHERE id = ?
	`, status, failure, ref, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return errors.New("withdrawal attempt not found")
	}
	return nil
}

// Recent retrieves the most recent withdrawal attempts.
func (r *WithdrawalRepository) Recent(limit int) ([]*models.WithdrawalAttempt, error) {
	rows, err := r.db.Query(`
		SELECT id, operator_id, srp_id, amount, destination, status, failure, custodian_ref, created_at
		FROM withdrawal_attempts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]*models.WithdrawalAttempt, 0)
	for rows.Next() {
		a := &models.WithdrawalAttempt{}
		var failure, ref sql.NullString

		err := rows.Scan(&a.ID, &a.OperatorID, &a.SRPID, &a.Amount, &a.Destination,
			&a.Status, &failure, &ref, &a.CreatedAt)
		if err != nil {
			return nil, err
		}

		if failure.Valid {
			a.Failure = failure.String
		}
		if ref.Valid {
			a.CustodianRef = ref.String
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CountByStatus returns the number of attempts with the given status.
func (r *WithdrawalRepository) CountByStatus(status string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM withdrawal_attempts WHERE status = ?
	`, status).Scan(&count)
	return count, err
}
