// Package repository provides database access for the payout vault.
package repository

import (
	"database/sql"

	"payout_vault/internal/database"
	"payout_vault/internal/models"
)

// OperatorRepository handles operator database operations.
type OperatorRepository struct {
	db *database.DB
}

// NewOperatorRepository creates a new OperatorRepository.
func NewOperatorRepository(db *database.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Create inserts a new operator and returns its ID.
func (r *OperatorRepository) Create(op *models.Operator) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO operators (username, password_hash, is_admin)
		VALUES (?, ?, ?)
	`, op.Username, op.PasswordHash, boolToInt(op.IsAdmin))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetByID retrieves an operator by ID. Returns nil if not found.
func (r *OperatorRepository) GetByID(id int64) (*models.Operator, error) {
	row := r.db.QueryRow(`
		SELECT id, username, password_hash, is_admin, created_at
		FROM operators
		WHERE id = ?
	`, id)
	return scanOperator(row)
}

// GetByUsername retrieves an operator by username. Returns nil if not found.
func (r *OperatorRepository) GetByUsername(username string) (*models.Operator, error) {
	row := r.db.QueryRow(`
		SELECT id, username, password_hash, is_admin, created_at
		FROM operators
		WHERE username = ?
	`, username)
	return scanOperator(row)
}

// CountAll returns the total number of operators.
func (r *OperatorRepository) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM operators`).Scan(&count)
	return count, err
}

func scanOperator(row *sql.Row) (*models.Operator, error) {
	op := &models.Operator{}
	var isAdmin int

	err := row.Scan(&op.ID, &op.Username, &op.PasswordHash, &isAdmin, &op.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	op.IsAdmin = isAdmin == 1
	return op, nil
}

// boolToInt converts a boolean to SQLite integer (0 or 1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
