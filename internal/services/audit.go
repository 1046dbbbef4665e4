// Package services provides business logic services.
package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"payout_vault/internal/database"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	// Operator actions
	AuditOperatorLogin  AuditAction = "operator.login"
	AuditOperatorLogout AuditAction = "operator.logout"

	// Withdrawal actions
	AuditWithdrawalRequested AuditAction = "withdrawal.requested"
	AuditWithdrawalConfirmed AuditAction = "withdrawal.confirmed"
	AuditWithdrawalFailed    AuditAction = "withdrawal.failed"

	// Invoice actions
	AuditInvoiceCreated AuditAction = "invoice.created"
	AuditInvoicePaid    AuditAction = "invoice.paid"
)

// AuditEntry represents an audit log entry.
// Detail is free-form JSON context; it carries amounts, references and
// error categories only, never credentials or proof material.
type AuditEntry struct {
	ID         int64       `json:"id"`
	OperatorID int64       `json:"operator_id"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   int64       `json:"entity_id"`
	Detail     string      `json:"detail,omitempty"`
	IPAddress  string      `json:"ip_address"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuditService handles audit logging.
type AuditService struct {
	db *database.DB
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *database.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry.
func (s *AuditService) Log(entry *AuditEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_log (operator_id, action, entity_type, entity_id, detail, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.OperatorID, entry.Action, entry.EntityType, entry.EntityID,
		entry.Detail, entry.IPAddress, time.Now())

	if err != nil {
		log.Printf("Failed to write audit log: %v", err)
		return err
	}
	return nil
}

// LogAction is a convenience method for logging an action with automatic JSON serialization.
func (s *AuditService) LogAction(operatorID int64, action AuditAction, entityType string, entityID int64, detail any, ip string) {
	entry := &AuditEntry{
		OperatorID: operatorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
	}

	if detail != nil {
		if data, err := json.Marshal(detail); err == nil {
			entry.Detail = string(data)
		}
	}

	if err := s.Log(entry); err != nil {
		log.Printf("Audit log failed for action %s: %v", action, err)
	}
}

// GetByOperatorID retrieves audit entries for an operator.
func (s *AuditService) GetByOperatorID(operatorID int64, limit, offset int) ([]*AuditEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, operator_id, action, entity_type, entity_id, detail, ip_address, created_at
		FROM audit_log
		WHERE operator_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, operatorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// GetRecent retrieves the most recent audit entries.
func (s *AuditService) GetRecent(limit int) ([]*AuditEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, operator_id, action, entity_type, entity_id, detail, ip_address, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// DeleteOlderThan removes audit entries older than the given duration.
func (s *AuditService) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().Add(-d)
	result, err := s.db.Exec(`DELETE FROM audit_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanAuditEntries(rows *sql.Rows) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	for rows.Next() {
		e := &AuditEntry{}
		var entityType, detail, ip sql.NullString
		var entityID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.OperatorID, &e.Action, &entityType, &entityID,
			&detail, &ip, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EntityType = entityType.String
		e.EntityID = entityID.Int64
		e.Detail = detail.String
		e.IPAddress = ip.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FormatEntry returns a human-readable description of an audit entry.
func FormatEntry(e *AuditEntry) string {
	return fmt.Sprintf("[%s] Operator %d: %s %s (ID: %d)",
		e.CreatedAt.Format("2006-01-02 15:04:05"),
		e.OperatorID, e.Action, e.EntityType, e.EntityID)
}
