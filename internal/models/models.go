// Package models contains the domain models for the payout vault.
package models

import "time"

// Operator represents a person allowed to trigger withdrawals.
type Operator struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents an operator session for authentication.
type Session struct {
	ID         string    `json:"id"`
	OperatorID int64     `json:"operator_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Withdrawal attempt statuses.
const (
	WithdrawalPending   = "pending"
	WithdrawalConfirmed = "confirmed"
	WithdrawalFailed    = "failed"
)

// WithdrawalAttempt is the audit record of one withdrawal attempt. It holds
// identifiers and outcomes only; the account password and every SRP
// intermediate value stay out of the database.
type WithdrawalAttempt struct {
	ID           int64     `json:"id"`
	OperatorID   int64     `json:"operator_id"`
	SRPID        int64     `json:"srp_id"`
	Amount       int64     `json:"amount"`
	Destination  string    `json:"destination"`
	Status       string    `json:"status"`
	Failure      string    `json:"failure,omitempty"` // error category only
	CustodianRef string    `json:"custodian_ref,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Invoice represents a deposit invoice for topping up the custodian account.
type Invoice struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Memo      string    `json:"memo,omitempty"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}
