package services

import (
	"errors"
	"log"

	"payout_vault/internal/custodian"
	"payout_vault/internal/custodian/srp"
	apperrors "payout_vault/internal/errors"
	"payout_vault/internal/models"
	"payout_vault/internal/repository"
)

// Failure categories recorded against failed withdrawal attempts. These name
// the error kind only; the password and SRP intermediates are never recorded.
const (
	FailureInvalidParams     = "invalid_params"
	FailureInvalidChallenge  = "invalid_challenge"
	FailureEncodingOverflow  = "encoding_overflow"
	FailureEntropy           = "entropy_unavailable"
	FailurePasswordInvalid   = "password_invalid"
	FailureInsufficientFunds = "insufficient_funds"
	FailureUnavailable       = "custodian_unavailable"
	FailureUnauthorized      = "unauthorized"
	FailureInternal          = "internal"
)

// WithdrawalService orchestrates proof-authorized withdrawals: it fetches a
// fresh challenge from the custodian, computes the password proof, submits
// the withdrawal and records the attempt.
type WithdrawalService struct {
	client   *custodian.Client
	attempts *repository.WithdrawalRepository
	audit    *AuditService
}

// NewWithdrawalService creates a new WithdrawalService.
func NewWithdrawalService(client *custodian.Client, attempts *repository.WithdrawalRepository, audit *AuditService) *WithdrawalService {
	return &WithdrawalService{
		client:   client,
		attempts: attempts,
		audit:    audit,
	}
}

// Balance fetches the funds currently held at the custodian.
func (s *WithdrawalService) Balance() (*custodian.Balance, error) {
	balance, err := s.client.GetBalance()
	if err != nil {
		return nil, classifyError(err)
	}
	return balance, nil
}

// Recent lists the most recent withdrawal attempts.
func (s *WithdrawalService) Recent(limit int) ([]*models.WithdrawalAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	attempts, err := s.attempts.Recent(limit)
	if err != nil {
		return nil, apperrors.Internal("listing withdrawal attempts", err)
	}
	return attempts, nil
}

// Withdraw releases funds from the custodian. The password authorizes the
// withdrawal via an SRP proof; it is consumed for the single proof
// computation and never stored or logged.
func (s *WithdrawalService) Withdraw(operatorID, amount int64, destination, password, ip string) (*models.WithdrawalAttempt, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}
	if destination == "" {
		return nil, apperrors.Validation("destination is required")
	}
	if password == "" {
		return nil, apperrors.Validation("password is required")
	}

	params, err := s.client.GetPasswordParams()
	if err != nil {
		return nil, classifyError(err)
	}

	challenge, err := params.Challenge()
	if err != nil {
		return nil, classifyError(err)
	}

	attempt := &models.WithdrawalAttempt{
		OperatorID:  operatorID,
		SRPID:       challenge.SRPID,
		Amount:      amount,
		Destination: destination,
		Status:      models.WithdrawalPending,
	}
	attemptID, err := s.attempts.Create(attempt)
	if err != nil {
		return nil, apperrors.Internal("recording withdrawal attempt", err)
	}
	attempt.ID = attemptID

	s.audit.LogAction(operatorID, AuditWithdrawalRequested, "withdrawal", attemptID,
		map[string]any{"amount": amount, "destination": destination}, ip)

	check, err := srp.ComputeProof(challenge, []byte(password))
	if err != nil {
		return attempt, s.fail(attempt, err, ip)
	}

	result, err := s.client.RequestWithdrawal(custodian.WithdrawalRequest{
		Amount:      amount,
		Destination: destination,
	}, check)
	if err != nil {
		return attempt, s.fail(attempt, err, ip)
	}

	if err := s.attempts.MarkConfirmed(attemptID, result.Reference); err != nil {
		log.Printf("Failed to mark withdrawal %d confirmed: %v", attemptID, err)
	}
	attempt.Status = models.WithdrawalConfirmed
	attempt.CustodianRef = result.Reference

	s.audit.LogAction(operatorID, AuditWithdrawalConfirmed, "withdrawal", attemptID,
		map[string]any{"reference": result.Reference}, ip)

	return attempt, nil
}

// fail records the failure category against the attempt and returns the
// classified error.
func (s *WithdrawalService) fail(attempt *models.WithdrawalAttempt, cause error, ip string) error {
	category := failureCategory(cause)

	if err := s.attempts.MarkFailed(attempt.ID, category); err != nil {
		log.Printf("Failed to mark withdrawal %d failed: %v", attempt.ID, err)
	}
	attempt.Status = models.WithdrawalFailed
	attempt.Failure = category

	s.audit.LogAction(attempt.OperatorID, AuditWithdrawalFailed, "withdrawal", attempt.ID,
		map[string]any{"failure": category}, ip)

	return classifyError(cause)
}

// failureCategory maps an error to the category stored with the attempt.
func failureCategory(err error) string {
	switch {
	case errors.Is(err, srp.ErrInvalidParams):
		return FailureInvalidParams
	case errors.Is(err, srp.ErrInvalidChallenge):
		return FailureInvalidChallenge
	case errors.Is(err, srp.ErrEncodingOverflow):
		return FailureEncodingOverflow
	case errors.Is(err, srp.ErrEntropyUnavailable):
		return FailureEntropy
	case errors.Is(err, custodian.ErrPasswordInvalid):
		return FailurePasswordInvalid
	case errors.Is(err, custodian.ErrInsufficientFunds):
		return FailureInsufficientFunds
	case errors.Is(err, custodian.ErrUnavailable):
		return FailureUnavailable
	case errors.Is(err, custodian.ErrUnauthorized):
		return FailureUnauthorized
	default:
		return FailureInternal
	}
}

// classifyError maps custodian and prover errors to application errors. The
// returned errors carry categories and messages only, never proof material.
func classifyError(err error) error {
	switch {
	case errors.Is(err, custodian.ErrPasswordInvalid):
		return apperrors.Rejected("custodian rejected the password proof")
	case errors.Is(err, custodian.ErrInsufficientFunds):
		return apperrors.Rejected("insufficient funds at custodian")
	case errors.Is(err, custodian.ErrUnauthorized):
		return apperrors.Upstream("custodian rejected API credentials", nil)
	case errors.Is(err, custodian.ErrUnavailable):
		return apperrors.Upstream("custodian unavailable", nil)
	case errors.Is(err, srp.ErrInvalidParams), errors.Is(err, srp.ErrInvalidChallenge):
		return apperrors.Upstream("custodian sent an unusable challenge", nil)
	case errors.Is(err, srp.ErrEncodingOverflow), errors.Is(err, srp.ErrEntropyUnavailable):
		return apperrors.Internal("proof computation failed", nil)
	default:
		return apperrors.Internal("withdrawal failed", nil)
	}
}
