// Package custodian implements the HTTP client for the remote custodian that
// holds the accumulated account funds. Withdrawals are authorized with an SRP
// password proof produced by the srp subpackage; this package only fetches
// challenge parameters and passes payloads through.
package custodian

import "errors"

// Custodian API errors.
var (
	// ErrPasswordInvalid is returned when the custodian rejects the SRP proof.
	// The password was wrong or the challenge was consumed by another attempt.
	ErrPasswordInvalid = errors.New("custodian rejected the password proof")

	// ErrInsufficientFunds is returned when the withdrawal amount exceeds the
	// available balance.
	ErrInsufficientFunds = errors.New("insufficient funds at custodian")

	// ErrUnavailable is returned when the custodian API cannot be reached or
	// answers with a server error.
	ErrUnavailable = errors.New("custodian unavailable")

	// ErrUnauthorized is returned when the API token is missing or revoked.
	ErrUnauthorized = errors.New("custodian rejected the API token")
)
