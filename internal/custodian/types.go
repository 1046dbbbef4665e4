package custodian

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"payout_vault/internal/custodian/srp"
)

// PasswordParams is the wire shape of the custodian's SRP challenge. The
// custodian issues one per withdrawal attempt; each is single-use.
type PasswordParams struct {
	// SRPID arrives as either a JSON string or an integer depending on the
	// API version, so it is kept raw until parsed.
	SRPID       json.RawMessage `json:"srp_id"`
	SRPB        string          `json:"srp_B"`
	CurrentSalt string          `json:"current_salt"`
}

// Challenge validates and decodes the wire parameters into the prover's
// challenge form: srp_id as int64, B from hex, salt from base64. Missing or
// malformed fields map to srp.ErrInvalidParams so callers handle parse
// failures and prover-side validation uniformly.
func (p *PasswordParams) Challenge() (srp.Challenge, error) {
	var zero srp.Challenge

	if len(p.SRPID) == 0 || p.SRPB == "" || p.CurrentSalt == "" {
		return zero, fmt.Errorf("incomplete password params: %w", srp.ErrInvalidParams)
	}

	id, err := parseSRPID(p.SRPID)
	if err != nil {
		return zero, fmt.Errorf("parsing srp_id: %w", srp.ErrInvalidParams)
	}

	b, ok := new(big.Int).SetString(strings.TrimPrefix(p.SRPB, "0x"), 16)
	if !ok {
		return zero, fmt.Errorf("parsing srp_B: %w", srp.ErrInvalidParams)
	}

	salt, err := base64.StdEncoding.DecodeString(p.CurrentSalt)
	if err != nil {
		return zero, fmt.Errorf("parsing current_salt: %w", srp.ErrInvalidParams)
	}

	return srp.Challenge{SRPID: id, B: b, Salt: salt}, nil
}

// parseSRPID accepts both `"12345"` and `12345`.
func parseSRPID(raw json.RawMessage) (int64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return strconv.ParseInt(s, 10, 64)
}

// Balance is the account balance held at the custodian.
type Balance struct {
	Available int64  `json:"available"`
	Pending   int64  `json:"pending"`
	Currency  string `json:"currency"`
}

// WithdrawalRequest describes a withdrawal to submit. The password proof is
// attached separately by RequestWithdrawal.
type WithdrawalRequest struct {
	Amount      int64  `json:"amount"`
	Destination string `json:"destination"`
}

// withdrawalBody is the full request body: the withdrawal plus the SRP proof
// in the password field, consumed verbatim by the custodian.
type withdrawalBody struct {
	Amount      int64              `json:"amount"`
	Destination string             `json:"destination"`
	Password    *srp.PasswordCheck `json:"password"`
}

// WithdrawalResult is the custodian's acknowledgement of a withdrawal.
type WithdrawalResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

// apiError is the custodian's error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
