package srp

import "errors"

// Proof generation errors. All of them abort the current attempt; a retry
// starts from scratch with freshly fetched challenge parameters and a new
// ephemeral value.
var (
	// ErrInvalidParams is returned when challenge parameters are missing or
	// malformed. The caller may re-fetch parameters and try again.
	ErrInvalidParams = errors.New("challenge parameters missing or malformed")

	// ErrInvalidChallenge is returned when the server value B is outside the
	// valid range (0 < B < N). This is a protocol violation, not retried.
	ErrInvalidChallenge = errors.New("server ephemeral B outside valid range")

	// ErrEncodingOverflow is returned when a value's minimal encoding exceeds
	// the fixed hash-input width. Indicates a mismatched group constant.
	ErrEncodingOverflow = errors.New("value exceeds fixed encoding width")

	// ErrInvalidOperand is returned when an operand is negative or not a
	// canonical residue where the operation requires one.
	ErrInvalidOperand = errors.New("operand outside canonical range")

	// ErrEntropyUnavailable is returned when the secure random source cannot
	// supply the ephemeral value. Safe to retry later.
	ErrEntropyUnavailable = errors.New("secure random source unavailable")
)
