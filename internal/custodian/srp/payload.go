package srp

import "encoding/hex"

// payloadType discriminates the SRP password-check payload on the wire.
const payloadType = "inputCheckPasswordSRP"

// PasswordCheck is the externally visible proof structure. The custodian
// consumes it verbatim as the password field of a withdrawal request.
type PasswordCheck struct {
	Type  string `json:"_"`
	SRPID int64  `json:"srp_id"`
	A     string `json:"A"`
	M1    string `json:"M1"`
}

// BuildPasswordCheck assembles the wire payload from a generated proof.
// A is rendered as minimal lowercase hex (no 0x prefix, no extra padding),
// matching the custodian's wire convention; M1 is the 32-byte digest as 64
// lowercase hex characters.
func BuildPasswordCheck(srpID int64, proof *Proof) *PasswordCheck {
	return &PasswordCheck{
		Type:  payloadType,
		SRPID: srpID,
		A:     proof.A.Text(16),
		M1:    hex.EncodeToString(proof.M1),
	}
}

// ComputeProof is the package entry point: it consumes a challenge and the
// account password and returns the payload proving password knowledge. Every
// call draws a fresh ephemeral value from crypto/rand; nothing is cached
// between calls.
func ComputeProof(ch Challenge, password []byte) (*PasswordCheck, error) {
	proof, err := NewProver().Generate(ch, password)
	if err != nil {
		return nil, err
	}
	return BuildPasswordCheck(ch.SRPID, proof), nil
}
