package srp

import (
	"crypto/sha256"
	"math/big"
)

// deriveSessionSecret derives the password exponent x = SHA-256(salt ‖ password)
// interpreted as a big-endian unsigned integer. The inputs are raw bytes, not
// fixed-width encoded integers, so no padding applies here. The result is as
// sensitive as the password itself: it must stay inside the single proof
// computation and never reach a log or any durable storage.
func deriveSessionSecret(salt, password []byte) *big.Int {
	h := sha256.New()
	h.Write(salt)
	h.Write(password)
	return new(big.Int).SetBytes(h.Sum(nil))
}
