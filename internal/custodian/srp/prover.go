package srp

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
)

// Challenge holds the server-issued parameters for one password check.
// Challenges are single-use: the custodian issues a fresh one per attempt and
// invalidates it once consumed.
type Challenge struct {
	// SRPID identifies the challenge on the custodian side.
	SRPID int64
	// B is the server's ephemeral public value, required in [1, N-1].
	B *big.Int
	// Salt is the account's current password salt.
	Salt []byte
}

// Proof is the output of one proof generation: the client's ephemeral public
// value A and the final digest M1. Neither is secret; everything else the
// computation touches (the ephemeral private value, the password exponent and
// the shared secret) stays inside Generate.
type Proof struct {
	A  *big.Int
	M1 []byte
}

// Prover generates SRP password proofs. The entropy source is injected so
// tests can substitute a deterministic reader; production code uses
// crypto/rand, which is safe for concurrent use, so a single Prover may serve
// parallel attempts. Each call draws its own independent ephemeral value.
type Prover struct {
	group  Group
	random io.Reader
}

// NewProver creates a Prover over the custodian's group backed by crypto/rand.
func NewProver() *Prover {
	return &Prover{group: DefaultGroup(), random: rand.Reader}
}

// Generate produces the proof for one challenge.
//
// Pipeline: validate the challenge, draw the ephemeral a, then
//
//	A = g^a mod N
//	u = H(pad(A) ‖ pad(B))
//	x = H(salt ‖ password)
//	S = (B - g^x mod N)^(a + u*x) mod N
//	M1 = H(pad(A) ‖ pad(B) ‖ pad(S))
//
// where pad() is the fixed-width encoding to N's byte length. The exponent
// a + u*x is used unreduced; the verifier computes the same power, so
// reducing it here would still verify but deviates from the protocol as
// specified. None of password, x, a or S may appear in logs or errors.
func (p *Prover) Generate(ch Challenge, password []byte) (*Proof, error) {
	if ch.SRPID == 0 || ch.B == nil || len(ch.Salt) == 0 {
		return nil, ErrInvalidParams
	}
	if ch.B.Sign() <= 0 || ch.B.Cmp(p.group.N) >= 0 {
		return nil, ErrInvalidChallenge
	}

	width := p.group.ByteLen()

	// Draw N's byte length worth of entropy. The value may land slightly
	// above N; Power accepts full-size exponents, and skipping the reduction
	// keeps the entropy headroom.
	buf := make([]byte, width)
	if _, err := io.ReadFull(p.random, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	a := new(big.Int).SetBytes(buf)

	A, err := p.group.Power(p.group.g, a)
	if err != nil {
		return nil, err
	}

	padA, err := encodeFixed(A, width)
	if err != nil {
		return nil, err
	}
	padB, err := encodeFixed(ch.B, width)
	if err != nil {
		return nil, err
	}
	u := decodeFixed(hashConcat(padA, padB))

	x := deriveSessionSecret(ch.Salt, password)

	gx, err := p.group.Power(p.group.g, x)
	if err != nil {
		return nil, err
	}
	base, err := p.group.SubtractMod(ch.B, gx)
	if err != nil {
		return nil, err
	}

	exponent := new(big.Int).Add(a, new(big.Int).Mul(u, x))
	S, err := p.group.Power(base, exponent)
	if err != nil {
		return nil, err
	}

	padS, err := encodeFixed(S, width)
	if err != nil {
		return nil, err
	}

	return &Proof{A: A, M1: hashConcat(padA, padB, padS)}, nil
}

// hashConcat returns SHA-256 over the concatenation of parts.
func hashConcat(parts ...[]byte) []byte {
	h := sha256.New()
	for _, part := range parts {
		h.Write(part)
	}
	return h.Sum(nil)
}
