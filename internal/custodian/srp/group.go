// Package srp implements the client (prover) half of the custodian's SRP
// password check. Given a server-issued challenge and the account password it
// produces a zero-knowledge proof that the custodian accepts to authorize a
// withdrawal; the password itself is never transmitted.
package srp

import "math/big"

// groupN is the 2048-bit safe prime shared with the custodian's verifier
// (RFC 5054 group 2048, generator 2). It must match the server bit-for-bit:
// a different constant produces proofs the custodian silently rejects.
var groupN *big.Int

func init() {
	groupN = new(big.Int)
	groupN.SetString(
		"AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050"+
			"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50"+
			"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8"+
			"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B"+
			"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748"+
			"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6"+
			"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6"+
			"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73", 16)
}

// Group holds the prime modulus N and generator g of the SRP group. It is a
// stateless value type; all arithmetic allocates fresh results and never
// mutates the constants, so a single Group is safe for concurrent use.
type Group struct {
	N *big.Int
	g *big.Int
}

// DefaultGroup returns the group the custodian verifies against.
func DefaultGroup() Group {
	return Group{N: groupN, g: big.NewInt(2)}
}

// ByteLen returns the byte length of N, which is the fixed width every
// hash-input encoding uses.
func (gr Group) ByteLen() int {
	return (gr.N.BitLen() + 7) / 8
}

// Power computes base^exponent mod N. The base must be a canonical residue in
// [0, N-1]. The exponent may exceed N's bit length; square-and-multiply
// handles it directly and no prior reduction is performed (the protocol
// depends on the unreduced exponent).
func (gr Group) Power(base, exponent *big.Int) (*big.Int, error) {
	if base.Sign() < 0 || base.Cmp(gr.N) >= 0 {
		return nil, ErrInvalidOperand
	}
	if exponent.Sign() < 0 {
		return nil, ErrInvalidOperand
	}
	return new(big.Int).Exp(base, exponent, gr.N), nil
}

// SubtractMod computes (a - b) mod N, normalized into [0, N-1] even when
// a < b. Both operands must be canonical residues.
func (gr Group) SubtractMod(a, b *big.Int) (*big.Int, error) {
	if err := gr.checkCanonical(a, b); err != nil {
		return nil, err
	}
	res := new(big.Int).Sub(a, b)
	return res.Mod(res, gr.N), nil
}

// AddMod computes (a + b) mod N for canonical residues a and b.
func (gr Group) AddMod(a, b *big.Int) (*big.Int, error) {
	if err := gr.checkCanonical(a, b); err != nil {
		return nil, err
	}
	res := new(big.Int).Add(a, b)
	return res.Mod(res, gr.N), nil
}

// MultiplyMod computes (a * b) mod N for canonical residues a and b.
func (gr Group) MultiplyMod(a, b *big.Int) (*big.Int, error) {
	if err := gr.checkCanonical(a, b); err != nil {
		return nil, err
	}
	res := new(big.Int).Mul(a, b)
	return res.Mod(res, gr.N), nil
}

// checkCanonical verifies that every value lies in [0, N-1].
func (gr Group) checkCanonical(vals ...*big.Int) error {
	for _, v := range vals {
		if v == nil || v.Sign() < 0 || v.Cmp(gr.N) >= 0 {
			return ErrInvalidOperand
		}
	}
	return nil
}
