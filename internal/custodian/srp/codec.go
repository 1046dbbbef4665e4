package srp

import "math/big"

// encodeFixed encodes v as exactly width big-endian bytes, left-padded with
// zero bytes. Hash inputs are positional concatenations of fixed-size fields;
// a variable-width encoding of a value with leading zero bytes would change
// the digest and break protocol compatibility without any visible error.
func encodeFixed(v *big.Int, width int) ([]byte, error) {
	if v == nil || v.Sign() < 0 {
		return nil, ErrInvalidOperand
	}
	raw := v.Bytes()
	if len(raw) > width {
		return nil, ErrEncodingOverflow
	}
	out := make([]byte, width)
	copy(out[width-len(raw):], raw)
	return out, nil
}

// decodeFixed interprets b as a big-endian unsigned integer. It is the
// inverse of encodeFixed and accepts any byte sequence.
func decodeFixed(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
