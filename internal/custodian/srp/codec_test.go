package srp

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func TestEncodeFixedPadsToWidth(t *testing.T) {
	got, err := encodeFixed(big.NewInt(0x0102), 4)
	if err != nil {
		t.Fatalf("encodeFixed() error = %v", err)
	}
	want := []byte{0x00, 0x00, 0x01, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("encodeFixed(0x0102, 4) = %x, want %x", got, want)
	}
}

func TestEncodeFixedZero(t *testing.T) {
	got, err := encodeFixed(big.NewInt(0), 3)
	if err != nil {
		t.Fatalf("encodeFixed() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0, 0, 0}) {
		t.Errorf("encodeFixed(0, 3) = %x, want all zero bytes", got)
	}
}

func TestEncodeFixedOverflow(t *testing.T) {
	// 2^16 needs three bytes, width is two.
	if _, err := encodeFixed(big.NewInt(0x10000), 2); !errors.Is(err, ErrEncodingOverflow) {
		t.Errorf("encodeFixed(2^16, 2) error = %v, want ErrEncodingOverflow", err)
	}
}

func TestEncodeFixedRejectsNegative(t *testing.T) {
	if _, err := encodeFixed(big.NewInt(-1), 4); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("encodeFixed(-1, 4) error = %v, want ErrInvalidOperand", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	gr := DefaultGroup()
	width := gr.ByteLen()

	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(255),
		big.NewInt(256),
		new(big.Int).Sub(gr.N, big.NewInt(1)),
	}

	for _, v := range values {
		enc, err := encodeFixed(v, width)
		if err != nil {
			t.Fatalf("encodeFixed(%v) error = %v", v, err)
		}
		if len(enc) != width {
			t.Fatalf("encodeFixed(%v) length = %d, want %d", v, len(enc), width)
		}
		if got := decodeFixed(enc); got.Cmp(v) != 0 {
			t.Errorf("decodeFixed(encodeFixed(%v)) = %v", v, got)
		}
	}
}

func TestDecodeFixedLeadingZeros(t *testing.T) {
	// Leading zero bytes must not change the decoded value.
	got := decodeFixed([]byte{0x00, 0x00, 0x2a})
	if got.Int64() != 42 {
		t.Errorf("decodeFixed(00002a) = %d, want 42", got.Int64())
	}
}
