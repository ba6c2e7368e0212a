package zkinput

import (
	"math/big"

	"github.com/kzero-xyz/kzero-service/internal/poseidon"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// fieldHashASCII implements the repeated §4.3 step-6 shape:
// poseidon_hash(convert_base(pad_ascii(s, pad, 0).reverse(), 8, 248)).
func fieldHashASCII(s string, pad int) (*big.Int, error) {
	raw := []byte(s)
	if len(raw) > pad {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "value exceeds fixed field-hash pad width")
	}

	padded := make([]byte, pad)
	copy(padded, raw)
	reverseBytes(padded)

	digits := make([]*big.Int, pad)
	for i, b := range padded {
		digits[i] = big.NewInt(int64(b))
	}

	packed := poseidon.ConvertBase(digits, InBase, OutBase)
	return poseidon.Hash(packed)
}

// fieldHashLimbs implements modulus_F = poseidon_hash(convert_base(limbs, 64, 248)).
func fieldHashLimbs(limbs []*big.Int) (*big.Int, error) {
	packed := poseidon.ConvertBase(limbs, RSALimbBits, OutBase)
	return poseidon.Hash(packed)
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
