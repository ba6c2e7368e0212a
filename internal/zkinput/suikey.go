package zkinput

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// suiEd25519Flag is Sui's one-byte scheme prefix for Ed25519 keys.
const suiEd25519Flag = 0x00

// suiPublicKeyBytes interprets keyStr ("0x" + 64 hex chars, a 32-byte
// Ed25519 public key) and returns its 33-byte Sui public key form: one
// scheme-flag byte followed by the raw key bytes.
func suiPublicKeyBytes(keyStr string) ([]byte, error) {
	hexPart := strings.TrimPrefix(keyStr, "0x")
	if len(hexPart) != 64 {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "ephemeral_public_key must be 0x + 64 hex chars")
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrInvalidJwtShape, "ephemeral_public_key is not valid hex", err)
	}

	out := make([]byte, 0, 33)
	out = append(out, suiEd25519Flag)
	out = append(out, raw...)
	return out, nil
}

// ephPublicKeyLimbs splits the 33-byte Sui public key, read as one
// big-endian integer K, into [K>>128, K mod 2^128].
func ephPublicKeyLimbs(keyStr string) ([2]string, error) {
	pubBytes, err := suiPublicKeyBytes(keyStr)
	if err != nil {
		return [2]string{}, err
	}

	k := new(big.Int).SetBytes(pubBytes)
	mod := new(big.Int).Lsh(big.NewInt(1), 128)

	hi := new(big.Int).Rsh(k, 128)
	lo := new(big.Int).Mod(k, mod)

	return [2]string{hi.String(), lo.String()}, nil
}
