package zkinput

import "github.com/kzero-xyz/kzero-service/pkg/reasoncodes"

// shaPadResult mirrors the "SHA-256-padded unsigned JWT" step of §4.3: the
// standard SHA-256 message-padding rule applied to header_b64+"."+payload_b64,
// then right-padded with zero bytes out to the circuit's fixed buffer size.
type shaPadResult struct {
	Padded            []byte // exactly ShaPaddedJWTLen bytes
	NumSha2Blocks     int
	PayloadLen        int
	PayloadStartIndex int
}

// padUnsignedJWT implements the standard Merkle-Damgard padding: append a
// single 1 bit, zero-pad until the bit length is 448 mod 512, then append
// the original bit length as a 64-bit big-endian integer.
func padUnsignedJWT(headerB64, payloadB64 string) (*shaPadResult, error) {
	unsigned := headerB64 + "." + payloadB64
	msg := []byte(unsigned)

	bitLen := uint64(len(msg)) * 8

	padded := append([]byte{}, msg...)
	padded = append(padded, 0x80)
	for len(padded)%64 != 56 {
		padded = append(padded, 0x00)
	}
	var lenBytes [8]byte
	for i := 0; i < 8; i++ {
		lenBytes[7-i] = byte(bitLen >> (8 * i))
	}
	padded = append(padded, lenBytes[:]...)

	if len(padded) > ShaPaddedJWTLen {
		return nil, reasoncodes.New(reasoncodes.ErrInvalidJwtShape, "jwt exceeds fixed padded buffer size")
	}

	numBlocks := len(padded) / 64

	out := make([]byte, ShaPaddedJWTLen)
	copy(out, padded)

	return &shaPadResult{
		Padded:            out,
		NumSha2Blocks:     numBlocks,
		PayloadLen:        len(payloadB64),
		PayloadStartIndex: len(headerB64) + 1,
	}, nil
}
