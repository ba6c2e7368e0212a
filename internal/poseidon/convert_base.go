package poseidon

import "math/big"

// ConvertBase treats inLE as a little-endian base-2^inBits number and
// re-emits it as little-endian base-2^outBits digits. It is implemented
// once, via an intermediate bitstring, and used in both directions the
// builder needs: byte vectors (inBits=8) into field packs (outBits=248),
// and 64-bit RSA limbs (inBits=64) into the same field packs. Neither
// direction gets its own special case.
func ConvertBase(inLE []*big.Int, inBits, outBits uint) []*big.Int {
	bits := toBits(inLE, inBits)

	outLen := (len(inLE)*int(inBits) + int(outBits) - 1) / int(outBits)
	out := make([]*big.Int, outLen)

	for i := 0; i < outLen; i++ {
		start := i * int(outBits)
		end := start + int(outBits)
		if end > len(bits) {
			end = len(bits)
		}
		out[i] = fromBits(bits[start:end])
	}

	return out
}

// toBits unpacks a little-endian base-2^inBits digit sequence into its
// constituent bits, least significant bit first, one digit at a time.
func toBits(digits []*big.Int, inBits uint) []byte {
	bits := make([]byte, 0, len(digits)*int(inBits))
	for _, d := range digits {
		v := new(big.Int).Set(d)
		for b := uint(0); b < inBits; b++ {
			bits = append(bits, byte(v.Bit(int(b))))
		}
	}
	return bits
}

// fromBits packs a little-endian bit slice (possibly shorter than a full
// digit, in which case it is implicitly zero-padded) back into an integer.
func fromBits(bits []byte) *big.Int {
	out := new(big.Int)
	for i := len(bits) - 1; i >= 0; i-- {
		out.Lsh(out, 1)
		if bits[i] != 0 {
			out.Or(out, big.NewInt(1))
		}
	}
	return out
}
