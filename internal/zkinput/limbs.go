package zkinput

import "math/big"

// getLimbs decomposes a big-endian unsigned integer into little-endian
// limbs of limbBits width, zero-padding the final limb.
func getLimbs(n *big.Int, limbBits uint) []*big.Int {
	if n.Sign() == 0 {
		return []*big.Int{big.NewInt(0)}
	}

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), limbBits), big.NewInt(1))
	v := new(big.Int).Set(n)

	var limbs []*big.Int
	for v.Sign() > 0 {
		limb := new(big.Int).And(v, mask)
		limbs = append(limbs, limb)
		v.Rsh(v, limbBits)
	}
	return limbs
}

// padLimbs zero-extends limbs to exactly n entries; the circuit expects a
// fixed-width array regardless of the modulus's actual bit length (2048
// bits in practice, i.e. 32 64-bit limbs).
func padLimbs(limbs []*big.Int, n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		if i < len(limbs) {
			out[i] = limbs[i]
		} else {
			out[i] = big.NewInt(0)
		}
	}
	return out
}

func decimalStrings(nums []*big.Int) []string {
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = n.String()
	}
	return out
}
