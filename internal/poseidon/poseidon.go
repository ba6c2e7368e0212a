// Package poseidon implements the variable-arity Poseidon hash over the
// BN254 scalar field used by the zkLogin circuit, plus the base-conversion
// bridge between byte vectors and field-element vectors. Bit-exactness
// with the circuit's own Poseidon parameterisation is the only
// requirement that matters here; convenience comes second.
package poseidon

import (
	"math/big"
	"strconv"

	iden3poseidon "github.com/iden3/go-iden3-crypto/poseidon"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// MaxDirectArity is the largest input width iden3's Poseidon permutation
// supports directly; beyond it we recurse (see Hash).
const MaxDirectArity = 16

// MaxArity is the hard ceiling past which the circuit itself never asks
// for a hash; anything wider is a programmer error, not a data error.
const MaxArity = 32

// Hash computes poseidon_hash(inputs) matching the poseidon-lite/circomlib
// BN254 parameterisation, recursing via binary split for arities in
// (16, 32] the way the reference implementation does.
func Hash(inputs []*big.Int) (*big.Int, error) {
	n := len(inputs)
	switch {
	case n == 0:
		return nil, reasoncodes.New(reasoncodes.ErrHashArityUnsupported, "empty input")
	case n > MaxArity:
		return nil, reasoncodes.New(reasoncodes.ErrHashArityUnsupported,
			"unable to hash length "+strconv.Itoa(n))
	case n <= MaxDirectArity:
		return iden3poseidon.Hash(inputs)
	default:
		mid := n / 2
		left, err := Hash(inputs[:mid])
		if err != nil {
			return nil, err
		}
		right, err := Hash(inputs[mid:])
		if err != nil {
			return nil, err
		}
		return iden3poseidon.Hash([]*big.Int{left, right})
	}
}

// HashUint64 is a small convenience wrapper for the common case of hashing
// small integer literals, used heavily by tests against the reference
// vectors in the specification.
func HashUint64(inputs ...uint64) (*big.Int, error) {
	bi := make([]*big.Int, len(inputs))
	for i, v := range inputs {
		bi[i] = new(big.Int).SetUint64(v)
	}
	return Hash(bi)
}
