package poseidon

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimal(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad decimal literal: " + s)
	}
	return v
}

func TestHashReferenceVectors(t *testing.T) {
	tests := []struct {
		name   string
		inputs []uint64
		want   string
	}{
		{
			name:   "arity 1",
			inputs: []uint64{1},
			want:   "18586133768512220936620570745912940619677854269274689475585506675881198879027",
		},
		{
			name:   "arity 5",
			inputs: []uint64{1, 2, 3, 4, 5},
			want:   "6183221330272524995739186171720101788151706631170188140075976616310159254464",
		},
		{
			name:   "arity 16 (direct)",
			inputs: repeat(1, 16),
			want:   "16247148725799187968432601021479716680539182929063252906051522933915398361998",
		},
		{
			name:   "arity 20 (recursive split)",
			inputs: repeat(1, 20),
			want:   "15072132727802611689075884217146098229636289111460632484678401923831907179353",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HashUint64(tc.inputs...)
			require.NoError(t, err)
			assert.Equal(t, decimal(tc.want), got)
		})
	}
}

func TestHashBoundaries(t *testing.T) {
	_, err := Hash(nil)
	assert.Error(t, err)

	_, err = HashUint64(repeat(1, 33)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to hash length 33")
}

func repeat(v uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
