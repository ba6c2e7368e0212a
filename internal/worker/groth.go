package worker

import (
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"

	"github.com/kzero-xyz/kzero-service/internal/proofstore"
)

// extractGrothProof converts gnark's curve-typed BN254 proof into the
// decimal-string {pi_a, pi_b, pi_c} triple SPEC_FULL §3 persists,
// matching the shape Sui's verifier expects on chain.
func extractGrothProof(proof groth16.Proof) (proofstore.GrothProof, error) {
	concrete, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return proofstore.GrothProof{}, fmt.Errorf("unexpected proof backend type %T", proof)
	}

	return proofstore.GrothProof{
		PiA: [3]string{
			concrete.Ar.X.String(),
			concrete.Ar.Y.String(),
			"1",
		},
		PiB: [3][2]string{
			{concrete.Bs.X.A0.String(), concrete.Bs.X.A1.String()},
			{concrete.Bs.Y.A0.String(), concrete.Bs.Y.A1.String()},
			{"1", "0"},
		},
		PiC: [3]string{
			concrete.Krs.X.String(),
			concrete.Krs.Y.String(),
			"1",
		},
	}, nil
}
