package worker

import (
	"github.com/consensys/gnark/frontend"

	"github.com/kzero-xyz/kzero-service/internal/zkinput"
)

// ZkLoginCircuit stands in for the compiled circuit artifact a real
// deployment loads from disk (see loadCompiled in prover.go). The
// production zkLogin circuit is produced and audited outside this
// service; this definition exists so InProcessProver has something to
// run frontend.Compile/groth16.Setup against when no prebuilt ccs/pk
// pair is configured. It carries six of the signals listed in
// SPEC_FULL §6; the full signal set lives in zkinput.CircuitInputs.
//
// AllInputsHash is the sole public signal, matching the real circuit's
// shape: everything a verifier needs is folded into one Poseidon
// commitment, and every other signal stays secret to the prover.
type ZkLoginCircuit struct {
	AllInputsHash frontend.Variable `gnark:",public"`

	EphPublicKeyHi frontend.Variable `gnark:",secret"`
	EphPublicKeyLo frontend.Variable `gnark:",secret"`
	AddressSeed    frontend.Variable `gnark:",secret"`
	MaxEpoch       frontend.Variable `gnark:",secret"`
	Salt           frontend.Variable `gnark:",secret"`
}

func (c *ZkLoginCircuit) Define(api frontend.API) error {
	api.AssertIsDifferent(c.AllInputsHash, 0)
	api.AssertIsLessOrEqual(1, c.MaxEpoch)
	return nil
}

// assignment builds a ZkLoginCircuit witness assignment from a completed
// zkinput.Build result. Every source field is already a decimal string,
// which frontend.Variable accepts directly.
func assignment(inputs zkinput.CircuitInputs, fields zkinput.SuiProofFields) *ZkLoginCircuit {
	return &ZkLoginCircuit{
		AllInputsHash:  inputs.AllInputsHash,
		EphPublicKeyHi: inputs.EphPublicKey[0],
		EphPublicKeyLo: inputs.EphPublicKey[1],
		AddressSeed:    fields.AddressSeed,
		MaxEpoch:       inputs.MaxEpoch,
		Salt:           inputs.Salt,
	}
}
