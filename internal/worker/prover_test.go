package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzero-xyz/kzero-service/internal/zkinput"
)

func testInputs() (zkinput.CircuitInputs, zkinput.SuiProofFields) {
	inputs := zkinput.CircuitInputs{
		AllInputsHash: "12345",
		Salt:          "67",
		MaxEpoch:      "10",
		EphPublicKey:  [2]string{"111", "222"},
	}
	fields := zkinput.SuiProofFields{AddressSeed: "999"}
	return inputs, fields
}

func TestInProcessProverProducesArtifactsAndProof(t *testing.T) {
	workDir := t.TempDir()
	inputs, fields := testInputs()

	prover := NewInProcessProver("")
	proof, public, err := prover.Prove(context.Background(), workDir, inputs, fields)
	require.NoError(t, err)

	assert.Equal(t, []string{inputs.AllInputsHash}, public)
	assert.NotEmpty(t, proof.PiA[0])
	assert.NotEmpty(t, proof.PiB[0][0])
	assert.NotEmpty(t, proof.PiC[0])

	for _, name := range []string{"witness.wtns", "proof.json", "public.json"} {
		_, err := os.Stat(filepath.Join(workDir, name))
		assert.NoError(t, err, "expected %s to be written", name)
	}
}

func TestInProcessProverReusesCompiledCircuitAcrossCalls(t *testing.T) {
	prover := NewInProcessProver("")
	inputs, fields := testInputs()

	_, _, err := prover.Prove(context.Background(), t.TempDir(), inputs, fields)
	require.NoError(t, err)
	firstPK := prover.pk

	_, _, err = prover.Prove(context.Background(), t.TempDir(), inputs, fields)
	require.NoError(t, err)

	assert.Same(t, firstPK, prover.pk)
}

// When zkeyDir holds a ccs/pk/vk triple saved by the kzero compile CLI,
// setup loads it from disk instead of compiling and running
// groth16.Setup again.
func TestInProcessProverLoadsPrecompiledArtifacts(t *testing.T) {
	zkeyDir := t.TempDir()

	var circuit ZkLoginCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	require.NoError(t, err)
	pk, vk, err := groth16.Setup(ccs)
	require.NoError(t, err)
	require.NoError(t, SaveCompiled(zkeyDir, ccs, pk, vk))

	prover := NewInProcessProver(zkeyDir)
	inputs, fields := testInputs()

	proof, public, err := prover.Prove(context.Background(), t.TempDir(), inputs, fields)
	require.NoError(t, err)
	assert.Equal(t, []string{inputs.AllInputsHash}, public)
	assert.NotEmpty(t, proof.PiA[0])

	_, loadedPK, loadedVK, err := prover.setup()
	require.NoError(t, err)
	assert.NotSame(t, pk, loadedPK)
	assert.NotNil(t, loadedVK)
}

// An empty zkeyDir is compile-on-demand, not an error.
func TestInProcessProverFallsBackWhenZkeyDirHasNoArtifacts(t *testing.T) {
	prover := NewInProcessProver(t.TempDir())
	inputs, fields := testInputs()

	_, _, err := prover.Prove(context.Background(), t.TempDir(), inputs, fields)
	require.NoError(t, err)
	assert.NotNil(t, prover.pk)
}
