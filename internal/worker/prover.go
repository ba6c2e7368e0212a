package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/kzero-xyz/kzero-service/internal/proofstore"
	"github.com/kzero-xyz/kzero-service/internal/zkinput"
)

// Filenames the ccs/pk/vk triple is written under, shared between the
// kzero compile CLI (cmd/kzero/compile.go) that produces them ahead of
// time and the in-process prover that loads them from ZKEY_PATH.
const (
	ccsFileName = "zklogin.ccs"
	pkFileName  = "zklogin.pk"
	vkFileName  = "zklogin.vk"
)

// Prover turns a built set of circuit inputs into a Groth16 proof plus
// its public signals, and is responsible for persisting the three
// artifacts SPEC_FULL §6 names under workDir: witness.wtns, proof.json,
// public.json.
type Prover interface {
	Prove(ctx context.Context, workDir string, inputs zkinput.CircuitInputs, fields zkinput.SuiProofFields) (proofstore.GrothProof, []string, error)
}

// InProcessProver runs groth16.Prove in the worker's own process,
// grounded on blockchain-client/src/zkp. Setup runs once, lazily,
// behind a mutex: if zkeyDir (ZKEY_PATH) holds a ccs/pk/vk triple
// produced ahead of time by the kzero compile CLI, it is loaded from
// disk; otherwise setup falls back to compiling and running
// groth16.Setup in-process. Either way the result is cached and reused
// across tasks instead of being rebuilt per proof.
type InProcessProver struct {
	mu      sync.Mutex
	zkeyDir string
	ccs     constraint.ConstraintSystem
	pk      groth16.ProvingKey
	vk      groth16.VerifyingKey
}

// NewInProcessProver builds a prover that loads its compiled circuit
// from zkeyDir when non-empty, falling back to compile-on-demand if
// the directory is empty or its artifacts are missing.
func NewInProcessProver(zkeyDir string) *InProcessProver {
	return &InProcessProver{zkeyDir: zkeyDir}
}

func (p *InProcessProver) setup() (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pk != nil {
		return p.ccs, p.pk, p.vk, nil
	}

	if p.zkeyDir != "" {
		if ccs, pk, vk, err := loadCompiled(p.zkeyDir); err == nil {
			p.ccs, p.pk, p.vk = ccs, pk, vk
			return ccs, pk, vk, nil
		}
	}

	var circuit ZkLoginCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("groth16 setup: %w", err)
	}

	p.ccs, p.pk, p.vk = ccs, pk, vk
	return ccs, pk, vk, nil
}

// SaveCompiled persists a compiled circuit's ccs/pk/vk triple under
// dir in the layout ZKEY_PATH is expected to hold, used by the kzero
// compile CLI.
func SaveCompiled(dir string, ccs constraint.ConstraintSystem, pk groth16.ProvingKey, vk groth16.VerifyingKey) error {
	if err := writeBinary(filepath.Join(dir, ccsFileName), ccs); err != nil {
		return err
	}
	if err := writeBinary(filepath.Join(dir, pkFileName), pk); err != nil {
		return err
	}
	return writeBinary(filepath.Join(dir, vkFileName), vk)
}

func loadCompiled(dir string) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	ccs := groth16.NewCS(ecc.BN254)
	if err := readBinary(filepath.Join(dir, ccsFileName), ccs); err != nil {
		return nil, nil, nil, fmt.Errorf("read %s: %w", ccsFileName, err)
	}

	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readBinary(filepath.Join(dir, pkFileName), pk); err != nil {
		return nil, nil, nil, fmt.Errorf("read %s: %w", pkFileName, err)
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readBinary(filepath.Join(dir, vkFileName), vk); err != nil {
		return nil, nil, nil, fmt.Errorf("read %s: %w", vkFileName, err)
	}

	return ccs, pk, vk, nil
}

func writeBinary(path string, v io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	_, err = v.WriteTo(f)
	return err
}

func readBinary(path string, v io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = v.ReadFrom(f)
	return err
}

func (p *InProcessProver) Prove(ctx context.Context, workDir string, inputs zkinput.CircuitInputs, fields zkinput.SuiProofFields) (proofstore.GrothProof, []string, error) {
	ccs, pk, _, err := p.setup()
	if err != nil {
		return proofstore.GrothProof{}, nil, err
	}

	assign := assignment(inputs, fields)
	fullWitness, err := frontend.NewWitness(assign, ecc.BN254.ScalarField())
	if err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("build witness: %w", err)
	}

	if err := writeWitnessArtifact(workDir, fullWitness); err != nil {
		return proofstore.GrothProof{}, nil, err
	}

	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("groth16 prove: %w", err)
	}

	grothProof, err := extractGrothProof(proof)
	if err != nil {
		return proofstore.GrothProof{}, nil, err
	}
	public := []string{inputs.AllInputsHash}

	if err := writeProofArtifacts(workDir, grothProof, public); err != nil {
		return proofstore.GrothProof{}, nil, err
	}

	return grothProof, public, nil
}

// SubprocessProver shells out to an externally built witness generator
// and prover binary, matching PROOF_MODE=binary: it writes input.json,
// runs `witness_bin input.json witness.wtns`, then
// `prover_bin witness.wtns proof.json public.json`, and reads back
// proof.json and public.json. No proving-key (zkey) path is passed to
// the prover binary.
type SubprocessProver struct {
	WitnessBin string
	ProverBin  string
}

func NewSubprocessProver(witnessBin, proverBin string) *SubprocessProver {
	return &SubprocessProver{WitnessBin: witnessBin, ProverBin: proverBin}
}

func (p *SubprocessProver) Prove(ctx context.Context, workDir string, inputs zkinput.CircuitInputs, fields zkinput.SuiProofFields) (proofstore.GrothProof, []string, error) {
	inputPath := filepath.Join(workDir, "input.json")
	witnessPath := filepath.Join(workDir, "witness.wtns")
	proofPath := filepath.Join(workDir, "proof.json")
	publicPath := filepath.Join(workDir, "public.json")

	payload, err := json.Marshal(struct {
		Inputs zkinput.CircuitInputs  `json:"inputs"`
		Fields zkinput.SuiProofFields `json:"fields"`
	}{inputs, fields})
	if err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("marshal circuit inputs: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("create work dir: %w", err)
	}
	if err := os.WriteFile(inputPath, payload, 0o600); err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("write input.json: %w", err)
	}

	if err := runBinary(ctx, p.WitnessBin, inputPath, witnessPath); err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("witness generation: %w", err)
	}
	if err := runBinary(ctx, p.ProverBin, witnessPath, proofPath, publicPath); err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("proof generation: %w", err)
	}

	var proof proofstore.GrothProof
	proofRaw, err := os.ReadFile(proofPath)
	if err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("read proof.json: %w", err)
	}
	if err := json.Unmarshal(proofRaw, &proof); err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("decode proof.json: %w", err)
	}

	var public []string
	publicRaw, err := os.ReadFile(publicPath)
	if err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("read public.json: %w", err)
	}
	if err := json.Unmarshal(publicRaw, &public); err != nil {
		return proofstore.GrothProof{}, nil, fmt.Errorf("decode public.json: %w", err)
	}

	return proof, public, nil
}

func runBinary(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, stderr.String())
	}
	return nil
}

func writeWitnessArtifact(workDir string, w witness.Witness) error {
	raw, err := w.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal witness: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	return os.WriteFile(filepath.Join(workDir, "witness.wtns"), raw, 0o600)
}

func writeProofArtifacts(workDir string, proof proofstore.GrothProof, public []string) error {
	proofRaw, err := json.Marshal(proof)
	if err != nil {
		return fmt.Errorf("marshal proof: %w", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, "proof.json"), proofRaw, 0o600); err != nil {
		return fmt.Errorf("write proof.json: %w", err)
	}

	publicRaw, err := json.Marshal(public)
	if err != nil {
		return fmt.Errorf("marshal public signals: %w", err)
	}
	return os.WriteFile(filepath.Join(workDir, "public.json"), publicRaw, 0o600)
}
