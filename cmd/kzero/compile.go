package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/spf13/cobra"

	"github.com/kzero-xyz/kzero-service/internal/worker"
)

type compileFlags struct {
	outputDir string
	force     bool
}

// newCompileCmd compiles the worker's placeholder zkLogin circuit ahead
// of time, the same way zkpi compile produces a ccs/pk/vk triple for an
// in-process prover to load instead of repeating setup on every proof.
func newCompileCmd() *cobra.Command {
	f := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the zkLogin circuit and write its ccs/pk/vk to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuitCompile(f)
		},
	}

	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "./setup", "Output directory for the compiled circuit")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runCircuitCompile(f *compileFlags) error {
	if err := os.MkdirAll(f.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ccsPath := filepath.Join(f.outputDir, "zklogin.ccs")
	pkPath := filepath.Join(f.outputDir, "zklogin.pk")
	vkPath := filepath.Join(f.outputDir, "zklogin.vk")

	if !f.force {
		for _, p := range []string{ccsPath, pkPath, vkPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists, use --force to overwrite", p)
			}
		}
	}

	var circuit worker.ZkLoginCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return fmt.Errorf("compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("groth16 setup: %w", err)
	}

	if err := worker.SaveCompiled(f.outputDir, ccs, pk, vk); err != nil {
		return fmt.Errorf("write compiled circuit: %w", err)
	}

	fmt.Printf("compiled zkLogin circuit to %s\n", f.outputDir)
	return nil
}
