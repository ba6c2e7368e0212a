package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kzero-xyz/kzero-service/internal/worker"
	"github.com/kzero-xyz/kzero-service/pkg/config"
)

type workerFlags struct {
	serverURL  string
	cacheDir   string
	proofMode  string
	zkeyPath   string
	witnessBin string
	proverBin  string
}

func newWorkerCmd() *cobra.Command {
	f := &workerFlags{}

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Connect to a proof server and generate proofs for dispatched jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(f)
		},
	}

	cmd.Flags().StringVar(&f.serverURL, "server-url", config.GetenvDefault("WORKER_SERVER_URL", "ws://localhost:9100/workers/connect"), "Proof server websocket URL")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", config.GetenvDefault("PROOF_CACHE_DIR", "./proof-cache"), "Directory for per-job proof artifacts")
	cmd.Flags().StringVar(&f.proofMode, "proof-mode", config.GetenvDefault("PROOF_MODE", "in-process"), "Prover execution mode: in-process or binary")
	cmd.Flags().StringVar(&f.zkeyPath, "zkey-path", config.GetenvDefault("ZKEY_PATH", ""), "Directory holding a pre-compiled ccs/pk/vk triple (proof-mode=in-process); falls back to compiling on demand if empty")
	cmd.Flags().StringVar(&f.witnessBin, "witness-bin", config.GetenvDefault("WITNESS_BIN_PATH", ""), "Witness generator binary path (proof-mode=binary)")
	cmd.Flags().StringVar(&f.proverBin, "prover-bin", config.GetenvDefault("PROVER_BIN_PATH", ""), "Prover binary path (proof-mode=binary)")

	return cmd
}

func runWorker(f *workerFlags) error {
	var prover worker.Prover
	switch f.proofMode {
	case "binary":
		prover = worker.NewSubprocessProver(f.witnessBin, f.proverBin)
	default:
		prover = worker.NewInProcessProver(f.zkeyPath)
	}

	client := worker.NewClient(f.serverURL, prover, f.cacheDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client.Run(ctx)
	return nil
}
