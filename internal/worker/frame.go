// Package worker is the worker side of the channel runtime (C5): a
// reconnecting websocket client that receives generateProof tasks and
// invokes the witness+prover, in-process or as a subprocess.
package worker

import (
	"github.com/kzero-xyz/kzero-service/internal/proofstore"
	"github.com/kzero-xyz/kzero-service/internal/zkinput"
)

type dispatchFrame struct {
	Task    string          `json:"task"`
	ProofID string          `json:"proofId"`
	Payload dispatchPayload `json:"payload"`
}

type dispatchPayload struct {
	Inputs zkinput.CircuitInputs  `json:"inputs"`
	Fields zkinput.SuiProofFields `json:"fields"`
}

type resultFrame struct {
	Task    string        `json:"task"`
	ProofID string        `json:"proofId"`
	Results resultPayload `json:"results"`
}

type resultPayload struct {
	Proof  proofstore.GrothProof `json:"proof"`
	Public []string              `json:"public"`
}

type pingPongFrame struct {
	Type string `json:"type"`
}
