// Package workerchannel is the server side of the worker channel runtime
// (C5): accepting websocket connections from remote workers, tracking
// liveness, and exposing the connected set as a proofstore.WorkerPool.
package workerchannel

import (
	"github.com/kzero-xyz/kzero-service/internal/proofstore"
	"github.com/kzero-xyz/kzero-service/internal/zkinput"
)

// dispatchFrame is the scheduler-to-worker wire shape of §4.5.
type dispatchFrame struct {
	Task    string          `json:"task"`
	ProofID string          `json:"proofId"`
	Payload dispatchPayload `json:"payload"`
}

type dispatchPayload struct {
	Inputs zkinput.CircuitInputs `json:"inputs"`
	Fields zkinput.SuiProofFields `json:"fields"`
}

// inboundFrame decodes both heartbeat frames and worker-to-scheduler
// replies; Results is nil for a plain ping/pong.
type inboundFrame struct {
	Type    string         `json:"type,omitempty"`
	Task    string         `json:"task,omitempty"`
	ProofID string         `json:"proofId,omitempty"`
	Results *resultPayload `json:"results,omitempty"`
}

type resultPayload struct {
	Proof  proofstore.GrothProof `json:"proof"`
	Public []string              `json:"public"`
}

type pingPongFrame struct {
	Type string `json:"type"`
}
