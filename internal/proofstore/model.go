// Package proofstore implements the durable proof-job queue and its
// scheduler: the store contract of §4.4 backed by gorm, a periodic
// dispatch loop, a crash-recovery reaper, and the inbound/outbound
// RabbitMQ plumbing around it.
package proofstore

import (
	"time"

	"github.com/kzero-xyz/kzero-service/internal/zkinput"
)

// Status is the ProofJob state machine: waiting -> generating -> {generated, failed}.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusGenerating Status = "generating"
	StatusGenerated  Status = "generated"
	StatusFailed     Status = "failed"
)

// ProofJob is the gorm-mapped row backing the store contract. Inputs,
// fields, proof, and public are opaque to the store; only C3/C4 callers
// interpret them, so they are stored as JSON text columns.
type ProofJob struct {
	ID        string `gorm:"primaryKey"`
	Nonce     string `gorm:"uniqueIndex"`
	JWT       string
	InputsRaw string `gorm:"type:text"`
	FieldsRaw string `gorm:"type:text"`
	ProofRaw  string `gorm:"type:text"`
	PublicRaw string `gorm:"type:text"`
	Status    Status `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GrothProof mirrors the fixed Groth16 proof shape the worker returns.
type GrothProof struct {
	PiA [3]string    `json:"pi_a"`
	PiB [3][2]string `json:"pi_b"`
	PiC [3]string    `json:"pi_c"`
}

// JobEvent is the terminal-state notification fact published on every
// transition to generated or failed.
type JobEvent struct {
	JobID      string    `json:"job_id"`
	Nonce      string    `json:"nonce"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Serialize implements pkg/dto.Serializable so JobEvent can be handed
// straight to a rabbitmq publisher.
func (e JobEvent) Serialize() ([]byte, error) {
	return serializeJSON(e)
}

// NewJob builds a waiting ProofJob from a ZK input builder result, ready
// for Store.Insert.
func NewJob(id, nonce, jwt string, result *zkinput.BuildResult) (*ProofJob, error) {
	inputsRaw, err := serializeJSON(result.Inputs)
	if err != nil {
		return nil, err
	}
	fieldsRaw, err := serializeJSON(result.Fields)
	if err != nil {
		return nil, err
	}

	return &ProofJob{
		ID:        id,
		Nonce:     nonce,
		JWT:       jwt,
		InputsRaw: string(inputsRaw),
		FieldsRaw: string(fieldsRaw),
		Status:    StatusWaiting,
	}, nil
}
