package proofstore

import (
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kzero-xyz/kzero-service/internal/zkinput"
	"github.com/kzero-xyz/kzero-service/pkg/logger"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// IngestMessage is the wire shape of an inbound job-creation request:
// either a pre-built zk_input result or the raw material the builder
// needs to produce one.
type IngestMessage struct {
	Nonce              string               `json:"nonce"`
	JWT                string               `json:"jwt"`
	Salt               string               `json:"salt,omitempty"`
	EphemeralPublicKey string               `json:"ephemeral_public_key,omitempty"`
	MaxEpoch           string               `json:"max_epoch,omitempty"`
	Randomness         string               `json:"randomness,omitempty"`
	JWKSEntries        []zkinput.JWKSEntry  `json:"jwks_entries,omitempty"`
	ZKInput            *zkinput.BuildResult `json:"zk_input,omitempty"`
}

// IngestConsumer is the transport by which a job-creation request
// reaches Store.Insert: a durable queue consumer that builds the ZK
// input (C3) when the message doesn't already carry one.
type IngestConsumer struct {
	store Store
	log   *logger.Logger
}

func NewIngestConsumer(store Store) *IngestConsumer {
	return &IngestConsumer{store: store, log: logger.Default()}
}

// StartConsuming mirrors pkg-common/rabbitmq's RabbitmqConsumer.StartConsuming
// shape: auto-ack consumption of a named queue, one handler per delivery.
func (c *IngestConsumer) StartConsuming(channel *amqp.Channel, queueName, consumerTag string) error {
	deliveries, err := channel.Consume(queueName, consumerTag, true, false, false, false, nil)
	if err != nil {
		return reasoncodes.Wrap(reasoncodes.ErrWorkerDispatchFailed, "register ingest consumer failed", err)
	}

	go func() {
		for d := range deliveries {
			c.handle(d)
		}
	}()
	return nil
}

func (c *IngestConsumer) handle(d amqp.Delivery) {
	var msg IngestMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.log.Error(err, reasoncodes.ErrUnmarshal, "decode ingest message failed")
		return
	}

	result := msg.ZKInput
	if result == nil {
		built, err := zkinput.Build(zkinput.BuildParams{
			JWT:                msg.JWT,
			Salt:               msg.Salt,
			EphemeralPublicKey: msg.EphemeralPublicKey,
			MaxEpoch:           msg.MaxEpoch,
			Randomness:         msg.Randomness,
			JWKSEntries:        msg.JWKSEntries,
		})
		if err != nil {
			c.log.Error(err, reasoncodes.ErrInvalidJwtShape, "zk input build failed for ingested job")
			return
		}
		result = built
	}

	job, err := NewJob(uuid.NewString(), msg.Nonce, msg.JWT, result)
	if err != nil {
		c.log.Error(err, reasoncodes.ErrUnmarshal, "build proof job failed")
		return
	}

	if err := c.store.Insert(job); err != nil {
		c.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "insert proof job failed")
	}
}
