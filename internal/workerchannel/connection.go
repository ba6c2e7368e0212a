package workerchannel

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kzero-xyz/kzero-service/internal/proofstore"
	"github.com/kzero-xyz/kzero-service/pkg/logger"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// Heartbeat timing knobs of §4.5. The server arms ConnectionTimeout on
// connect and resets it on every ping it observes; the timer firing
// without evidence of liveness force-closes the connection. Declared as
// vars, not consts, so tests can shrink them instead of sleeping for
// the real 35s default.
var (
	PongTimeout       = 5 * time.Second
	ConnectionTimeout = 35 * time.Second
)

// ResultHandler is invoked when a worker replies to a dispatched task,
// normally Scheduler.OnResult.
type ResultHandler func(proofID string, proof proofstore.GrothProof, public []string)

// Connection is one accepted worker socket. It implements
// proofstore.WorkerHandle directly so the pool can hand it straight to
// the scheduler.
type Connection struct {
	id   string
	conn *websocket.Conn
	log  *logger.Logger

	writeMu sync.Mutex

	mu   sync.Mutex
	idle bool

	liveness *time.Timer
	onResult ResultHandler
}

func newConnection(id string, conn *websocket.Conn, onResult ResultHandler) *Connection {
	return &Connection{
		id:       id,
		conn:     conn,
		log:      logger.Default(),
		idle:     true,
		onResult: onResult,
	}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) IsIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idle
}

func (c *Connection) setBusy() {
	c.mu.Lock()
	c.idle = false
	c.mu.Unlock()
}

func (c *Connection) setIdle() {
	c.mu.Lock()
	c.idle = true
	c.mu.Unlock()
}

// Send implements proofstore.WorkerHandle: dispatch a generateProof task.
func (c *Connection) Send(task proofstore.WorkerTask) error {
	c.setBusy()
	return c.writeJSON(dispatchFrame{
		Task:    "generateProof",
		ProofID: task.ProofID,
		Payload: dispatchPayload{Inputs: task.Inputs, Fields: task.Fields},
	})
}

func (c *Connection) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Connection) resetLiveness(onExpire func()) {
	if c.liveness != nil {
		c.liveness.Stop()
	}
	c.liveness = time.AfterFunc(ConnectionTimeout, onExpire)
}

// readPump owns the connection until it closes, forwarding heartbeats
// and worker replies. It always runs on its own goroutine so a slow
// worker never stalls the pool or the scheduler tick.
func (c *Connection) readPump(pool *Pool) {
	defer func() {
		pool.unregister(c.id)
		if c.liveness != nil {
			c.liveness.Stop()
		}
		c.conn.Close()
	}()

	c.resetLiveness(func() { c.conn.Close() })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Error(err, reasoncodes.ErrUnmarshal, "worker frame decode failed")
			continue
		}

		switch {
		case frame.Type == "ping":
			c.resetLiveness(func() { c.conn.Close() })
			_ = c.writeJSON(pingPongFrame{Type: "pong"})
		case frame.Type == "pong":
			c.resetLiveness(func() { c.conn.Close() })
		case frame.Task == "generateProof" && frame.Results != nil:
			c.setIdle()
			if c.onResult != nil {
				c.onResult(frame.ProofID, frame.Results.Proof, frame.Results.Public)
			}
		default:
			c.log.Warnf("unknown worker frame (type=%q task=%q), discarding", frame.Type, frame.Task)
		}
	}
}
