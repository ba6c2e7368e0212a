package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kzero-xyz/kzero-service/pkg/logger"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// backoffBase and backoffMaxExponent implement §4.5's reconnect policy:
// delay_n = base * 2^n, reset to 0 on a successful dial. The exponent is
// capped so a long-downed server doesn't overflow the shift.
const (
	backoffBase        = 5 * time.Second
	backoffMaxExponent = 8 // caps the delay at base*256 = 1280s

	defaultPingInterval = 30 * time.Second
)

// PongTimeout is the worker's own liveness timer of §4.5: once a ping is
// sent, the server must reply with a pong within PongTimeout or the
// connection is closed and Run redials. Declared as a var, not a const,
// so tests can shrink it instead of sleeping for the real 5s default.
var PongTimeout = 5 * time.Second

func backoffDelay(attempt int) time.Duration {
	if attempt > backoffMaxExponent {
		attempt = backoffMaxExponent
	}
	return backoffBase * time.Duration(uint64(1)<<uint(attempt))
}

// Client is the worker-side websocket connection to a proof server. It
// reconnects with exponential backoff and runs its ping heartbeat on a
// goroutine independent from task execution, so a long-running proof
// never starves the liveness signal the server is watching for.
type Client struct {
	url          string
	prover       Prover
	cacheDir     string
	pingInterval time.Duration
	log          *logger.Logger
}

func NewClient(url string, prover Prover, cacheDir string) *Client {
	return &Client{
		url:          url,
		prover:       prover,
		cacheDir:     cacheDir,
		pingInterval: defaultPingInterval,
		log:          logger.Default(),
	}
}

// Run dials url and serves tasks until ctx is cancelled, reconnecting
// with backoff across any dial or read failure.
func (c *Client) Run(ctx context.Context) {
	attempt := 0
	for ctx.Err() == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.log.Error(err, reasoncodes.ErrChannelUnhealthy, "worker dial failed, backing off")
			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				return
			}
			attempt++
			continue
		}

		attempt = 0
		c.serve(ctx, conn)

		select {
		case <-time.After(backoffDelay(attempt)):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	var writeMu sync.Mutex
	writeJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	armPongDeadline, disarmPongDeadline := newPongWatchdog(func() { conn.Close() })
	defer disarmPongDeadline()

	go c.heartbeat(connCtx, writeJSON, armPongDeadline)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var pp pingPongFrame
		if err := json.Unmarshal(raw, &pp); err == nil && pp.Type != "" {
			if pp.Type == "pong" {
				disarmPongDeadline()
			}
			continue
		}

		var frame dispatchFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Error(err, reasoncodes.ErrUnmarshal, "dispatch frame decode failed")
			continue
		}

		if frame.Task != "generateProof" {
			continue
		}

		go c.handleTask(connCtx, writeJSON, frame)
	}
}

// newPongWatchdog tracks the worker's own liveness timer of §4.5: each
// call to arm restarts a PongTimeout deadline that invokes onExpire
// (closing the connection) unless disarm is called first, which a pong
// frame does. Split out from serve so the timer logic is testable
// without a real websocket connection.
func newPongWatchdog(onExpire func()) (arm func(), disarm func()) {
	var mu sync.Mutex
	var timer *time.Timer

	arm = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(PongTimeout, onExpire)
	}
	disarm = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return arm, disarm
}

// heartbeat sends a ping every pingInterval and, via onSent, arms the
// PongTimeout deadline that closes the connection if the server never
// replies — mirroring the ConnectionTimeout liveness timer the server
// runs against pings it receives in workerchannel's readPump.
func (c *Client) heartbeat(ctx context.Context, writeJSON func(any) error, onSent func()) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := writeJSON(pingPongFrame{Type: "ping"}); err != nil {
				return
			}
			onSent()
		case <-ctx.Done():
			return
		}
	}
}

// handleTask runs the configured Prover for one dispatched job. Proof
// failures are logged and dropped rather than replied to: the scheduler
// owns the timeout that will notice a job never came back.
func (c *Client) handleTask(ctx context.Context, writeJSON func(any) error, frame dispatchFrame) {
	workDir := filepath.Join(c.cacheDir, frame.Payload.Fields.AddressSeed)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		c.log.Error(err, reasoncodes.ErrWorkerExecutionFailed, "failed to create proof work dir")
		return
	}
	if err := writeInputsArtifact(workDir, frame.Payload); err != nil {
		c.log.Error(err, reasoncodes.ErrWorkerExecutionFailed, "failed to persist input.json")
		return
	}

	proof, public, err := c.prover.Prove(ctx, workDir, frame.Payload.Inputs, frame.Payload.Fields)
	if err != nil {
		c.log.Error(err, reasoncodes.ErrWorkerExecutionFailed, "proof generation failed")
		return
	}

	_ = writeJSON(resultFrame{
		Task:    "generateProof",
		ProofID: frame.ProofID,
		Results: resultPayload{Proof: proof, Public: public},
	})
}

func writeInputsArtifact(workDir string, payload dispatchPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(workDir, "input.json"), raw, 0o600)
}
