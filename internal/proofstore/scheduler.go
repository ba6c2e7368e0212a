package proofstore

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kzero-xyz/kzero-service/internal/zkinput"
	"github.com/kzero-xyz/kzero-service/pkg/logger"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// WorkerTask is the dispatch payload sent to a worker over C5.
type WorkerTask struct {
	ProofID string                `json:"proofId"`
	Inputs  zkinput.CircuitInputs `json:"inputs"`
	Fields  zkinput.SuiProofFields `json:"fields"`
}

// WorkerHandle is the subset of a connected worker's channel the
// scheduler needs; the concrete implementation lives in workerchannel.
type WorkerHandle interface {
	ID() string
	Send(task WorkerTask) error
}

// WorkerPool selects an idle, live worker. First worker whose liveness
// flag is true and whose channel is open; implementations may substitute
// least-recently-used without changing correctness.
type WorkerPool interface {
	AcquireIdle() (WorkerHandle, bool)
}

// NotifyPublisher is the outbound JobEvent notification surface.
type NotifyPublisher interface {
	Publish(event JobEvent) error
}

// Scheduler drives the FIFO dispatch loop of §4.4: one tick acquires at
// most one job, claims a worker, and arms a timeout. now/afterFunc are
// injected so tests don't sleep for real wall-clock seconds.
type Scheduler struct {
	store    Store
	pool     WorkerPool
	notifier NotifyPublisher
	log      *logger.Logger

	tickInterval time.Duration
	proofTimeout time.Duration

	now       func() time.Time
	afterFunc func(time.Duration, func()) func() // returns a stop function

	mu         sync.Mutex
	processing map[string]struct{}
	timers     map[string]func()
}

// SchedulerConfig carries the two timing knobs §9 asked to be named and
// independently configurable rather than silently collapsed into one.
type SchedulerConfig struct {
	TickInterval time.Duration // default 1s
	ProofTimeout time.Duration // default 600s
}

func NewScheduler(store Store, pool WorkerPool, notifier NotifyPublisher, cfg SchedulerConfig) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.ProofTimeout <= 0 {
		cfg.ProofTimeout = 600 * time.Second
	}

	return &Scheduler{
		store:        store,
		pool:         pool,
		notifier:     notifier,
		log:          logger.Default(),
		tickInterval: cfg.TickInterval,
		proofTimeout: cfg.ProofTimeout,
		now:          time.Now,
		afterFunc: func(d time.Duration, f func()) func() {
			t := time.AfterFunc(d, f)
			return func() { t.Stop() }
		},
		processing: make(map[string]struct{}),
		timers:     make(map[string]func()),
	}
}

// Run ticks on tickInterval until stop is closed.
func (s *Scheduler) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick implements the seven steps of §4.4's scheduler loop body.
func (s *Scheduler) Tick() {
	job, err := s.store.FindOldestWaiting()
	if err != nil {
		s.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "find_oldest failed")
		return
	}
	if job == nil {
		return
	}

	s.mu.Lock()
	if _, inFlight := s.processing[job.ID]; inFlight {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	worker, ok := s.pool.AcquireIdle()
	if !ok {
		return
	}

	s.mu.Lock()
	s.processing[job.ID] = struct{}{}
	s.mu.Unlock()

	if err := s.store.UpdateStatus(job.ID, StatusWaiting, StatusGenerating, nil); err != nil {
		s.releaseProcessing(job.ID)
		s.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "transition to generating failed")
		return
	}

	var inputs zkinput.CircuitInputs
	var fields zkinput.SuiProofFields
	if err := json.Unmarshal([]byte(job.InputsRaw), &inputs); err != nil {
		s.log.Error(err, reasoncodes.ErrUnmarshal, "decode stored inputs failed")
	}
	if err := json.Unmarshal([]byte(job.FieldsRaw), &fields); err != nil {
		s.log.Error(err, reasoncodes.ErrUnmarshal, "decode stored fields failed")
	}

	if err := worker.Send(WorkerTask{ProofID: job.ID, Inputs: inputs, Fields: fields}); err != nil {
		s.log.Error(err, reasoncodes.ErrWorkerDispatchFailed, "dispatch to worker failed")
	}

	jobID := job.ID
	stopTimer := s.afterFunc(s.proofTimeout, func() { s.onTimeout(jobID) })
	s.mu.Lock()
	s.timers[jobID] = stopTimer
	s.mu.Unlock()
}

func (s *Scheduler) onTimeout(id string) {
	defer s.releaseProcessing(id)

	job, err := s.store.Get(id)
	if err != nil {
		s.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "reload job on timeout failed")
		return
	}
	if job == nil || job.Status != StatusGenerating {
		return
	}

	if err := s.store.UpdateStatus(id, StatusGenerating, StatusFailed, nil); err != nil {
		s.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "timeout transition to failed lost the race")
		return
	}
	s.notify(id, job.Nonce, StatusFailed)
}

// OnResult is invoked by C5 when a worker replies before timeout.
func (s *Scheduler) OnResult(id string, proof GrothProof, public []string) {
	defer s.releaseProcessing(id)

	job, err := s.store.Get(id)
	if err != nil {
		s.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "reload job on result failed")
		return
	}
	if job == nil {
		return
	}

	err = s.store.UpdateStatus(id, StatusGenerating, StatusGenerated, map[string]any{
		"proof":  proof,
		"public": public,
	})
	if err != nil {
		// Row is gone or already terminal (e.g. timeout won the race).
		// Best-effort attempt to mark it failed if it is somehow still
		// generating; otherwise this is a no-op by design.
		_ = s.store.UpdateStatus(id, StatusGenerating, StatusFailed, nil)
		s.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "result arrived after job left generating")
		return
	}
	s.notify(id, job.Nonce, StatusGenerated)
}

func (s *Scheduler) notify(jobID, nonce string, status Status) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(JobEvent{
		JobID:      jobID,
		Nonce:      nonce,
		Status:     status,
		OccurredAt: s.now(),
	}); err != nil {
		s.log.Error(err, reasoncodes.ErrWorkerExecutionFailed, "publishing job event failed")
	}
}

func (s *Scheduler) releaseProcessing(id string) {
	s.mu.Lock()
	if stop, ok := s.timers[id]; ok {
		stop()
		delete(s.timers, id)
	}
	delete(s.processing, id)
	s.mu.Unlock()
}
