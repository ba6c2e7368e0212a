package proofstore

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kzero-xyz/kzero-service/pkg/logger"
	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// Reaper is the crash-recovery backstop of §4.4: because the scheduler's
// processing set and its time.AfterFunc timers are in-memory, a crashed
// scheduler abandons any generating row forever with nothing left to
// fail it. The reaper runs on a coarser, independently configurable
// interval and fails any row stuck in generating past proofTimeout,
// regardless of which scheduler instance (if any) is still alive.
type Reaper struct {
	store        Store
	notifier     NotifyPublisher
	log          *logger.Logger
	cron         *cron.Cron
	proofTimeout time.Duration
	sweepSpec    string
}

// ReaperConfig's SweepSpec follows the teacher's outbox worker idiom of
// a cron spec string ("@every 1m") rather than a bare duration.
type ReaperConfig struct {
	ProofTimeout time.Duration
	SweepSpec    string // default "@every 1m"
}

func NewReaper(store Store, notifier NotifyPublisher, cfg ReaperConfig) *Reaper {
	if cfg.ProofTimeout <= 0 {
		cfg.ProofTimeout = 600 * time.Second
	}
	if cfg.SweepSpec == "" {
		cfg.SweepSpec = "@every 1m"
	}

	return &Reaper{
		store:        store,
		notifier:     notifier,
		log:          logger.Default(),
		cron:         cron.New(),
		proofTimeout: cfg.ProofTimeout,
		sweepSpec:    cfg.SweepSpec,
	}
}

func (r *Reaper) Start() error {
	_, err := r.cron.AddFunc(r.sweepSpec, r.sweep)
	if err != nil {
		return reasoncodes.Wrap(reasoncodes.ErrStoreUpdateConflict, "could not schedule reaper sweep", err)
	}
	r.cron.Start()
	return nil
}

func (r *Reaper) Stop() {
	r.cron.Stop()
}

func (r *Reaper) sweep() {
	stuck, err := r.store.FindStuckGenerating(r.proofTimeout)
	if err != nil {
		r.log.Error(err, reasoncodes.ErrStoreUpdateConflict, "reaper sweep query failed")
		return
	}

	for _, job := range stuck {
		if err := r.store.UpdateStatus(job.ID, StatusGenerating, StatusFailed, nil); err != nil {
			// Already transitioned by a live scheduler's own timer; not an error.
			continue
		}
		if r.notifier != nil {
			if err := r.notifier.Publish(JobEvent{
				JobID:      job.ID,
				Nonce:      job.Nonce,
				Status:     StatusFailed,
				OccurredAt: time.Now(),
			}); err != nil {
				r.log.Error(err, reasoncodes.ErrWorkerExecutionFailed, "reaper publish failed")
			}
		}
	}
}
