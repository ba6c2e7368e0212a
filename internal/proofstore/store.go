package proofstore

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

// Store is the state store contract of §4.4: atomic insert, oldest-first
// selection, and single-row conditional status update.
type Store interface {
	Insert(job *ProofJob) error
	FindOldestWaiting() (*ProofJob, error)
	Get(id string) (*ProofJob, error)
	UpdateStatus(id string, expectedCurrent, newStatus Status, extras map[string]any) error
	FindStuckGenerating(olderThan time.Duration) ([]*ProofJob, error)
}

// gormStore is the gorm-backed implementation over SQLite (dev) or
// Postgres (deployed), following the teacher's ConnectToDatabase/
// AutoMigrate idiom.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore runs AutoMigrate and returns a ready Store.
func NewGormStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&ProofJob{}); err != nil {
		return nil, reasoncodes.Wrap(reasoncodes.ErrStoreUpdateConflict, "proof job migration failed", err)
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) Insert(job *ProofJob) error {
	return s.db.Create(job).Error
}

func (s *gormStore) FindOldestWaiting() (*ProofJob, error) {
	var job ProofJob
	result := s.db.Where("status = ?", StatusWaiting).Order("created_at ASC").First(&job)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &job, nil
}

func (s *gormStore) Get(id string) (*ProofJob, error) {
	var job ProofJob
	result := s.db.Where("id = ?", id).First(&job)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &job, nil
}

// UpdateStatus is the terminal-safety mechanism: the WHERE clause pins
// the row's current status, so a write against an already-terminal row
// (e.g. a late worker reply after a timeout already failed it) affects
// zero rows instead of resurrecting it.
func (s *gormStore) UpdateStatus(id string, expectedCurrent, newStatus Status, extras map[string]any) error {
	updates := map[string]any{"status": newStatus}
	for k, v := range extras {
		switch k {
		case "proof":
			raw, err := json.Marshal(v)
			if err != nil {
				return reasoncodes.Wrap(reasoncodes.ErrUnmarshal, "marshal proof extra", err)
			}
			updates["proof_raw"] = string(raw)
		case "public":
			raw, err := json.Marshal(v)
			if err != nil {
				return reasoncodes.Wrap(reasoncodes.ErrUnmarshal, "marshal public extra", err)
			}
			updates["public_raw"] = string(raw)
		}
	}

	result := s.db.Model(&ProofJob{}).
		Where("id = ? AND status = ?", id, expectedCurrent).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reasoncodes.New(reasoncodes.ErrStoreUpdateConflict, id)
	}
	return nil
}

// FindStuckGenerating backs the crash-recovery reaper: rows that have
// been generating longer than olderThan, regardless of which (if any)
// scheduler instance is still alive to own their in-memory timer.
func (s *gormStore) FindStuckGenerating(olderThan time.Duration) ([]*ProofJob, error) {
	var jobs []*ProofJob
	cutoff := time.Now().Add(-olderThan)
	result := s.db.Where("status = ? AND updated_at < ?", StatusGenerating, cutoff).Find(&jobs)
	return jobs, result.Error
}
