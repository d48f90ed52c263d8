package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
)

// WorkEntryRepository is both the write side and the neighbour lookup for work entries.
// Every lookup except GetByID with includeDeleted ignores soft-deleted rows.
type WorkEntryRepository interface {
	Save(ctx context.Context, w *entity.WorkEntry) error
	// GetByID returns domain.ErrWorkEntryNotFound when missing.
	GetByID(ctx context.Context, id string, includeDeleted bool) (*entity.WorkEntry, error)
	// FindOpenByUserID returns nil, nil when the user has no open entry.
	FindOpenByUserID(ctx context.Context, userID string) (*entity.WorkEntry, error)
	// FindPrevious returns the entry with the latest end date that is <= before.
	FindPrevious(ctx context.Context, userID string, before time.Time, excludeID string) (*entity.WorkEntry, error)
	// FindNext returns the entry with the earliest start date that is >= after.
	FindNext(ctx context.Context, userID string, after time.Time, excludeID string) (*entity.WorkEntry, error)
	// ListOverlapping returns entries touching [from, to], open entries included.
	ListOverlapping(ctx context.Context, userID string, from, to time.Time) ([]*entity.WorkEntry, error)
	AllByUserID(ctx context.Context, userID string, includeDeleted bool) ([]*entity.WorkEntry, error)
}

// WorkEntryLogRepository stores the audit trail. Logs are append-only.
type WorkEntryLogRepository interface {
	Save(ctx context.Context, l *entity.WorkEntryLog) error
	ListByWorkEntryID(ctx context.Context, workEntryID string) ([]*entity.WorkEntryLog, error)
}
