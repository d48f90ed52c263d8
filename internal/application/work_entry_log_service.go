package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/service"
)

// LogIndexer mirrors audit logs into a search index.
type LogIndexer interface {
	Index(ctx context.Context, userID string, l *entity.WorkEntryLog) error
	Search(ctx context.Context, userID string, q LogSearchQuery) ([]*entity.WorkEntryLog, error)
}

type WorkEntryLogService struct {
	Users   repo.UserRepository
	Entries repo.WorkEntryRepository
	Logs    repo.WorkEntryLogRepository
	Domain  *service.WorkEntryDomainService
	Indexer LogIndexer
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewWorkEntryLogService(users repo.UserRepository, entries repo.WorkEntryRepository, logs repo.WorkEntryLogRepository, domainSvc *service.WorkEntryDomainService, indexer LogIndexer, logger *logrus.Logger) *WorkEntryLogService {
	return &WorkEntryLogService{
		Users:   users,
		Entries: entries,
		Logs:    logs,
		Domain:  domainSvc,
		Indexer: indexer,
		Logger:  logger,
		Now:     time.Now,
	}
}

// CreateWorkEntryLog re-resolves the user and the entry, checks access again
// and stores the pre-update interval. Indexing is best effort.
func (s *WorkEntryLogService) CreateWorkEntryLog(ctx context.Context, cmd CreateWorkEntryLogCommand) (*entity.WorkEntryLog, error) {
	u, err := s.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	// The entry may have been soft-deleted since the update; the edit still happened.
	entry, err := s.Entries.GetByID(ctx, cmd.WorkEntryID, true)
	if err != nil {
		return nil, err
	}
	if err := s.Domain.CanAccessWorkEntry(u, entry); err != nil {
		return nil, err
	}

	l := entity.NewWorkEntryLog(entry.ID, u.ID, cmd.PreviousStartDate, cmd.PreviousEndDate, s.now())
	if err := s.Logs.Save(ctx, l); err != nil {
		return nil, err
	}

	if s.Indexer != nil {
		if err := s.Indexer.Index(ctx, u.ID, l); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"work_entry_id": entry.ID, "log_id": l.ID}).Warn("work entry log index failed")
		}
	}
	return l, nil
}

func (s *WorkEntryLogService) ListWorkEntryLogs(ctx context.Context, userID, workEntryID string) ([]*entity.WorkEntryLog, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.Entries.GetByID(ctx, workEntryID, false)
	if err != nil {
		return nil, err
	}
	if err := s.Domain.CanAccessWorkEntry(u, entry); err != nil {
		return nil, err
	}
	return s.Logs.ListByWorkEntryID(ctx, entry.ID)
}

// SearchWorkEntryLogs queries the search index for the user's audit trail.
// Without an index it returns an empty result.
func (s *WorkEntryLogService) SearchWorkEntryLogs(ctx context.Context, userID string, q LogSearchQuery) ([]*entity.WorkEntryLog, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Indexer == nil {
		return []*entity.WorkEntryLog{}, nil
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}
	return s.Indexer.Search(ctx, u.ID, q)
}

func (s *WorkEntryLogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
