package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
	repo "github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/service"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

// EventDispatcher hands domain events to whoever subscribed to them.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...event.Event) error
}

type WorkEntryService struct {
	Users     repo.UserRepository
	Entries   repo.WorkEntryRepository
	Domain    *service.WorkEntryDomainService
	IDs       repo.IDGenerator
	Tx        repo.Transactor
	Locker    repo.UserLocker
	Events    EventDispatcher
	Validator CommandValidator
	Logger    *logrus.Logger
	Location  *time.Location
	Now       func() time.Time
}

// UpdateResult is the updated entry plus the events the update produced.
// Events is empty when the update was a no-op.
type UpdateResult struct {
	Entry  *entity.WorkEntry
	Events []event.Event
}

func NewWorkEntryService(
	users repo.UserRepository,
	entries repo.WorkEntryRepository,
	domainSvc *service.WorkEntryDomainService,
	ids repo.IDGenerator,
	tx repo.Transactor,
	locker repo.UserLocker,
	events EventDispatcher,
	validator CommandValidator,
	logger *logrus.Logger,
	loc *time.Location,
) *WorkEntryService {
	return &WorkEntryService{
		Users:     users,
		Entries:   entries,
		Domain:    domainSvc,
		IDs:       ids,
		Tx:        tx,
		Locker:    locker,
		Events:    events,
		Validator: validator,
		Logger:    logger,
		Location:  loc,
		Now:       time.Now,
	}
}

// Create opens a new work entry starting now.
func (s *WorkEntryService) Create(ctx context.Context, cmd CreateWorkEntryCommand) (*entity.WorkEntry, error) {
	if err := validate(ctx, s.Validator, cmd); err != nil {
		return nil, err
	}
	unlock, err := s.Locker.Lock(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("application.WorkEntryService.Create: %w", err)
	}
	defer unlock()

	var created *entity.WorkEntry
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.Users.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if err := s.Domain.ValidateUserCanCreateWorkEntry(ctx, u); err != nil {
			return err
		}
		created = entity.NewWorkEntry(s.IDs.Generate(), u.ID, s.now())
		return s.Entries.Save(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"user_id": created.UserID, "work_entry_id": created.ID}).Info("work entry opened")
	return created, nil
}

// Close ends the user's open work entry now.
func (s *WorkEntryService) Close(ctx context.Context, cmd CloseWorkEntryCommand) (*entity.WorkEntry, error) {
	if err := validate(ctx, s.Validator, cmd); err != nil {
		return nil, err
	}
	unlock, err := s.Locker.Lock(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("application.WorkEntryService.Close: %w", err)
	}
	defer unlock()

	var closed *entity.WorkEntry
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.Users.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		open, err := s.Entries.FindOpenByUserID(ctx, u.ID)
		if err != nil {
			return err
		}
		if open == nil {
			return domain.ErrNotWorkEntryOpen
		}
		open.Close(s.now())
		closed = open
		return s.Entries.Save(ctx, open)
	})
	if err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"user_id": closed.UserID, "work_entry_id": closed.ID}).Info("work entry closed")
	return closed, nil
}

// Update moves a closed entry to a new interval and dispatches the resulting
// events once the change is committed. A failed dispatch is logged and does
// not undo the update.
func (s *WorkEntryService) Update(ctx context.Context, cmd UpdateWorkEntryCommand) (*UpdateResult, error) {
	if err := validate(ctx, s.Validator, cmd); err != nil {
		return nil, err
	}
	start, end, err := s.parseInterval(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("application.WorkEntryService.Update: %w", err)
	}
	defer unlock()

	var (
		entry  *entity.WorkEntry
		events []event.Event
	)
	err = s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.Users.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		entry, err = s.accessibleEntry(ctx, u, cmd.WorkEntryID)
		if err != nil {
			return err
		}
		if entry.IsOpen() {
			return domain.ErrWorkEntryIsAlreadyOpen
		}

		// Neighbours are looked up around the interval as currently stored.
		previous, err := s.Entries.FindPrevious(ctx, u.ID, entry.StartDate, entry.ID)
		if err != nil {
			return err
		}
		next, err := s.Entries.FindNext(ctx, u.ID, *entry.EndDate, entry.ID)
		if err != nil {
			return err
		}

		events, err = entry.Update(u.ID, start, end, previous, next, s.now())
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		return s.Entries.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, events)
	return &UpdateResult{Entry: entry, Events: events}, nil
}

// Delete soft-deletes an entry owned by the user.
func (s *WorkEntryService) Delete(ctx context.Context, cmd DeleteWorkEntryCommand) error {
	if err := validate(ctx, s.Validator, cmd); err != nil {
		return err
	}
	unlock, err := s.Locker.Lock(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("application.WorkEntryService.Delete: %w", err)
	}
	defer unlock()

	return s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.Users.GetByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		entry, err := s.accessibleEntry(ctx, u, cmd.WorkEntryID)
		if err != nil {
			return err
		}
		entry.Delete(s.now())
		return s.Entries.Save(ctx, entry)
	})
}

func (s *WorkEntryService) GetByID(ctx context.Context, userID, workEntryID string) (*entity.WorkEntry, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.accessibleEntry(ctx, u, workEntryID)
}

// ListForUser returns the user's entries ordered by start date, deleted ones excluded.
func (s *WorkEntryService) ListForUser(ctx context.Context, userID string) ([]*entity.WorkEntry, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Entries.AllByUserID(ctx, u.ID, false)
}

func (s *WorkEntryService) accessibleEntry(ctx context.Context, u *entity.User, workEntryID string) (*entity.WorkEntry, error) {
	entry, err := s.Entries.GetByID(ctx, workEntryID, false)
	if err != nil {
		return nil, err
	}
	if err := s.Domain.CanAccessWorkEntry(u, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *WorkEntryService) parseInterval(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := helpers.ParseISO8601(rawStart, s.Location)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError(map[string]string{"startDate": "must be a valid ISO-8601 date"})
	}
	end, err := helpers.ParseISO8601(rawEnd, s.Location)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError(map[string]string{"endDate": "must be a valid ISO-8601 date"})
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, domain.NewValidationError(map[string]string{"endDate": "must be after startDate"})
	}
	return start, end, nil
}

func (s *WorkEntryService) dispatch(ctx context.Context, events []event.Event) {
	if len(events) == 0 || s.Events == nil {
		return
	}
	if err := s.Events.Dispatch(ctx, events...); err != nil {
		for _, e := range events {
			entry := s.log().WithError(err).WithField("event", e.Name())
			if u, ok := e.(event.WorkEntryUpdated); ok {
				entry = entry.WithFields(logrus.Fields{"user_id": u.UserID, "work_entry_id": u.WorkEntryID})
			}
			entry.Error("event dispatch failed, update kept")
		}
	}
}

func (s *WorkEntryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *WorkEntryService) log() *logrus.Entry {
	if s.Logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.NewEntry(s.Logger)
}
