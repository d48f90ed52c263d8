package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/service"
)

type mockEntries struct {
	repository.WorkEntryRepository
	findOpen func(ctx context.Context, userID string) (*entity.WorkEntry, error)
}

func (m *mockEntries) FindOpenByUserID(ctx context.Context, userID string) (*entity.WorkEntry, error) {
	return m.findOpen(ctx, userID)
}

var now = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

func TestValidateUserCanCreateWorkEntry(t *testing.T) {
	u := entity.NewUser("u1", "Ada", now)

	t.Run("no open entry", func(t *testing.T) {
		svc := service.NewWorkEntryDomainService(&mockEntries{findOpen: func(context.Context, string) (*entity.WorkEntry, error) {
			return nil, nil
		}}, nil)

		assert.NoError(t, svc.ValidateUserCanCreateWorkEntry(context.Background(), u))
	})

	t.Run("open entry", func(t *testing.T) {
		svc := service.NewWorkEntryDomainService(&mockEntries{findOpen: func(_ context.Context, userID string) (*entity.WorkEntry, error) {
			return entity.NewWorkEntry("w1", userID, now), nil
		}}, nil)

		err := svc.ValidateUserCanCreateWorkEntry(context.Background(), u)
		assert.ErrorIs(t, err, domain.ErrWorkEntryAlreadyOpen)
	})

	t.Run("storage error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		svc := service.NewWorkEntryDomainService(&mockEntries{findOpen: func(context.Context, string) (*entity.WorkEntry, error) {
			return nil, boom
		}}, nil)

		err := svc.ValidateUserCanCreateWorkEntry(context.Background(), u)
		require.ErrorIs(t, err, boom)
		assert.Zero(t, domain.KindOf(err))
	})
}

func TestOwnerPolicy(t *testing.T) {
	owner := entity.NewUser("u1", "Ada", now)
	other := entity.NewUser("u2", "Bob", now)
	w := entity.NewWorkEntry("w1", "u1", now)
	svc := service.NewWorkEntryDomainService(nil, nil)

	assert.NoError(t, svc.CanAccessWorkEntry(owner, w))
	assert.ErrorIs(t, svc.CanAccessWorkEntry(other, w), domain.ErrUnauthorizedAccessToWorkEntry)
	assert.ErrorIs(t, svc.CanAccessWorkEntry(nil, w), domain.ErrUnauthorizedAccessToWorkEntry)
}

type denyAll struct{}

func (denyAll) CanAccess(*entity.User, *entity.WorkEntry) error {
	return domain.ErrUnauthorizedAccessToWorkEntry
}

func TestCustomPolicy(t *testing.T) {
	owner := entity.NewUser("u1", "Ada", now)
	svc := service.NewWorkEntryDomainService(nil, denyAll{})

	assert.Error(t, svc.CanAccessWorkEntry(owner, entity.NewWorkEntry("w1", "u1", now)))
}
