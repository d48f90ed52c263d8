package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/service"
)

func newLogService(users *memUsers, entries *memEntries, logs *memLogs, indexer application.LogIndexer, logger *logrus.Logger) *application.WorkEntryLogService {
	svc := application.NewWorkEntryLogService(users, entries, logs, service.NewWorkEntryDomainService(entries, nil), indexer, logger)
	svc.Now = func() time.Time { return testNow }
	return svc
}

func TestCreateWorkEntryLog_DeletedEntryStillLogged(t *testing.T) {
	u := entity.NewUser(uuid.NewString(), "Ada Lovelace", testNow)
	e := closed(u.ID, at(9, 0), at(12, 0))
	e.Delete(testNow)
	logs := &memLogs{}
	var indexed []string
	indexer := &mockIndexer{index: func(_ context.Context, userID string, l *entity.WorkEntryLog) error {
		indexed = append(indexed, userID)
		return nil
	}}
	svc := newLogService(newMemUsers(u), newMemEntries(e), logs, indexer, nil)

	prevEnd := at(11, 0)
	l, err := svc.CreateWorkEntryLog(context.Background(), application.CreateWorkEntryLogCommand{
		UserID:            u.ID,
		WorkEntryID:       e.ID,
		PreviousStartDate: at(9, 0),
		PreviousEndDate:   &prevEnd,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), l.ID)
	assert.Equal(t, testNow, l.CreatedAt)
	assert.Equal(t, []string{u.ID}, indexed)
}

func TestCreateWorkEntryLog_RechecksAccess(t *testing.T) {
	owner := entity.NewUser(uuid.NewString(), "Ada Lovelace", testNow)
	other := entity.NewUser(uuid.NewString(), "Bob Builder", testNow)
	e := closed(owner.ID, at(9, 0), at(12, 0))
	logs := &memLogs{}
	svc := newLogService(newMemUsers(owner, other), newMemEntries(e), logs, nil, nil)

	_, err := svc.CreateWorkEntryLog(context.Background(), application.CreateWorkEntryLogCommand{
		UserID:            other.ID,
		WorkEntryID:       e.ID,
		PreviousStartDate: at(9, 0),
	})

	require.ErrorIs(t, err, domain.ErrUnauthorizedAccessToWorkEntry)
	assert.Empty(t, logs.logs)
}

func TestCreateWorkEntryLog_IndexFailureIsNotFatal(t *testing.T) {
	u := entity.NewUser(uuid.NewString(), "Ada Lovelace", testNow)
	e := closed(u.ID, at(9, 0), at(12, 0))
	logger, hook := test.NewNullLogger()
	indexer := &mockIndexer{index: func(context.Context, string, *entity.WorkEntryLog) error {
		return errors.New("es down")
	}}
	logs := &memLogs{}
	svc := newLogService(newMemUsers(u), newMemEntries(e), logs, indexer, logger)

	_, err := svc.CreateWorkEntryLog(context.Background(), application.CreateWorkEntryLogCommand{
		UserID:            u.ID,
		WorkEntryID:       e.ID,
		PreviousStartDate: at(9, 0),
	})

	require.NoError(t, err)
	assert.Len(t, logs.logs, 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSearchWorkEntryLogs(t *testing.T) {
	u := entity.NewUser(uuid.NewString(), "Ada Lovelace", testNow)

	t.Run("no index configured", func(t *testing.T) {
		svc := newLogService(newMemUsers(u), newMemEntries(), &memLogs{}, nil, nil)

		res, err := svc.SearchWorkEntryLogs(context.Background(), u.ID, application.LogSearchQuery{})

		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("size is clamped", func(t *testing.T) {
		var got application.LogSearchQuery
		indexer := &mockIndexer{search: func(_ context.Context, userID string, q application.LogSearchQuery) ([]*entity.WorkEntryLog, error) {
			got = q
			return []*entity.WorkEntryLog{{ID: 7}}, nil
		}}
		svc := newLogService(newMemUsers(u), newMemEntries(), &memLogs{}, indexer, nil)

		res, err := svc.SearchWorkEntryLogs(context.Background(), u.ID, application.LogSearchQuery{Size: 1000})

		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, 20, got.Size)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newLogService(newMemUsers(u), newMemEntries(), &memLogs{}, nil, nil)

		_, err := svc.SearchWorkEntryLogs(context.Background(), uuid.NewString(), application.LogSearchQuery{})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
