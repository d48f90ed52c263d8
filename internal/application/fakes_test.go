package application_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*memUsers)(nil)
	_ repository.WorkEntryRepository    = (*memEntries)(nil)
	_ repository.WorkEntryLogRepository = (*memLogs)(nil)
	_ repository.Transactor             = noTx{}
	_ application.EventDispatcher       = dispatcherFunc(nil)
	_ application.LogIndexer            = (*mockIndexer)(nil)
	_ application.ObjectUploader        = (*mockUploader)(nil)
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUsers(users ...*entity.User) *memUsers {
	m := &memUsers{users: map[string]*entity.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) Save(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.IsDeleted() {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) All(_ context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.User, 0, len(m.users))
	for _, u := range m.users {
		if !u.IsDeleted() {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memUsers) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.GetByID(ctx, id)
	return err == nil, nil
}

type memEntries struct {
	mu      sync.Mutex
	entries map[string]*entity.WorkEntry
	saves   int
}

func newMemEntries(entries ...*entity.WorkEntry) *memEntries {
	m := &memEntries{entries: map[string]*entity.WorkEntry{}}
	for _, e := range entries {
		m.entries[e.ID] = clone(e)
	}
	return m
}

func clone(w *entity.WorkEntry) *entity.WorkEntry {
	cp := *w
	if w.EndDate != nil {
		end := *w.EndDate
		cp.EndDate = &end
	}
	if w.DeletedAt != nil {
		del := *w.DeletedAt
		cp.DeletedAt = &del
	}
	return &cp
}

func (m *memEntries) Save(_ context.Context, w *entity.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.IsOpen() && !w.IsDeleted() {
		for _, e := range m.entries {
			if e.ID != w.ID && e.UserID == w.UserID && e.IsOpen() && !e.IsDeleted() {
				return domain.ErrWorkEntryAlreadyOpen
			}
		}
	}
	m.saves++
	m.entries[w.ID] = clone(w)
	return nil
}

func (m *memEntries) GetByID(_ context.Context, id string, includeDeleted bool) (*entity.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || (e.IsDeleted() && !includeDeleted) {
		return nil, domain.ErrWorkEntryNotFound
	}
	return clone(e), nil
}

func (m *memEntries) live(userID string) []*entity.WorkEntry {
	out := []*entity.WorkEntry{}
	for _, e := range m.entries {
		if e.UserID == userID && !e.IsDeleted() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (m *memEntries) FindOpenByUserID(_ context.Context, userID string) (*entity.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.live(userID) {
		if e.IsOpen() {
			return clone(e), nil
		}
	}
	return nil, nil
}

func (m *memEntries) FindPrevious(_ context.Context, userID string, before time.Time, excludeID string) (*entity.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *entity.WorkEntry
	for _, e := range m.live(userID) {
		if e.ID == excludeID || e.EndDate == nil || e.EndDate.After(before) {
			continue
		}
		if best == nil || e.EndDate.After(*best.EndDate) {
			best = e
		}
	}
	if best == nil {
		return nil, nil
	}
	return clone(best), nil
}

func (m *memEntries) FindNext(_ context.Context, userID string, after time.Time, excludeID string) (*entity.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.live(userID) {
		if e.ID != excludeID && !e.StartDate.Before(after) {
			return clone(e), nil
		}
	}
	return nil, nil
}

func (m *memEntries) ListOverlapping(_ context.Context, userID string, from, to time.Time) ([]*entity.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.WorkEntry{}
	for _, e := range m.live(userID) {
		if e.StartDate.After(to) {
			continue
		}
		if e.EndDate != nil && e.EndDate.Before(from) {
			continue
		}
		out = append(out, clone(e))
	}
	return out, nil
}

func (m *memEntries) AllByUserID(_ context.Context, userID string, includeDeleted bool) ([]*entity.WorkEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.WorkEntry{}
	for _, e := range m.entries {
		if e.UserID == userID && (includeDeleted || !e.IsDeleted()) {
			out = append(out, clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

type memLogs struct {
	mu   sync.Mutex
	logs []*entity.WorkEntryLog
}

func (m *memLogs) Save(_ context.Context, l *entity.WorkEntryLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, l)
	return nil
}

func (m *memLogs) ListByWorkEntryID(_ context.Context, workEntryID string) ([]*entity.WorkEntryLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.WorkEntryLog{}
	for _, l := range m.logs {
		if l.WorkEntryID == workEntryID {
			out = append(out, l)
		}
	}
	return out, nil
}

type noTx struct{}

func (noTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type dispatcherFunc func(ctx context.Context, events ...event.Event) error

func (f dispatcherFunc) Dispatch(ctx context.Context, events ...event.Event) error {
	return f(ctx, events...)
}

type mockIndexer struct {
	index  func(ctx context.Context, userID string, l *entity.WorkEntryLog) error
	search func(ctx context.Context, userID string, q application.LogSearchQuery) ([]*entity.WorkEntryLog, error)
}

func (m *mockIndexer) Index(ctx context.Context, userID string, l *entity.WorkEntryLog) error {
	if m.index == nil {
		return nil
	}
	return m.index(ctx, userID, l)
}

func (m *mockIndexer) Search(ctx context.Context, userID string, q application.LogSearchQuery) ([]*entity.WorkEntryLog, error) {
	return m.search(ctx, userID, q)
}

type mockUploader struct {
	upload func(ctx context.Context, objectPath, contentType string, body []byte) (string, error)
}

func (m *mockUploader) Upload(ctx context.Context, objectPath, contentType string, body []byte) (string, error) {
	return m.upload(ctx, objectPath, contentType, body)
}
