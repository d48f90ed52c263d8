package entity

import (
	"time"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/event"
)

// WorkEntry is a clock-in/clock-out interval owned by a single user.
// A nil EndDate means the entry is still open.
type WorkEntry struct {
	ID        string
	UserID    string
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewWorkEntry opens a work entry starting at now. Whether the user may open one
// is decided by the domain service, not here.
func NewWorkEntry(id, userID string, now time.Time) *WorkEntry {
	return &WorkEntry{
		ID:        id,
		UserID:    userID,
		StartDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (w *WorkEntry) IsOpen() bool { return w.EndDate == nil }

func (w *WorkEntry) IsDeleted() bool { return w.DeletedAt != nil }

// Close ends the entry at now.
func (w *WorkEntry) Close(now time.Time) {
	w.EndDate = &now
	w.UpdatedAt = now
}

// Delete soft-deletes the entry. Neighbouring entries are left untouched.
func (w *WorkEntry) Delete(now time.Time) {
	w.DeletedAt = &now
	w.UpdatedAt = now
}

// Update moves the entry to [start, end). previous and next are the entries
// adjacent to this one for the same user and may be nil. Nothing changes and
// no event is returned when the interval is identical to the current one.
func (w *WorkEntry) Update(userID string, start, end time.Time, previous, next *WorkEntry, now time.Time) ([]event.Event, error) {
	if w.sameInterval(start, end) {
		return nil, nil
	}
	if end.After(now) {
		return nil, domain.ErrEndDateInTheFuture
	}
	if previous != nil && previous.EndDate != nil && start.Before(*previous.EndDate) {
		return nil, domain.ErrStartOverlapsPrevious
	}
	if next != nil && end.After(next.StartDate) {
		return nil, domain.ErrEndOverlapsNext
	}

	evt := event.WorkEntryUpdated{
		UserID:            userID,
		WorkEntryID:       w.ID,
		PreviousStartDate: w.StartDate,
		PreviousEndDate:   copyTime(w.EndDate),
		OccurredAt:        now,
	}

	w.StartDate = start
	w.EndDate = &end
	w.UpdatedAt = now

	return []event.Event{evt}, nil
}

// Duration returns the worked time, counting an open entry up to now.
func (w *WorkEntry) Duration(now time.Time) time.Duration {
	end := now
	if w.EndDate != nil {
		end = *w.EndDate
	}
	if end.Before(w.StartDate) {
		return 0
	}
	return end.Sub(w.StartDate)
}

// sameInterval compares at second granularity.
func (w *WorkEntry) sameInterval(start, end time.Time) bool {
	if !w.StartDate.Truncate(time.Second).Equal(start.Truncate(time.Second)) {
		return false
	}
	if w.EndDate == nil {
		return false
	}
	return w.EndDate.Truncate(time.Second).Equal(end.Truncate(time.Second))
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
