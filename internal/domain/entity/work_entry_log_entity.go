package entity

import "time"

// WorkEntryLog is the audit record written for every update that changed an
// entry's interval. It stores the interval as it was before the update.
type WorkEntryLog struct {
	ID                int64
	WorkEntryID       string
	UpdatedByUserID   string
	PreviousStartDate time.Time
	PreviousEndDate   *time.Time
	CreatedAt         time.Time
}

func NewWorkEntryLog(workEntryID, updatedBy string, prevStart time.Time, prevEnd *time.Time, now time.Time) *WorkEntryLog {
	return &WorkEntryLog{
		WorkEntryID:       workEntryID,
		UpdatedByUserID:   updatedBy,
		PreviousStartDate: prevStart,
		PreviousEndDate:   copyTime(prevEnd),
		CreatedAt:         now,
	}
}
