package event

import "time"

// Event is a fact recorded by an aggregate and handed to the event bus.
type Event interface {
	Name() string
}

const WorkEntryUpdatedName = "work_entry.updated"

// WorkEntryUpdated carries the interval of a work entry as it was right before an update.
type WorkEntryUpdated struct {
	UserID            string     `json:"user_id"`
	WorkEntryID       string     `json:"work_entry_id"`
	PreviousStartDate time.Time  `json:"previous_start_date"`
	PreviousEndDate   *time.Time `json:"previous_end_date,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
}

func (WorkEntryUpdated) Name() string { return WorkEntryUpdatedName }
