package application

import "time"

type CreateUserCommand struct {
	Name string `json:"name" validate:"required,notblank,min=3"`
}

type CreateWorkEntryCommand struct {
	UserID string `json:"userId" validate:"required,uuid,user_exists"`
}

type CloseWorkEntryCommand struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// UpdateWorkEntryCommand carries the raw ISO-8601 strings received from the caller.
type UpdateWorkEntryCommand struct {
	UserID      string `json:"userId" validate:"required,uuid,user_exists"`
	WorkEntryID string `json:"workEntryId" validate:"required,uuid"`
	StartDate   string `json:"startDate" validate:"required,iso8601"`
	EndDate     string `json:"endDate" validate:"required,iso8601,iso8601_after=StartDate"`
}

type DeleteWorkEntryCommand struct {
	UserID      string `json:"userId" validate:"required,uuid"`
	WorkEntryID string `json:"workEntryId" validate:"required,uuid"`
}

// CreateWorkEntryLogCommand is built from a WorkEntryUpdated event.
type CreateWorkEntryLogCommand struct {
	UserID            string
	WorkEntryID       string
	PreviousStartDate time.Time
	PreviousEndDate   *time.Time
}

// LogSearchQuery narrows the audit trail search. Zero values mean "any".
type LogSearchQuery struct {
	WorkEntryID string
	From        *time.Time
	To          *time.Time
	Size        int
}
