package domain

import (
	"errors"
	"sort"
	"strings"
)

// Kind classifies domain errors so the transport layer can map them to a status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a domain rule violation. Two errors with the same Code are treated
// as the same error by errors.Is, even when their messages differ.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrUserNotFound      = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "User not found"}
	ErrWorkEntryNotFound = &Error{Kind: KindNotFound, Code: "work_entry_not_found", Message: "Work entry not found"}
	ErrNotWorkEntryOpen  = &Error{Kind: KindNotFound, Code: "not_work_entry_open", Message: "There is no open work entry for this user."}

	ErrWorkEntryAlreadyOpen   = &Error{Kind: KindConflict, Code: "work_entry_already_open", Message: "The user already has an open work entry."}
	ErrWorkEntryIsAlreadyOpen = &Error{Kind: KindConflict, Code: "work_entry_is_already_open", Message: "The work entry is still open and cannot be updated."}
	ErrEndDateInTheFuture     = &Error{Kind: KindConflict, Code: "end_date_in_the_future", Message: "End date cannot be in the future."}

	// ErrNotOverlap matches both overlap variants below.
	ErrNotOverlap            = &Error{Kind: KindConflict, Code: "not_overlap", Message: "Work entries cannot overlap."}
	ErrStartOverlapsPrevious = &Error{Kind: KindConflict, Code: "not_overlap", Message: "Start date cannot be before the end date of the previous entry."}
	ErrEndOverlapsNext       = &Error{Kind: KindConflict, Code: "not_overlap", Message: "End date cannot be after the start date of the next entry."}

	ErrUnauthorizedAccessToWorkEntry = &Error{Kind: KindUnauthorized, Code: "unauthorized_access_to_work_entry", Message: "You are not allowed to access this work entry."}

	ErrStorageNotConfigured = &Error{Kind: KindConflict, Code: "storage_not_configured", Message: "Object storage is not configured."}
)

// ValidationError carries per-field messages for a rejected command.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// KindOf reports the Kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
