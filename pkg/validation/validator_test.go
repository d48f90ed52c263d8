package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type updateCmd struct {
	UserID    string `json:"userId" validate:"required,uuid,user_exists"`
	StartDate string `json:"startDate" validate:"required,iso8601"`
	EndDate   string `json:"endDate" validate:"required,iso8601,iso8601_after=StartDate"`
}

type nameCmd struct {
	Name string `json:"name" validate:"required,notblank,min=3"`
}

const knownUser = "5f0b1c8e-2f7a-4c1e-9a4b-3d2e1f0a9b8c"

func exists(_ context.Context, id string) (bool, error) { return id == knownUser, nil }

func TestValidateStruct_Valid(t *testing.T) {
	v := New(WithUserExists(exists))

	details := v.ValidateStruct(context.Background(), updateCmd{
		UserID:    knownUser,
		StartDate: "2024-03-14T09:00:00",
		EndDate:   "2024-03-14T12:00:00",
	})

	assert.Nil(t, details)
}

func TestValidateStruct_OffsetLessDatesUseLocation(t *testing.T) {
	cmd := updateCmd{
		UserID:    knownUser,
		StartDate: "2024-03-14T09:30:00Z",
		EndDate:   "2024-03-14 10:00:00", // 09:00Z when read at UTC+1
	}

	assert.Nil(t, New(WithUserExists(exists), WithLocation(time.UTC)).ValidateStruct(context.Background(), cmd))

	details := New(WithUserExists(exists), WithLocation(time.FixedZone("UTC+1", 3600))).ValidateStruct(context.Background(), cmd)
	assert.Equal(t, map[string]string{"endDate": "must be after startDate"}, details)
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	v := New(WithUserExists(exists))

	cases := []struct {
		name  string
		cmd   any
		field string
		want  string
	}{
		{"unknown user", updateCmd{UserID: "0a0a0a0a-0a0a-4a0a-8a0a-0a0a0a0a0a0a", StartDate: "2024-03-14T09:00:00Z", EndDate: "2024-03-14T10:00:00Z"}, "userId", "user not found"},
		{"bad uuid", updateCmd{UserID: "42", StartDate: "2024-03-14T09:00:00Z", EndDate: "2024-03-14T10:00:00Z"}, "userId", "must be a valid UUID"},
		{"bad date", updateCmd{UserID: knownUser, StartDate: "14/03/2024", EndDate: "2024-03-14T10:00:00Z"}, "startDate", "must be a valid ISO-8601 date"},
		{"end before start", updateCmd{UserID: knownUser, StartDate: "2024-03-14T10:00:00Z", EndDate: "2024-03-14T09:00:00Z"}, "endDate", "must be after startDate"},
		{"equal dates", updateCmd{UserID: knownUser, StartDate: "2024-03-14T10:00:00Z", EndDate: "2024-03-14T10:00:00Z"}, "endDate", "must be after startDate"},
		{"blank name", nameCmd{Name: "    "}, "name", "must not be blank"},
		{"short name", nameCmd{Name: "ab"}, "name", "must be at least 3 characters long"},
		{"missing name", nameCmd{}, "name", "is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			details := v.ValidateStruct(context.Background(), tc.cmd)
			assert.Equal(t, tc.want, details[tc.field])
		})
	}
}

func TestUserExists_LookupErrorFailsField(t *testing.T) {
	v := New(WithUserExists(func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	}))

	details := v.ValidateStruct(context.Background(), updateCmd{UserID: knownUser, StartDate: "2024-03-14T09:00:00Z", EndDate: "2024-03-14T10:00:00Z"})

	assert.Equal(t, "user not found", details["userId"])
}

func TestToDetails_NonValidationErrors(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "startDate", fieldLabel("StartDate"))
	assert.Equal(t, "", fieldLabel(""))
}
