package handlers

import (
	"time"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

type workEntryDTO struct {
	ID        string  `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

type userListItemDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type userDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	WorkEntries []workEntryDTO `json:"workEntries"`
	TotalTime   int64          `json:"totalTime"`
}

type workEntryLogDTO struct {
	ID                int64   `json:"id"`
	WorkEntryID       string  `json:"workEntryId"`
	UpdatedBy         string  `json:"updatedBy"`
	PreviousStartDate string  `json:"previousStartDate"`
	PreviousEndDate   *string `json:"previousEndDate"`
	CreatedAt         string  `json:"createdAt"`
}

func toWorkEntryDTO(w *entity.WorkEntry, loc *time.Location) workEntryDTO {
	return workEntryDTO{
		ID:        w.ID,
		StartDate: helpers.FormatDisplay(w.StartDate, loc),
		EndDate:   helpers.FormatDisplayPtr(w.EndDate, loc),
	}
}

func toWorkEntryDTOs(entries []*entity.WorkEntry, loc *time.Location) []workEntryDTO {
	out := make([]workEntryDTO, 0, len(entries))
	for _, w := range entries {
		out = append(out, toWorkEntryDTO(w, loc))
	}
	return out
}

func toUserDTO(v *application.UserView, loc *time.Location) userDTO {
	return userDTO{
		ID:          v.User.ID,
		Name:        v.User.Name,
		WorkEntries: toWorkEntryDTOs(v.WorkEntries, loc),
		TotalTime:   v.TotalTime,
	}
}

func toWorkEntryLogDTOs(logs []*entity.WorkEntryLog, loc *time.Location) []workEntryLogDTO {
	out := make([]workEntryLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, workEntryLogDTO{
			ID:                l.ID,
			WorkEntryID:       l.WorkEntryID,
			UpdatedBy:         l.UpdatedByUserID,
			PreviousStartDate: helpers.FormatDisplay(l.PreviousStartDate, loc),
			PreviousEndDate:   helpers.FormatDisplayPtr(l.PreviousEndDate, loc),
			CreatedAt:         helpers.FormatDisplay(l.CreatedAt, loc),
		})
	}
	return out
}
