package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
	"github.com/oksasatya/go-ddd-worktime/pkg/response"
	"github.com/oksasatya/go-ddd-worktime/pkg/validation"
)

// WorkEntryUseCases is implemented by application.WorkEntryService.
type WorkEntryUseCases interface {
	Create(ctx context.Context, cmd application.CreateWorkEntryCommand) (*entity.WorkEntry, error)
	Close(ctx context.Context, cmd application.CloseWorkEntryCommand) (*entity.WorkEntry, error)
	Update(ctx context.Context, cmd application.UpdateWorkEntryCommand) (*application.UpdateResult, error)
	Delete(ctx context.Context, cmd application.DeleteWorkEntryCommand) error
	GetByID(ctx context.Context, userID, workEntryID string) (*entity.WorkEntry, error)
	ListForUser(ctx context.Context, userID string) ([]*entity.WorkEntry, error)
}

// WorkEntryLogQueries is implemented by application.WorkEntryLogService.
type WorkEntryLogQueries interface {
	ListWorkEntryLogs(ctx context.Context, userID, workEntryID string) ([]*entity.WorkEntryLog, error)
	SearchWorkEntryLogs(ctx context.Context, userID string, q application.LogSearchQuery) ([]*entity.WorkEntryLog, error)
}

type WorkEntryHandler struct {
	Entries  WorkEntryUseCases
	Logs     WorkEntryLogQueries
	Logger   *logrus.Logger
	Location *time.Location
}

func NewWorkEntryHandler(entries WorkEntryUseCases, logs WorkEntryLogQueries, logger *logrus.Logger, loc *time.Location) *WorkEntryHandler {
	return &WorkEntryHandler{Entries: entries, Logs: logs, Logger: logger, Location: loc}
}

type createWorkEntryRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type updateWorkEntryRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

func (h *WorkEntryHandler) Create(c *gin.Context) {
	var req createWorkEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	w, err := h.Entries.Create(c.Request.Context(), application.CreateWorkEntryCommand{UserID: req.UserID})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toWorkEntryDTO(w, h.Location), "Work entry created successfully", nil)
}

func (h *WorkEntryHandler) Close(c *gin.Context) {
	w, err := h.Entries.Close(c.Request.Context(), application.CloseWorkEntryCommand{UserID: c.Param("userId")})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWorkEntryDTO(w, h.Location), "Work entry closed successfully", nil)
}

func (h *WorkEntryHandler) Update(c *gin.Context) {
	var req updateWorkEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Entries.Update(c.Request.Context(), application.UpdateWorkEntryCommand{
		UserID:      c.Param("userId"),
		WorkEntryID: c.Param("workEntryId"),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWorkEntryDTO(res.Entry, h.Location), "Work entry updated successfully", gin.H{"changed": len(res.Events) > 0})
}

func (h *WorkEntryHandler) Delete(c *gin.Context) {
	err := h.Entries.Delete(c.Request.Context(), application.DeleteWorkEntryCommand{
		UserID:      c.Param("userId"),
		WorkEntryID: c.Param("workEntryId"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Work entry deleted successfully", nil)
}

func (h *WorkEntryHandler) Get(c *gin.Context) {
	w, err := h.Entries.GetByID(c.Request.Context(), c.Param("userId"), c.Param("workEntryId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWorkEntryDTO(w, h.Location), "Work entry retrieved successfully", nil)
}

func (h *WorkEntryHandler) ListForUser(c *gin.Context) {
	entries, err := h.Entries.ListForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := toWorkEntryDTOs(entries, h.Location)
	response.Success(c, http.StatusOK, out, "Work entries retrieved successfully", gin.H{"count": len(out)})
}

func (h *WorkEntryHandler) ListLogs(c *gin.Context) {
	logs, err := h.Logs.ListWorkEntryLogs(c.Request.Context(), c.Param("userId"), c.Param("workEntryId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toWorkEntryLogDTOs(logs, h.Location), "Work entry logs retrieved successfully", nil)
}

// SearchLogs accepts work_entry_id, from, to (ISO-8601) and size query parameters.
func (h *WorkEntryHandler) SearchLogs(c *gin.Context) {
	q := application.LogSearchQuery{WorkEntryID: c.Query("work_entry_id")}
	details := map[string]string{}
	if v := c.Query("from"); v != "" {
		t, err := helpers.ParseISO8601(v, h.Location)
		if err != nil {
			details["from"] = "must be a valid ISO-8601 date"
		} else {
			q.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		t, err := helpers.ParseISO8601(v, h.Location)
		if err != nil {
			details["to"] = "must be a valid ISO-8601 date"
		} else {
			q.To = &t
		}
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["size"] = "must be numeric"
		}
		q.Size = n
	}
	if len(details) > 0 {
		writeError(c, h.Logger, domain.NewValidationError(details))
		return
	}

	logs, err := h.Logs.SearchWorkEntryLogs(c.Request.Context(), c.Param("userId"), q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := toWorkEntryLogDTOs(logs, h.Location)
	response.Success(c, http.StatusOK, out, "Work entry logs found", gin.H{"count": len(out)})
}
