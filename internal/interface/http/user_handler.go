package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-worktime/internal/application"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/pkg/response"
	"github.com/oksasatya/go-ddd-worktime/pkg/validation"
)

// UserUseCases is implemented by application.UserService.
type UserUseCases interface {
	CreateUser(ctx context.Context, cmd application.CreateUserCommand) (*entity.User, error)
	GetUsers(ctx context.Context) ([]*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*application.UserView, error)
	GetTodayWorkHours(ctx context.Context, userID string) (int64, error)
}

// TimesheetExporter is implemented by application.TimesheetService.
type TimesheetExporter interface {
	Export(ctx context.Context, userID string) (string, error)
}

type UserHandler struct {
	Users     UserUseCases
	Timesheet TimesheetExporter
	Logger    *logrus.Logger
	Location  *time.Location
}

func NewUserHandler(users UserUseCases, timesheet TimesheetExporter, logger *logrus.Logger, loc *time.Location) *UserHandler {
	return &UserHandler{Users: users, Timesheet: timesheet, Logger: logger, Location: loc}
}

type createUserRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.CreateUser(c.Request.Context(), application.CreateUserCommand{Name: req.Name})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, userListItemDTO{ID: u.ID, Name: u.Name}, "User created successfully", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.GetUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]userListItemDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userListItemDTO{ID: u.ID, Name: u.Name})
	}
	response.Success(c, http.StatusOK, out, "Users retrieved successfully", gin.H{"count": len(out)})
}

func (h *UserHandler) Get(c *gin.Context) {
	v, err := h.Users.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserDTO(v, h.Location), "User retrieved successfully", nil)
}

func (h *UserHandler) TodayWorkHours(c *gin.Context) {
	secs, err := h.Users.GetTodayWorkHours(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"totalTime": secs}, "Today's work time retrieved successfully", nil)
}

func (h *UserHandler) ExportTimesheet(c *gin.Context) {
	url, err := h.Timesheet.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "Timesheet exported successfully", nil)
}
