package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-worktime/internal/interface/http"
	"github.com/oksasatya/go-ddd-worktime/internal/interface/middleware"
)

// WorkEntryModule wires work entry and audit log routes under /api.
type WorkEntryModule struct {
	Handler *handlers.WorkEntryHandler
	Limit   WriteLimit
}

func NewWorkEntryModule(h *handlers.WorkEntryHandler, limit WriteLimit) *WorkEntryModule {
	return &WorkEntryModule{Handler: h, Limit: limit}
}

func (m *WorkEntryModule) Register(rg *gin.RouterGroup) {
	perUser := m.Limit.handler(middleware.KeyByIPAndParam("userId"))

	rg.POST("/work-entry", m.Limit.handler(middleware.KeyByIPAndPath()), m.Handler.Create)
	rg.GET("/work-entry/close/:userId", m.Handler.Close)
	rg.GET("/work-entry/:userId/:workEntryId", m.Handler.Get)
	rg.PUT("/work-entry/:userId/:workEntryId", perUser, m.Handler.Update)
	rg.DELETE("/work-entry/delete/:userId/:workEntryId", perUser, m.Handler.Delete)
	rg.GET("/work-entry/:userId/:workEntryId/logs", m.Handler.ListLogs)
	rg.GET("/work-entries/:userId", m.Handler.ListForUser)
	rg.GET("/work-entry-logs/:userId/search", m.Handler.SearchLogs)
}
