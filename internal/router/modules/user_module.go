package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ddd-worktime/internal/interface/http"
	"github.com/oksasatya/go-ddd-worktime/internal/interface/middleware"
)

// WriteLimit configures the per-IP limiter put in front of mutating routes.
type WriteLimit struct {
	Redis  *redis.Client
	Max    int
	Window time.Duration
}

func (w WriteLimit) handler(key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(w.Redis, w.Max, w.Window, key, middleware.AllowSafeMethods())
}

// UserModule wires user routes
// POST /api/users, GET /api/users, GET /api/user/:id,
// GET /api/work-entries/:userId/today, POST /api/users/:id/timesheet
type UserModule struct {
	Handler *handlers.UserHandler
	Limit   WriteLimit
}

func NewUserModule(h *handlers.UserHandler, limit WriteLimit) *UserModule {
	return &UserModule{Handler: h, Limit: limit}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	write := m.Limit.handler(middleware.KeyByIPAndPath())

	rg.POST("/users", write, m.Handler.Create)
	rg.GET("/users", m.Handler.List)
	rg.GET("/user/:id", m.Handler.Get)
	rg.GET("/work-entries/:userId/today", m.Handler.TodayWorkHours)
	rg.POST("/users/:id/timesheet", m.Limit.handler(middleware.KeyByIPAndParam("id")), m.Handler.ExportTimesheet)
}
