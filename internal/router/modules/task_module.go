package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SubashG45/Task-Management/internal/container"
	handlers "github.com/SubashG45/Task-Management/internal/interface/http"
	"github.com/SubashG45/Task-Management/internal/interface/middleware"
	"github.com/SubashG45/Task-Management/pkg/helpers"
)

// TaskModule wires the task routes. Everything here sits behind the bearer
// auth middleware; no task operation is reachable without a verified
// identity.
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(middleware.Auth(m.JWT))
	tasks.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		tasks.POST("", m.Handler.Create)
		tasks.GET("", m.Handler.List)
		tasks.GET("/export/csv", m.Handler.ExportCSV)
		tasks.GET("/search", m.Handler.Search)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.PATCH("/:id/status", m.Handler.UpdateStatus)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
