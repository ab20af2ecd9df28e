package router

import (
	"github.com/SubashG45/Task-Management/internal/application"
	"github.com/SubashG45/Task-Management/internal/container"
	pginfra "github.com/SubashG45/Task-Management/internal/infrastructure/postgres"
	handlers "github.com/SubashG45/Task-Management/internal/interface/http"
	"github.com/SubashG45/Task-Management/internal/router/modules"
)

// InitModules wires repositories, services, and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(pool)
	taskRepo := pginfra.NewTaskRepository(pool)

	authSvc := application.NewAuthService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
	)
	taskSvc := application.NewTaskService(
		taskRepo,
		container.GetRedis(),
		logger,
		container.GetES(),
		cfg.ESTasksIndex,
		cfg.TaskCacheTTL,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT()))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), container.GetJWT()))
}
