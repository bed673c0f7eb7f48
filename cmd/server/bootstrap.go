package main

import (
	"github.com/dzhou/taskboard/internal/config"
	"github.com/dzhou/taskboard/internal/handlers"
	"github.com/dzhou/taskboard/internal/models"
	"github.com/dzhou/taskboard/internal/utils"
	"github.com/dzhou/taskboard/pkg/logger"
)

// appServices holds the initialized handlers needed by the route table.
type appServices struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	projectHandler *handlers.ProjectHandler
	memberHandler  *handlers.ProjectMemberHandler
	taskHandler    *handlers.TaskHandler
	healthHandler  *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database and handlers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()
	return &appServices{
		authHandler:    handlers.NewAuthHandler(db, cfg),
		userHandler:    handlers.NewUserHandler(db),
		projectHandler: handlers.NewProjectHandler(db),
		memberHandler:  handlers.NewProjectMemberHandler(db),
		taskHandler:    handlers.NewTaskHandler(db),
		healthHandler:  handlers.NewHealthHandler(),
	}
}
