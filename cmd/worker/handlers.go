package main

import (
	"github.com/hibiken/asynq"

	"cms-backend/internal/infrastructure/queue/handlers"
	"cms-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	entityCreated *handlers.EntityCreatedHandler
}

func initializeHandlers(cfg *Config) *HandlerRegistry {
	return &HandlerRegistry{
		entityCreated: handlers.NewEntityCreatedHandler(cfg.SlackWebhook),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeEntityCreated, h.entityCreated.ProcessTask)
}
