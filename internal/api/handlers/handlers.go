package handlers

import (
	"scamshield/internal/domain/services"
	"scamshield/internal/infrastructure/cache"
	"scamshield/internal/infrastructure/database/repository"
	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health  *HealthHandler
	Scan    *ScanHandler
	Reports *ReportsHandler
	Stats   *StatsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Engine   *services.Engine
	Stats    *services.StatsService
	Reports  *repository.ReportRepository
	Cache    *cache.RedisCache
	EventBus *streaming.EventBus
	Hub      *streaming.WebSocketHub
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Cache, deps.Reports, deps.Logger),
		Scan:    NewScanHandler(deps.Engine, deps.EventBus, deps.Hub, deps.Logger),
		Reports: NewReportsHandler(deps.Reports, deps.EventBus, deps.Hub, deps.Logger),
		Stats:   NewStatsHandler(deps.Stats, deps.Cache, deps.Logger),
	}
}
