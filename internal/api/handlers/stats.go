package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/internal/infrastructure/cache"
	"scamshield/pkg/logger"
)

const statsCacheTTL = time.Minute

// StatsHandler handles dashboard statistics endpoints
type StatsHandler struct {
	stats  *services.StatsService
	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats *services.StatsService, c *cache.RedisCache, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		cache:  c,
		logger: log.WithComponent("stats-handler"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.cache != nil {
		var cached models.Stats
		if err := h.cache.GetJSON(r.Context(), cache.KeyStats, &cached); err == nil {
			json.NewEncoder(w).Encode(cached)
			return
		}
	}

	stats, err := h.stats.Compute(r.Context(), time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute stats")
		http.Error(w, `{"error":"failed to compute stats"}`, http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), cache.KeyStats, stats, statsCacheTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache stats")
		}
	}

	json.NewEncoder(w).Encode(stats)
}
