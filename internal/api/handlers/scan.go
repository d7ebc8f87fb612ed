package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"scamshield/internal/domain/services"
	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

// ScanHandler handles risk scan requests
type ScanHandler struct {
	engine   *services.Engine
	eventBus *streaming.EventBus
	hub      *streaming.WebSocketHub
	logger   *logger.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(engine *services.Engine, eb *streaming.EventBus, hub *streaming.WebSocketHub, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		engine:   engine,
		eventBus: eb,
		hub:      hub,
		logger:   log.WithComponent("scan-handler"),
	}
}

// Scan handles GET /api/v1/scan?q=<value>
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, `{"error":"query parameter q is required"}`, http.StatusBadRequest)
		return
	}

	result := h.engine.Scan(r.Context(), query)

	event := streaming.NewScanEvent(result)
	if h.eventBus != nil {
		h.eventBus.Publish(r.Context(), event)
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(event)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
