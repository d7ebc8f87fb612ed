package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/internal/infrastructure/database/repository"
	"scamshield/internal/streaming"
	"scamshield/pkg/logger"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Report categories accepted from clients.
var validCategories = map[string]bool{
	"phishing":   true,
	"upi_fraud":  true,
	"fake_offer": true,
	"extortion":  true,
	"identity":   true,
	"other":      true,
}

// ReportsHandler handles community report endpoints
type ReportsHandler struct {
	reports  *repository.ReportRepository
	detector *services.Detector
	eventBus *streaming.EventBus
	hub      *streaming.WebSocketHub
	logger   *logger.Logger
}

// NewReportsHandler creates a new ReportsHandler
func NewReportsHandler(reports *repository.ReportRepository, eb *streaming.EventBus, hub *streaming.WebSocketHub, log *logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports:  reports,
		detector: services.NewDetector(log),
		eventBus: eb,
		hub:      hub,
		logger:   log.WithComponent("reports-handler"),
	}
}

// Create handles POST /api/v1/reports
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var sub models.ReportSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	sub.Identifier = strings.TrimSpace(sub.Identifier)
	sub.Category = strings.ToLower(strings.TrimSpace(sub.Category))
	if sub.Identifier == "" {
		http.Error(w, `{"error":"identifier is required"}`, http.StatusBadRequest)
		return
	}
	if !validCategories[sub.Category] {
		http.Error(w, `{"error":"unknown category"}`, http.StatusBadRequest)
		return
	}
	if sub.EntityType != "" && !h.validateEntityType(sub.EntityType, sub.Identifier, w) {
		return
	}

	if h.reports == nil {
		http.Error(w, `{"error":"report storage unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	report, err := h.reports.Create(r.Context(), sub)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to store report")
		http.Error(w, `{"error":"failed to store report"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Int64("report_id", report.ID).
		Str("category", report.Category).
		Msg("report created")

	event := streaming.NewReportEvent(report)
	if h.eventBus != nil {
		h.eventBus.Publish(r.Context(), event)
	}
	if h.hub != nil {
		h.hub.BroadcastEvent(event)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(report)
}

// validateEntityType checks the reporter's claimed entity type against
// structural detection of the identifier. MESSAGE_TEXT and OTHER carry no
// structure to check and always pass. Writes a 400 and returns false on
// failure.
func (h *ReportsHandler) validateEntityType(claimed models.EntityType, identifier string, w http.ResponseWriter) bool {
	if !claimed.Valid() {
		http.Error(w, `{"error":"unknown entity type"}`, http.StatusBadRequest)
		return false
	}
	if claimed == models.EntityMessageText || claimed == models.EntityOther {
		return true
	}
	if detected := h.detector.DetectType(identifier); detected != claimed {
		h.logger.Debug().
			Str("claimed", string(claimed)).
			Str("detected", string(detected)).
			Msg("entity type mismatch on report submission")
		http.Error(w, `{"error":"identifier does not match the claimed entity type"}`, http.StatusBadRequest)
		return false
	}
	return true
}

// Recent handles GET /api/v1/reports/recent?limit=<n>
func (h *ReportsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		http.Error(w, `{"error":"report storage unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, `{"error":"limit must be a positive integer"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	reports, err := h.reports.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent reports")
		http.Error(w, `{"error":"failed to list reports"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reports)
}
