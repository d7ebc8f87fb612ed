package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"scamshield/internal/config"
	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services"
	"scamshield/pkg/logger"
)

func newScanHandler() *ScanHandler {
	engine := services.NewEngine(config.DefaultScoring(), nil, nil, nil, logger.NewDefault())
	return NewScanHandler(engine, nil, nil, logger.NewDefault())
}

func TestScanMissingQuery(t *testing.T) {
	h := newScanHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan", nil)
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestScanReturnsRiskScore(t *testing.T) {
	h := newScanHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan?q=%2B923001234567", nil)
	rec := httptest.NewRecorder()
	h.Scan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got models.RiskScore
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.ScanID == "" {
		t.Error("scan_id missing")
	}
	if got.EntityType != models.EntityPhone {
		t.Errorf("entity_type = %s, want PHONE", got.EntityType)
	}
	if got.Level != models.LevelCritical {
		t.Errorf("level = %s, want CRITICAL", got.Level)
	}
}
