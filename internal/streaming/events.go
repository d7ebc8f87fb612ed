package streaming

import (
	"time"

	"github.com/google/uuid"

	"scamshield/internal/domain/models"
)

// EventType represents the type of live event
type EventType string

const (
	EventTypeReportCreated EventType = "report_created"
	EventTypeScanCompleted EventType = "scan_completed"
)

// Event is a real-time update pushed to dashboard clients.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Report details
	ReportID   int64  `json:"report_id,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Category   string `json:"category,omitempty"`

	// Scan details
	ScanID     string            `json:"scan_id,omitempty"`
	EntityType models.EntityType `json:"entity_type,omitempty"`
	RiskScore  int               `json:"risk_score,omitempty"`
	Level      models.RiskLevel  `json:"level,omitempty"`
}

// NewReportEvent creates an event for a freshly filed report. The free-text
// description stays out of the event; the ticker only needs the identifier
// and category.
func NewReportEvent(report *models.Report) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Type:       EventTypeReportCreated,
		Timestamp:  time.Now(),
		ReportID:   report.ID,
		Identifier: report.Identifier,
		Category:   report.Category,
	}
}

// NewScanEvent creates an event for a completed scan.
func NewScanEvent(score *models.RiskScore) *Event {
	return &Event{
		ID:         uuid.New().String(),
		Type:       EventTypeScanCompleted,
		Timestamp:  time.Now(),
		ScanID:     score.ScanID,
		EntityType: score.EntityType,
		RiskScore:  score.RiskScore,
		Level:      score.Level,
	}
}
