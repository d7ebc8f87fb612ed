package models

// RiskScore is the full assessment returned by a scan.
type RiskScore struct {
	ScanID          string             `json:"scan_id"`
	Value           string             `json:"value"`
	EntityType      EntityType         `json:"entity_type"`
	RiskScore       int                `json:"risk_score"`
	Level           RiskLevel          `json:"level"`
	ReportCount     int                `json:"report_count"`
	LastReportedAt  string             `json:"last_reported_at,omitempty"`
	Reports         []Report           `json:"reports"`
	ConfidenceScore int                `json:"confidence_score"`
	Reasons         []string           `json:"reasons"`
	ActionAdvice    string             `json:"action_advice"`
	Entities        *ExtractedEntities `json:"extracted_entities,omitempty"`
}

// Stats is the aggregate view served by the stats endpoint.
type Stats struct {
	TotalReports int            `json:"total_reports"`
	Categories   map[string]int `json:"categories"`
	Trend        []TrendPoint   `json:"trend"`
}

// TrendPoint is a single day in the report-volume trend.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
