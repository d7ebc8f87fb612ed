package models

import (
	"strings"
	"time"
)

// ReportStatus tracks the moderation state of a community report.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportVerified ReportStatus = "verified"
	ReportRejected ReportStatus = "rejected"
)

// Report is a community-submitted fraud report against an identifier.
//
// CreatedAt is kept as the raw string stored by whichever client wrote it;
// timestamps from older clients vary in format, so parsing is deferred to
// ParseReportTime and failures are tolerated at the point of use.
type Report struct {
	ID           int64        `json:"id"`
	Identifier   string       `json:"identifier"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	EvidenceURLs []string     `json:"evidence_urls,omitempty"`
	CreatedAt    string       `json:"created_at"`
	Status       ReportStatus `json:"status"`
}

// ReportSubmission is the payload accepted when filing a new report.
// EntityType is the reporter's claim about what the identifier is; it is
// checked against structural detection before the report is stored.
type ReportSubmission struct {
	Identifier   string     `json:"identifier"`
	EntityType   EntityType `json:"entity_type"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	EvidenceURLs []string   `json:"evidence_urls,omitempty"`
}

// ParseReportTime parses a stored report timestamp. It accepts RFC 3339 as
// well as the looser ISO-8601 shapes found in existing rows: a trailing "Z"
// on an otherwise zoneless timestamp, and fractional seconds, which are
// discarded.
func ParseReportTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	s = strings.TrimSuffix(s, "Z")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
