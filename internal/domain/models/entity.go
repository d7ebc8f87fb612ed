package models

// EntityType classifies what kind of identifier was submitted for scanning.
type EntityType string

const (
	EntityUPIHandle   EntityType = "UPI_HANDLE"
	EntityPhone       EntityType = "PHONE"
	EntityURL         EntityType = "URL"
	EntityMessageText EntityType = "MESSAGE_TEXT"
	EntityOther       EntityType = "OTHER"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityUPIHandle, EntityPhone, EntityURL, EntityMessageText, EntityOther:
		return true
	}
	return false
}

// RiskLevel is the coarse verdict derived from a numeric risk score.
type RiskLevel string

const (
	LevelSafe     RiskLevel = "SAFE"
	LevelCaution  RiskLevel = "CAUTION"
	LevelCritical RiskLevel = "CRITICAL"
)

// LevelForScore maps a 0-100 risk score onto a risk level.
// Scores up to 30 are SAFE, 31-70 CAUTION, above 70 CRITICAL.
func LevelForScore(score int) RiskLevel {
	switch {
	case score > 70:
		return LevelCritical
	case score > 30:
		return LevelCaution
	default:
		return LevelSafe
	}
}

// ExtractedEntities holds identifiers pulled out of free-form message text.
type ExtractedEntities struct {
	Phones []string `json:"phones"`
	UPIs   []string `json:"upis"`
	URLs   []string `json:"urls"`
}

// Classification is the output of the text classifier for a piece of input.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
