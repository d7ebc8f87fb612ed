package services

import (
	"regexp"
	"strings"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

var (
	upiPattern     = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9\-\s]{10,16}$`)
	embeddedURL    = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)
	embeddedPhone  = regexp.MustCompile(`\+?[0-9][0-9\-\s]{8,14}[0-9]`)
	embeddedUPI    = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]{2,}`)
	nonPhoneDigits = regexp.MustCompile(`[\s\-]`)
)

// Detector classifies normalized input into an entity type and extracts
// identifiers embedded in free-form message text.
type Detector struct {
	logger *logger.Logger
}

// NewDetector creates a new Detector
func NewDetector(log *logger.Logger) *Detector {
	return &Detector{
		logger: log.WithComponent("detector"),
	}
}

// DetectType classifies a normalized value. Rules are applied in order and
// the first match wins: UPI handle, phone number, URL, and message text for
// everything else. Detection never yields OTHER; that value is reserved for
// caller-supplied categorization.
func (d *Detector) DetectType(value string) models.EntityType {
	if upiPattern.MatchString(value) {
		return models.EntityUPIHandle
	}
	if phonePattern.MatchString(value) {
		return models.EntityPhone
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "www.") {
		return models.EntityURL
	}
	return models.EntityMessageText
}

// ExtractEntities pulls phone numbers, UPI handles and URLs out of message
// text. URLs keep their order of appearance; phones and UPI handles are
// deduplicated.
func (d *Detector) ExtractEntities(text string) models.ExtractedEntities {
	entities := models.ExtractedEntities{
		Phones: []string{},
		UPIs:   []string{},
		URLs:   []string{},
	}

	urlSpans := embeddedURL.FindAllStringIndex(text, -1)
	for _, span := range urlSpans {
		entities.URLs = append(entities.URLs, text[span[0]:span[1]])
	}

	seenUPI := make(map[string]bool)
	for _, span := range embeddedUPI.FindAllStringIndex(text, -1) {
		// Skip handle matches that sit inside a URL captured above.
		if overlapsAny(span, urlSpans) {
			continue
		}
		candidate := text[span[0]:span[1]]
		if !seenUPI[candidate] {
			seenUPI[candidate] = true
			entities.UPIs = append(entities.UPIs, candidate)
		}
	}

	seenPhone := make(map[string]bool)
	for _, candidate := range embeddedPhone.FindAllString(text, -1) {
		cleaned := nonPhoneDigits.ReplaceAllString(candidate, "")
		digits := strings.TrimPrefix(cleaned, "+")
		if len(digits) < 10 {
			continue
		}
		if !seenPhone[cleaned] {
			seenPhone[cleaned] = true
			entities.Phones = append(entities.Phones, cleaned)
		}
	}

	return entities
}

func overlapsAny(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] < s[1] && s[0] < span[1] {
			return true
		}
	}
	return false
}
