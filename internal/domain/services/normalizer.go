package services

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scamshield/pkg/logger"
)

// maxNormalizePasses bounds the fixpoint loop so layered encodings like
// %2520, or NFKC folds that reveal fresh percent signs, cannot loop forever.
const maxNormalizePasses = 5

// Normalizer canonicalizes raw scan input before detection and scoring.
type Normalizer struct {
	logger *logger.Logger
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{
		logger: log.WithComponent("normalizer"),
	}
}

// Normalize returns the canonical form of raw input. The result is a fixed
// point: normalizing it again yields the same string.
func (n *Normalizer) Normalize(raw string) string {
	s := raw
	for i := 0; i < maxNormalizePasses; i++ {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizeOnce(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Fold homoglyphs and compatibility forms (fullwidth digits, ligatures).
	s = norm.NFKC.String(s)

	// Strip zero-width characters used to defeat keyword matching.
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		}
		return r
	}, s)

	// Peel one percent-encoding layer. PathUnescape is used instead of
	// QueryUnescape so that '+' survives in phone numbers.
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}

	return strings.TrimSpace(s)
}
