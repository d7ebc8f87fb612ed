package services

import (
	"net"
	"net/url"
	"strings"

	"scamshield/internal/config"
	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// HeuristicSignal is the outcome of rule-based analysis for one identifier.
type HeuristicSignal struct {
	Impact  int
	Reasons []string
}

// Heuristics evaluates type-specific fraud indicators against an identifier.
type Heuristics struct {
	config config.ScoringConfig
	logger *logger.Logger
}

// NewHeuristics creates a new Heuristics analyzer
func NewHeuristics(cfg config.ScoringConfig, log *logger.Logger) *Heuristics {
	return &Heuristics{
		config: cfg,
		logger: log.WithComponent("heuristics"),
	}
}

// Analyze runs the heuristics matching the entity type. The impact is
// already clamped to [0, 100].
func (h *Heuristics) Analyze(value string, entityType models.EntityType) HeuristicSignal {
	switch entityType {
	case models.EntityPhone:
		return h.analyzePhone(value)
	case models.EntityURL:
		return h.analyzeURL(value)
	case models.EntityUPIHandle:
		return h.analyzeUPI(value)
	}
	return HeuristicSignal{Reasons: []string{}}
}

func (h *Heuristics) analyzePhone(value string) HeuristicSignal {
	signal := HeuristicSignal{Reasons: []string{}}
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, value)

	// Country prefixes are checked longest-first so +880 wins over +88.
	if strings.HasPrefix(cleaned, "+") {
		best, prefix := 0, ""
		for p, impact := range h.config.RiskyPhonePrefixes {
			if strings.HasPrefix(cleaned, p) && len(p) > len(prefix) {
				best, prefix = impact, p
			}
		}
		switch {
		case prefix != "":
			signal.Impact = best
			signal.Reasons = append(signal.Reasons, "High-risk country prefix "+prefix)
		case h.config.DomesticPrefix != "" && !strings.HasPrefix(cleaned, h.config.DomesticPrefix):
			signal.Impact = 60
			signal.Reasons = append(signal.Reasons, "Unexpected international number")
		}
	}

	if hasRepeatedDigitRun(cleaned, 6) {
		if signal.Impact < 40 {
			signal.Impact = 40
		}
		signal.Reasons = append(signal.Reasons, "Suspicious repeated digit pattern")
	}

	return signal
}

func (h *Heuristics) analyzeURL(value string) HeuristicSignal {
	signal := HeuristicSignal{Reasons: []string{}}

	host := hostOf(value)
	for _, domain := range h.config.ShortenerDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			signal.Impact += 20
			signal.Reasons = append(signal.Reasons, "Shortened URL hides the real destination")
			break
		}
	}

	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		signal.Impact += 50
		signal.Reasons = append(signal.Reasons, "URL points to a raw IP address")
	}

	if signal.Impact > 100 {
		signal.Impact = 100
	}
	return signal
}

func (h *Heuristics) analyzeUPI(value string) HeuristicSignal {
	signal := HeuristicSignal{Reasons: []string{}}

	// Very short handles are often throwaway mule accounts. Informational
	// only; community reports decide the score for UPI handles.
	if at := strings.IndexByte(value, '@'); at > 0 && at < 3 {
		signal.Reasons = append(signal.Reasons, "Unusually short UPI handle")
	}

	return signal
}

// hasRepeatedDigitRun reports whether s contains a run of n or more
// identical consecutive digits.
func hasRepeatedDigitRun(s string, n int) bool {
	run := 0
	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			run = 0
			prev = 0
			continue
		}
		if c == prev {
			run++
		} else {
			run = 1
			prev = c
		}
		if run >= n {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	s := rawURL
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		// Fall back to slicing up to the first path separator.
		s = strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		return strings.ToLower(s)
	}
	return strings.ToLower(u.Hostname())
}
