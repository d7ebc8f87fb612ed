package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scamshield/internal/config"
	"scamshield/internal/domain/models"
	"scamshield/internal/domain/services/ai"
	"scamshield/pkg/logger"
)

// Score combination constants. The ladder values are part of the scoring
// contract; the tunable keyword and prefix data lives in config.
const (
	reportWeight       = 20
	communityCap       = 70
	communityFloorOver = 80
	keywordWeight      = 20
	keywordCap         = 40
	classifierCap      = 60
	contextBoost       = 30
	overrideThreshold  = 90
)

// ReportStore is the persistence collaborator the engine reads reports from.
type ReportStore interface {
	FindByIdentifier(ctx context.Context, identifier string) ([]models.Report, error)
}

// TextClassifier is the external model collaborator.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (*models.Classification, error)
}

// ScanCache caches finished scan results keyed by normalized-input hash.
type ScanCache interface {
	GetScan(ctx context.Context, key string) (*models.RiskScore, bool)
	SetScan(ctx context.Context, key string, score *models.RiskScore)
}

// Engine runs the full risk assessment pipeline for one input.
type Engine struct {
	normalizer *Normalizer
	detector   *Detector
	heuristics *Heuristics
	store      ReportStore
	classifier TextClassifier
	cache      ScanCache
	config     config.ScoringConfig
	logger     *logger.Logger
}

// NewEngine creates a new scoring engine. The store, classifier and cache may
// be nil; the engine degrades to neutral signals for missing collaborators.
func NewEngine(
	cfg config.ScoringConfig,
	store ReportStore,
	classifier TextClassifier,
	cache ScanCache,
	log *logger.Logger,
) *Engine {
	return &Engine{
		normalizer: NewNormalizer(log),
		detector:   NewDetector(log),
		heuristics: NewHeuristics(cfg, log),
		store:      store,
		classifier: classifier,
		cache:      cache,
		config:     cfg,
		logger:     log.WithComponent("engine"),
	}
}

// Scan assesses raw input and always returns a result. Collaborator failures
// are logged and treated as absent signals.
func (e *Engine) Scan(ctx context.Context, raw string) *models.RiskScore {
	normalized := e.normalizer.Normalize(raw)
	cacheKey := scanCacheKey(normalized)

	if e.cache != nil {
		if cached, ok := e.cache.GetScan(ctx, cacheKey); ok {
			return cached
		}
	}

	entityType := e.detector.DetectType(normalized)
	entities := e.detector.ExtractEntities(normalized)
	reports := e.fetchReports(ctx, normalized)

	// Community volume, raw and capped. The raw value survives because a
	// confirmed volume above 80 floors the final sum later.
	communityRaw := min(len(reports)*reportWeight, 100)
	community := min(communityRaw, communityCap)

	signal := e.heuristics.Analyze(normalized, entityType)

	lower := strings.ToLower(normalized)
	matched := e.matchKeywords(lower)
	keywordScore := min(len(matched)*keywordWeight, keywordCap)

	contribution, rawClassifierScore := e.classify(ctx, normalized, entityType)

	boostReasons := e.contextBoosts(lower, entities)
	boostScore := len(boostReasons) * contextBoost

	var final int
	if signal.Impact >= overrideThreshold {
		final = signal.Impact
	} else {
		final = community + signal.Impact + keywordScore + contribution + boostScore
		if communityRaw > communityFloorOver && final < communityFloorOver {
			final = communityFloorOver
		}
	}
	final = clampScore(final)

	reasons := e.buildReasons(signal, boostReasons, matched, len(reports), contribution, final)
	confidence := e.confidence(len(reports), signal.Impact, rawClassifierScore, len(boostReasons) > 0)

	result := &models.RiskScore{
		ScanID:          uuid.New().String(),
		Value:           normalized,
		EntityType:      entityType,
		RiskScore:       final,
		Level:           models.LevelForScore(final),
		ReportCount:     len(reports),
		LastReportedAt:  latestReportTime(reports),
		Reports:         reports,
		ConfidenceScore: confidence,
		Reasons:         reasons,
		ActionAdvice:    e.advice(final, entityType),
	}
	if entityType == models.EntityMessageText {
		result.Entities = &entities
	}

	if e.cache != nil {
		e.cache.SetScan(ctx, cacheKey, result)
	}

	e.logger.Info().
		Str("scan_id", result.ScanID).
		Str("entity_type", string(entityType)).
		Int("risk_score", final).
		Str("level", string(result.Level)).
		Int("report_count", len(reports)).
		Msg("Scan completed")

	return result
}

func (e *Engine) fetchReports(ctx context.Context, identifier string) []models.Report {
	if e.store == nil || identifier == "" {
		return []models.Report{}
	}
	reports, err := e.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Report lookup failed, scoring without community signal")
		return []models.Report{}
	}
	return reports
}

// classify returns the capped contribution and the uncapped model score,
// which feeds the confidence ladder.
func (e *Engine) classify(ctx context.Context, text string, entityType models.EntityType) (int, float64) {
	if e.classifier == nil {
		return 0, 0
	}
	if len(text) <= 10 && entityType != models.EntityMessageText {
		return 0, 0
	}

	cls, err := e.classifier.Classify(ctx, text)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Classifier unavailable, scoring without model signal")
		return 0, 0
	}
	if !ai.IsFraudLabel(cls.Label) {
		return 0, 0
	}

	score := cls.Confidence * 100
	return min(int(score), classifierCap), score
}

func (e *Engine) matchKeywords(lower string) []string {
	var matched []string
	for _, kw := range e.config.DangerousKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func (e *Engine) contextBoosts(lower string, entities models.ExtractedEntities) []string {
	var reasons []string
	if len(entities.Phones) > 0 && containsAny(lower, e.config.CredentialKeywords) {
		reasons = append(reasons, "Phone number combined with OTP/PIN request")
	}
	if len(entities.URLs) > 0 && containsAny(lower, e.config.UrgencyKeywords) {
		reasons = append(reasons, "Link combined with urgency pressure")
	}
	return reasons
}

func (e *Engine) buildReasons(
	signal HeuristicSignal,
	boosts []string,
	matched []string,
	reportCount int,
	contribution int,
	final int,
) []string {
	seen := make(map[string]bool)
	reasons := []string{}
	add := func(r string) {
		if r != "" && !seen[r] {
			seen[r] = true
			reasons = append(reasons, r)
		}
	}

	for _, r := range signal.Reasons {
		add(r)
	}
	for _, r := range boosts {
		add(r)
	}
	if reportCount > 0 {
		add(fmt.Sprintf("Flagged by %d community report(s)", reportCount))
	}
	if contribution > 40 {
		add("AI model detected scam intent")
	}
	if len(matched) > 0 {
		shown := matched
		if len(shown) > 3 {
			shown = shown[:3]
		}
		add("Contains suspicious keywords: " + strings.Join(shown, ", "))
	}

	if len(reasons) == 0 && final < 30 {
		add("No significant threats detected")
	}
	return reasons
}

func (e *Engine) confidence(reportCount, heuristicImpact int, rawClassifierScore float64, boosted bool) int {
	switch {
	case reportCount > 2 || heuristicImpact > 80:
		return 95
	case rawClassifierScore > 90:
		return 85
	case boosted:
		return 80
	default:
		return 60
	}
}

func (e *Engine) advice(score int, entityType models.EntityType) string {
	switch {
	case score > 70:
		if entityType == models.EntityUPIHandle {
			return "Do not send money to this UPI handle. Block the contact and report it to your bank and the cybercrime portal."
		}
		return "Block this contact and do not respond. Report it to the authorities."
	case score > 30:
		return "Proceed with caution. Verify the identity through an independent channel before sharing information or money."
	default:
		return "No strong fraud signals found. Stay alert for requests involving money or personal details."
	}
}

func latestReportTime(reports []models.Report) string {
	var latest time.Time
	for _, r := range reports {
		if t, ok := models.ParseReportTime(r.CreatedAt); ok && t.After(latest) {
			latest = t
		}
	}
	if latest.IsZero() {
		return ""
	}
	return latest.UTC().Format(time.RFC3339)
}

func scanCacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
