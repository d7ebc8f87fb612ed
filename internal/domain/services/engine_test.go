package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"scamshield/internal/config"
	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

type stubStore struct {
	reports []models.Report
	err     error
}

func (s *stubStore) FindByIdentifier(ctx context.Context, identifier string) ([]models.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reports, nil
}

type stubClassifier struct {
	label      string
	confidence float64
	err        error
	calls      int
}

func (c *stubClassifier) Classify(ctx context.Context, text string) (*models.Classification, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &models.Classification{Label: c.label, Confidence: c.confidence}, nil
}

func newTestEngine(store ReportStore, classifier TextClassifier) *Engine {
	return NewEngine(config.DefaultScoring(), store, classifier, nil, logger.NewDefault())
}

func canned(n int) []models.Report {
	reports := make([]models.Report, n)
	for i := range reports {
		reports[i] = models.Report{
			ID:         int64(i + 1),
			Identifier: "scammer@ybl",
			Category:   "upi_fraud",
			CreatedAt:  fmt.Sprintf("2026-08-%02dT10:00:00Z", i+1),
			Status:     models.ReportPending,
		}
	}
	return reports
}

func TestScanHighRiskPrefixPhone(t *testing.T) {
	// Zero reports, classifier unavailable.
	e := newTestEngine(&stubStore{}, &stubClassifier{err: errors.New("unavailable")})

	got := e.Scan(context.Background(), "+923001234567")

	if got.RiskScore != 100 {
		t.Errorf("risk_score = %d, want 100", got.RiskScore)
	}
	if got.Level != models.LevelCritical {
		t.Errorf("level = %s, want CRITICAL", got.Level)
	}
	if !hasReason(got.Reasons, "High-risk country") {
		t.Errorf("reasons = %v, want high-risk country reason", got.Reasons)
	}
	if !strings.Contains(got.ActionAdvice, "Block") {
		t.Errorf("action_advice = %q, want blocking advice", got.ActionAdvice)
	}
	if got.ConfidenceScore != 95 {
		t.Errorf("confidence_score = %d, want 95", got.ConfidenceScore)
	}
}

func TestScanBenignMessage(t *testing.T) {
	e := newTestEngine(&stubStore{}, &stubClassifier{label: "LABEL_0", confidence: 0.99})

	got := e.Scan(context.Background(), "Hey mom, buying milk")

	if got.Level != models.LevelSafe {
		t.Errorf("level = %s, want SAFE", got.Level)
	}
	if !hasReason(got.Reasons, "No significant threats detected") {
		t.Errorf("reasons = %v, want no-threats reason", got.Reasons)
	}
	if got.EntityType != models.EntityMessageText {
		t.Errorf("entity_type = %s, want MESSAGE_TEXT", got.EntityType)
	}
	if got.ConfidenceScore != 60 {
		t.Errorf("confidence_score = %d, want 60", got.ConfidenceScore)
	}
}

func TestScanPhoneWithOTPBoost(t *testing.T) {
	e := newTestEngine(&stubStore{}, nil)

	got := e.Scan(context.Background(), "Share your OTP with 9876543210 right away")

	if !hasReason(got.Reasons, "OTP/PIN") {
		t.Errorf("reasons = %v, want phone+OTP boost reason", got.Reasons)
	}
	if got.RiskScore < 30 {
		t.Errorf("risk_score = %d, want boost contribution of at least 30", got.RiskScore)
	}
	if got.ConfidenceScore != 80 {
		t.Errorf("confidence_score = %d, want 80 when only a boost fired", got.ConfidenceScore)
	}
}

func TestScanRawIPURL(t *testing.T) {
	e := newTestEngine(&stubStore{}, nil)

	got := e.Scan(context.Background(), "http://192.168.1.1/login")

	if !hasReason(got.Reasons, "raw IP") {
		t.Errorf("reasons = %v, want raw-IP reason", got.Reasons)
	}
	if got.RiskScore != 50 {
		t.Errorf("risk_score = %d, want 50", got.RiskScore)
	}
	if got.Level != models.LevelCaution {
		t.Errorf("level = %s, want CAUTION", got.Level)
	}
}

func TestScanHeuristicOverrideIgnoresCommunity(t *testing.T) {
	// 4 reports alone would add 70 capped, but a 100-impact heuristic
	// bypasses the sum entirely.
	e := newTestEngine(&stubStore{reports: canned(4)}, nil)

	got := e.Scan(context.Background(), "+923001234567")

	if got.RiskScore != 100 {
		t.Errorf("risk_score = %d, want 100", got.RiskScore)
	}
}

func TestScanCommunityFloor(t *testing.T) {
	// 5 reports: raw community 100, capped 70. The raw value floors the
	// final score at 80 even with no other signals.
	e := newTestEngine(&stubStore{reports: canned(5)}, nil)

	got := e.Scan(context.Background(), "scammer@ybl")

	if got.RiskScore < 80 {
		t.Errorf("risk_score = %d, want at least 80", got.RiskScore)
	}
	if got.ReportCount != 5 {
		t.Errorf("report_count = %d, want 5", got.ReportCount)
	}
	if got.LastReportedAt != "2026-08-05T10:00:00Z" {
		t.Errorf("last_reported_at = %q, want 2026-08-05T10:00:00Z", got.LastReportedAt)
	}
	if got.ConfidenceScore != 95 {
		t.Errorf("confidence_score = %d, want 95 with more than 2 reports", got.ConfidenceScore)
	}
	if !hasReason(got.Reasons, "community report") {
		t.Errorf("reasons = %v, want community reason", got.Reasons)
	}
}

func TestScanCommunityCappedInSum(t *testing.T) {
	// 3 reports: raw 60, below the floor trigger; capped contribution 60.
	e := newTestEngine(&stubStore{reports: canned(3)}, nil)

	got := e.Scan(context.Background(), "scammer@ybl")

	if got.RiskScore != 60 {
		t.Errorf("risk_score = %d, want 60", got.RiskScore)
	}
}

func TestScanClassifierContribution(t *testing.T) {
	cls := &stubClassifier{label: "SCAM", confidence: 0.95}
	e := newTestEngine(&stubStore{}, cls)

	got := e.Scan(context.Background(), "You have won a free prize, claim now")

	// min(0.95*100, 60) = 60 from the classifier, plus keyword matches.
	if got.RiskScore < 60 {
		t.Errorf("risk_score = %d, want at least 60", got.RiskScore)
	}
	if !hasReason(got.Reasons, "AI model") {
		t.Errorf("reasons = %v, want AI reason", got.Reasons)
	}
	if got.ConfidenceScore != 85 {
		t.Errorf("confidence_score = %d, want 85 on a strong model signal", got.ConfidenceScore)
	}
}

func TestScanClassifierRunsForShortMessageText(t *testing.T) {
	cls := &stubClassifier{label: "SCAM", confidence: 0.99}
	e := newTestEngine(&stubStore{}, cls)

	got := e.Scan(context.Background(), "freegift")

	if got.EntityType != models.EntityMessageText {
		t.Errorf("entity_type = %s, want %s", got.EntityType, models.EntityMessageText)
	}
	if cls.calls != 1 {
		t.Errorf("classifier called %d times for short message text, want 1", cls.calls)
	}
	if got.RiskScore != 60 {
		t.Errorf("risk_score = %d, want 60", got.RiskScore)
	}
}

func TestScanClassifierSkippedForShortStructuredInput(t *testing.T) {
	cls := &stubClassifier{label: "SCAM", confidence: 0.99}
	e := newTestEngine(&stubStore{}, cls)

	e.Scan(context.Background(), "9876543210")

	if cls.calls != 0 {
		t.Errorf("classifier called %d times for a ten-digit phone, want 0", cls.calls)
	}
}

func TestScanBenignLabelContributesNothing(t *testing.T) {
	cls := &stubClassifier{label: "LABEL_0", confidence: 0.99}
	e := newTestEngine(&stubStore{}, cls)

	got := e.Scan(context.Background(), "a perfectly ordinary sentence here")

	if got.RiskScore != 0 {
		t.Errorf("risk_score = %d, want 0", got.RiskScore)
	}
}

func TestScanKeywordSignalCapped(t *testing.T) {
	e := newTestEngine(&stubStore{}, nil)

	// Four keyword hits would be 80 uncapped; the keyword signal caps at 40.
	got := e.Scan(context.Background(), "winner of the lottery, urgent kyc needed")

	if got.RiskScore != 40 {
		t.Errorf("risk_score = %d, want 40", got.RiskScore)
	}
	if !hasReason(got.Reasons, "suspicious keywords") {
		t.Errorf("reasons = %v, want keyword reason", got.Reasons)
	}
}

func TestScanDeterministic(t *testing.T) {
	e := newTestEngine(&stubStore{reports: canned(2)}, nil)

	first := e.Scan(context.Background(), "scammer@ybl")
	second := e.Scan(context.Background(), "scammer@ybl")

	if first.RiskScore != second.RiskScore ||
		first.Level != second.Level ||
		first.ConfidenceScore != second.ConfidenceScore {
		t.Errorf("repeated scans differ: %+v vs %+v", first, second)
	}
	if first.ScanID == second.ScanID {
		t.Error("scan IDs should be unique per scan")
	}
}

func TestScanScoreMonotonicInReportCount(t *testing.T) {
	prev := -1
	for n := 0; n <= 8; n++ {
		e := newTestEngine(&stubStore{reports: canned(n)}, nil)
		got := e.Scan(context.Background(), "scammer@ybl")
		if got.RiskScore < prev {
			t.Fatalf("score dropped from %d to %d at %d reports", prev, got.RiskScore, n)
		}
		prev = got.RiskScore
	}
}

func TestScanStoreFailureDegrades(t *testing.T) {
	e := newTestEngine(&stubStore{err: errors.New("connection refused")}, nil)

	got := e.Scan(context.Background(), "scammer@ybl")

	if got == nil {
		t.Fatal("Scan returned nil on store failure")
	}
	if got.ReportCount != 0 {
		t.Errorf("report_count = %d, want 0", got.ReportCount)
	}
}

func TestScanScoreAlwaysClamped(t *testing.T) {
	cls := &stubClassifier{label: "SCAM", confidence: 0.99}
	e := newTestEngine(&stubStore{reports: canned(10)}, cls)

	// Everything fires at once: community, keywords, classifier, boosts.
	got := e.Scan(context.Background(), "URGENT winner! share OTP with 9876543210, verify at http://bit.ly/x before it expires")

	if got.RiskScore < 0 || got.RiskScore > 100 {
		t.Errorf("risk_score = %d, want within [0,100]", got.RiskScore)
	}
	if got.Level != models.LevelCritical {
		t.Errorf("level = %s, want CRITICAL", got.Level)
	}
}

func TestScanUPIAdviceWording(t *testing.T) {
	e := newTestEngine(&stubStore{reports: canned(5)}, nil)

	got := e.Scan(context.Background(), "scammer@ybl")

	if got.EntityType != models.EntityUPIHandle {
		t.Fatalf("entity_type = %s, want UPI_HANDLE", got.EntityType)
	}
	if got.RiskScore <= 70 {
		t.Fatalf("risk_score = %d, want above 70", got.RiskScore)
	}
	if !strings.Contains(got.ActionAdvice, "UPI") {
		t.Errorf("action_advice = %q, want UPI-specific wording", got.ActionAdvice)
	}
}
