package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"scamshield/internal/domain/models"
	"scamshield/pkg/logger"
)

// maxClassifierInput caps the text sent to the remote model. Longer messages
// are truncated; the opening of a scam message carries the signal anyway.
const maxClassifierInput = 512

// fraud-category labels across the model versions we have run against.
var fraudLabels = map[string]bool{
	"LABEL_1": true,
	"SCAM":    true,
	"SPAM":    true,
}

// Classifier calls a remote text-classification model to judge whether a
// piece of text reads like a scam.
type Classifier struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     ClassifierConfig
}

// ClassifierConfig holds classifier client configuration
type ClassifierConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// NewClassifier creates a new classifier client
func NewClassifier(cfg ClassifierConfig, log *logger.Logger) *Classifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Classifier{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("classifier"),
		config: cfg,
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type classifyResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends text to the classification endpoint and returns the top
// label. The label is upper-cased so downstream matching is exact.
func (c *Classifier) Classify(ctx context.Context, text string) (*models.Classification, error) {
	if c.config.Endpoint == "" {
		return nil, fmt.Errorf("classifier endpoint not configured")
	}

	if len(text) > maxClassifierInput {
		cut := maxClassifierInput
		// Back up to a rune boundary so the slice stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(b))
	}

	// The endpoint returns either a flat list of results or a list of lists,
	// depending on the serving stack in front of the model.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classify response: %w", err)
	}

	results, err := decodeResults(raw)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("classifier returned no results")
	}

	top := results[0]
	for _, r := range results[1:] {
		if r.Score > top.Score {
			top = r
		}
	}

	c.logger.Debug().
		Str("label", top.Label).
		Float64("score", top.Score).
		Dur("duration", time.Since(start)).
		Msg("Text classified")

	return &models.Classification{
		Label:      strings.ToUpper(top.Label),
		Confidence: top.Score,
	}, nil
}

// IsFraudLabel reports whether a classifier label counts as a fraud signal.
func IsFraudLabel(label string) bool {
	return fraudLabels[strings.ToUpper(label)]
}

func decodeResults(raw []byte) ([]classifyResult, error) {
	var nested [][]classifyResult
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []classifyResult
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}
	return nil, fmt.Errorf("unexpected classifier response shape")
}
