package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"scamshield/pkg/logger"
)

func TestIsFraudLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"LABEL_1", true},
		{"SCAM", true},
		{"SPAM", true},
		{"scam", true},
		{"LABEL_0", false},
		{"HAM", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsFraudLabel(tt.label); got != tt.want {
			t.Errorf("IsFraudLabel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	var gotBody classifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[[{"label":"LABEL_1","score":0.93},{"label":"LABEL_0","score":0.07}]]`)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL}, logger.NewDefault())

	got, err := c.Classify(context.Background(), "you have won a lottery")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got.Label != "LABEL_1" {
		t.Errorf("label = %q, want LABEL_1", got.Label)
	}
	if got.Confidence != 0.93 {
		t.Errorf("confidence = %v, want 0.93", got.Confidence)
	}
	if gotBody.Inputs != "you have won a lottery" {
		t.Errorf("request inputs = %q", gotBody.Inputs)
	}
}

func TestClassifyTruncatesLongInput(t *testing.T) {
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotLen = len(req.Inputs)
		io.WriteString(w, `[{"label":"LABEL_0","score":0.8}]`)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL}, logger.NewDefault())

	if _, err := c.Classify(context.Background(), strings.Repeat("a", 2000)); err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if gotLen != maxClassifierInput {
		t.Errorf("sent %d chars, want %d", gotLen, maxClassifierInput)
	}
}

func TestClassifyTruncatesOnRuneBoundary(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		json.NewDecoder(r.Body).Decode(&req)
		got = req.Inputs
		io.WriteString(w, `[{"label":"LABEL_0","score":0.8}]`)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL}, logger.NewDefault())

	// Each rupee sign is three bytes, so a byte-offset cut would land
	// mid-rune.
	if _, err := c.Classify(context.Background(), strings.Repeat("₹", 300)); err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated input is not valid UTF-8")
	}
	if len(got) > maxClassifierInput {
		t.Errorf("sent %d bytes, want at most %d", len(got), maxClassifierInput)
	}
	if len(got) == 0 {
		t.Error("truncated input is empty")
	}
}

func TestClassifyNormalizesLabelCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"label":"scam","score":0.6}]`)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL}, logger.NewDefault())

	got, err := c.Classify(context.Background(), "some suspicious text")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got.Label != "SCAM" {
		t.Errorf("label = %q, want SCAM", got.Label)
	}
}

func TestClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL}, logger.NewDefault())

	if _, err := c.Classify(context.Background(), "anything"); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestClassifyNoEndpoint(t *testing.T) {
	c := NewClassifier(ClassifierConfig{}, logger.NewDefault())
	if _, err := c.Classify(context.Background(), "anything"); err == nil {
		t.Fatal("expected error with no endpoint configured")
	}
}

func TestDecodeResults(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		got, err := decodeResults([]byte(`[[{"label":"SPAM","score":0.7}]]`))
		if err != nil || len(got) != 1 || got[0].Label != "SPAM" {
			t.Errorf("got %v, err %v", got, err)
		}
	})
	t.Run("flat", func(t *testing.T) {
		got, err := decodeResults([]byte(`[{"label":"HAM","score":0.9}]`))
		if err != nil || len(got) != 1 || got[0].Label != "HAM" {
			t.Errorf("got %v, err %v", got, err)
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if _, err := decodeResults([]byte(`{"oops":1}`)); err == nil {
			t.Error("expected error for non-list payload")
		}
	})
}
