package embedding

import (
	"errors"
	"testing"

	"github.com/openai/openai-go"
)

func TestNewEmbedder_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := NewEmbedder(Config{}); err == nil {
		t.Error("expected error when OPENAI_API_KEY is unset")
	}
}

func TestNewEmbedder_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	e, err := NewEmbedder(Config{})
	if err != nil {
		t.Fatalf("NewEmbedder failed: %v", err)
	}
	if e.model != DefaultModel {
		t.Errorf("model: got %q", e.model)
	}
	if e.Dimension() != DefaultDimension {
		t.Errorf("dimension: got %d", e.Dimension())
	}
	if e.batchSize != DefaultBatchSize {
		t.Errorf("batch size: got %d", e.batchSize)
	}
}

func TestIsRateLimitError(t *testing.T) {
	if !isRateLimitError(&openai.Error{StatusCode: 429}) {
		t.Error("429 should be a rate limit error")
	}
	if isRateLimitError(&openai.Error{StatusCode: 500}) {
		t.Error("500 should not be a rate limit error")
	}
	if isRateLimitError(errors.New("network down")) {
		t.Error("plain errors are not rate limit errors")
	}
}

func TestToFloat32(t *testing.T) {
	out := toFloat32([]float64{0.5, -1.25, 2})
	if len(out) != 3 {
		t.Fatalf("length: got %d", len(out))
	}
	if out[0] != 0.5 || out[1] != -1.25 || out[2] != 2 {
		t.Errorf("values: got %v", out)
	}
}
