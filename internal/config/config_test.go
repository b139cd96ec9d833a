package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8095" {
		t.Errorf("expected default port 8095, got %q", cfg.Port)
	}
	if cfg.MaxLength != 512 || cfg.Stride != 128 {
		t.Errorf("expected 512/128 window geometry, got %d/%d", cfg.MaxLength, cfg.Stride)
	}
	if cfg.NBest != 5 || cfg.MaxAnswerLength != 200 {
		t.Errorf("expected decode defaults 5/200, got %d/%d", cfg.NBest, cfg.MaxAnswerLength)
	}
	if cfg.NullThreshold != 0 {
		t.Errorf("expected null threshold 0, got %v", cfg.NullThreshold)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %v", cfg.JobTTL)
	}
	if cfg.ExtractTimeout != 5*time.Minute {
		t.Errorf("expected 5m extract timeout, got %v", cfg.ExtractTimeout)
	}
}

func TestLoad_DeviceAwareBatchSize(t *testing.T) {
	t.Setenv("SCORER_DEVICE", "cpu")
	if got := Load().BatchSize; got != 4 {
		t.Errorf("expected CPU batch size 4, got %d", got)
	}

	t.Setenv("SCORER_DEVICE", "cuda")
	if got := Load().BatchSize; got != 16 {
		t.Errorf("expected CUDA batch size 16, got %d", got)
	}

	t.Setenv("BATCH_SIZE", "7")
	if got := Load().BatchSize; got != 7 {
		t.Errorf("expected explicit batch size override, got %d", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_LENGTH", "384")
	t.Setenv("STRIDE", "96")
	t.Setenv("NULL_THRESHOLD", "1.5")

	cfg := Load()
	if cfg.MaxLength != 384 || cfg.Stride != 96 {
		t.Errorf("expected 384/96, got %d/%d", cfg.MaxLength, cfg.Stride)
	}
	if cfg.NullThreshold != 1.5 {
		t.Errorf("expected threshold 1.5, got %v", cfg.NullThreshold)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		APIKey:    "key",
		ScorerURL: "http://localhost:8501",
		MaxLength: 512,
		Stride:    128,
	}
	if err := base.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noKey := base
	noKey.APIKey = ""
	if err := noKey.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}

	noScorer := base
	noScorer.ScorerURL = ""
	if err := noScorer.Validate(); err == nil {
		t.Error("expected error for missing scorer URL")
	}

	badStride := base
	badStride.Stride = 512
	if err := badStride.Validate(); err == nil {
		t.Error("expected error when stride >= max length")
	}
}
