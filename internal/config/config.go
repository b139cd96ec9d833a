package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Model scorer service
	ScorerURL    string
	ScorerAPIKey string
	ScorerDevice string

	// Inference settings
	MaxLength       int
	Stride          int
	NullThreshold   float64
	NBest           int
	MaxAnswerLength int

	// Batching
	BatchSize            int
	MaxConcurrentBatches int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Per-document extraction deadline
	ExtractTimeout time.Duration

	// Storage
	DBPath string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	// Optional .env, matching local development setups.
	_ = godotenv.Load()

	device := envOr("SCORER_DEVICE", "cpu")

	// Larger batches only pay off on an accelerated scorer.
	defaultBatch := 4
	if device == "cuda" {
		defaultBatch = 16
	}

	cfg := Config{
		Port: envOr("PORT", "8095"),

		APIKey: os.Getenv("CONTRACTIQ_API_KEY"),

		ScorerURL:    envOr("SCORER_URL", "http://localhost:8501"),
		ScorerAPIKey: os.Getenv("SCORER_API_KEY"),
		ScorerDevice: device,

		MaxLength:       envInt("MAX_LENGTH", 512),
		Stride:          envInt("STRIDE", 128),
		NullThreshold:   envFloat("NULL_THRESHOLD", 0.0),
		NBest:           envInt("N_BEST", 5),
		MaxAnswerLength: envInt("MAX_ANSWER_LENGTH", 200),

		BatchSize:            envInt("BATCH_SIZE", defaultBatch),
		MaxConcurrentBatches: envInt("MAX_CONCURRENT_BATCHES", 2),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
		ExtractTimeout: envDuration("EXTRACT_TIMEOUT", 5*time.Minute),

		DBPath: envOr("DB_PATH", "./data/contractiq.db"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 512
	}
	if cfg.Stride <= 0 {
		cfg.Stride = 128
	}
	if cfg.NBest <= 0 {
		cfg.NBest = 5
	}
	if cfg.MaxAnswerLength <= 0 {
		cfg.MaxAnswerLength = 200
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatch
	}
	if cfg.MaxConcurrentBatches <= 0 {
		cfg.MaxConcurrentBatches = 2
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 5 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CONTRACTIQ_API_KEY is required")
	}
	if c.ScorerURL == "" {
		return fmt.Errorf("SCORER_URL is required")
	}
	if c.Stride >= c.MaxLength {
		return fmt.Errorf("STRIDE (%d) must be smaller than MAX_LENGTH (%d)", c.Stride, c.MaxLength)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
