package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Picture locators are resolved against this directory and may not
	// leave it. Empty disables pictures in served renders.
	ImageRoot string

	// Page margins in cm
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// Fallbacks for reports that do not carry their own
	ReportName string
	Recipient  string
	Sender     string

	// Deepest rendered section level, 1-4
	MaxDepth int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("REPORTGEN_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		ImageRoot: os.Getenv("IMAGE_ROOT"),

		MarginTop:    envFloat("MARGIN_TOP_CM", 2.54),
		MarginBottom: envFloat("MARGIN_BOTTOM_CM", 2.54),
		MarginLeft:   envFloat("MARGIN_LEFT_CM", 2.8),
		MarginRight:  envFloat("MARGIN_RIGHT_CM", 2.8),

		ReportName: os.Getenv("REPORT_NAME"),
		Recipient:  os.Getenv("REPORT_RECIPIENT"),
		Sender:     os.Getenv("REPORT_SENDER"),

		MaxDepth: envInt("MAX_DEPTH", 4),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MaxDepth <= 0 || cfg.MaxDepth > 4 {
		cfg.MaxDepth = 4
	}

	return cfg
}

// Validate checks the settings the HTTP server cannot run without. The
// CLI only needs the margins to be sane.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("REPORTGEN_API_KEY is required")
	}
	return c.ValidateLayout()
}

// ValidateLayout checks the page settings.
func (c Config) ValidateLayout() error {
	margins := []struct {
		key string
		v   float64
	}{
		{"MARGIN_TOP_CM", c.MarginTop},
		{"MARGIN_BOTTOM_CM", c.MarginBottom},
		{"MARGIN_LEFT_CM", c.MarginLeft},
		{"MARGIN_RIGHT_CM", c.MarginRight},
	}
	for _, m := range margins {
		if m.v < 0 || m.v > 10 {
			return fmt.Errorf("%s must be between 0 and 10, got %v", m.key, m.v)
		}
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
