package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents runtime configuration for the service. Values come from
// the process environment; the composition root loads .env first.
type Config struct {
	ServerAddress string
	APIKey        string
	Model         string

	FirebaseCredentialsPath string

	ScratchDir    string
	ScratchTTL    time.Duration
	SweepInterval time.Duration

	KeepaliveURL      string
	KeepaliveInterval time.Duration
}

const (
	defaultModel         = "gemini-1.5-flash"
	defaultScratchDir    = "temp"
	defaultScratchTTL    = time.Hour
	defaultSweepInterval = 10 * time.Minute
	// Just under the typical 15 minute host idle timeout.
	defaultKeepaliveInterval = 14 * time.Minute
)

// Load reads configuration from the environment. The API key and the
// store-credential path are required; everything else has a default.
func Load() (*Config, error) {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY must be configured")
	}
	credsPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH must be configured")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	scratchDir := os.Getenv("SCRATCH_DIR")
	if scratchDir == "" {
		scratchDir = defaultScratchDir
	}

	cfg := &Config{
		ServerAddress:           ":" + port,
		APIKey:                  apiKey,
		Model:                   model,
		FirebaseCredentialsPath: credsPath,
		ScratchDir:              scratchDir,
		ScratchTTL:              minutesOrDefault("SCRATCH_TTL_MINUTES", defaultScratchTTL),
		SweepInterval:           minutesOrDefault("SCRATCH_SWEEP_MINUTES", defaultSweepInterval),
		KeepaliveURL:            os.Getenv("KEEPALIVE_URL"),
		KeepaliveInterval:       minutesOrDefault("KEEPALIVE_MINUTES", defaultKeepaliveInterval),
	}
	return cfg, nil
}

func minutesOrDefault(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return def
	}
	return time.Duration(minutes) * time.Minute
}
