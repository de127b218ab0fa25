package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType    string // postgres or sqlite
	DBURL     string
	DBMigrate bool

	// Order backend and asset locations
	WebAPIURL   string
	WebDataURL  string
	TemplateURL string
	ImagesURL   string
	AppVersion  string
	HTTPTimeout time.Duration

	// Proof pages
	ProofURL                string
	ProofEnvURL             string
	ProofMarketingSeriesURL string

	// Template backgrounds: http or gcs
	TemplateSource    string
	GCSTemplateBucket string
	GCPCredentials    string

	// Editor behaviour
	ShowGrid              bool
	ShowCutLines          bool
	CutLineWidth          float64
	SaveOnSwitch          bool
	ImageWaitInterval     time.Duration
	RestrictedMemberships []int
	Debug                 bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getEnv("PORT", "3000"),
		DBType:                  strings.ToLower(getEnv("DB_TYPE", "postgres")),
		DBURL:                   getEnv("DB_URL", ""),
		DBMigrate:               getEnvAsBool("DB_MIGRATE", false),
		WebAPIURL:               getEnv("WEB_API_URL", ""),
		WebDataURL:              getEnv("WEB_DATA_URL", ""),
		TemplateURL:             getEnv("TEMPLATE_URL", ""),
		ImagesURL:               getEnv("IMAGES_URL", ""),
		AppVersion:              getEnv("APP_VERSION", "1"),
		HTTPTimeout:             time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		ProofURL:                getEnv("PROOF_URL", ""),
		ProofEnvURL:             getEnv("PROOF_ENV_URL", ""),
		ProofMarketingSeriesURL: getEnv("PROOF_MARKETING_SERIES_URL", ""),
		TemplateSource:          strings.ToLower(getEnv("TEMPLATE_SOURCE", "http")),
		GCSTemplateBucket:       getEnv("GCS_TEMPLATE_BUCKET", ""),
		GCPCredentials:          getEnv("GCP_SERVICE_ACCOUNT_CREDENTIALS", ""),
		ShowGrid:                getEnvAsBool("SHOW_GRID", false),
		ShowCutLines:            getEnvAsBool("SHOW_CUT_LINES", true),
		CutLineWidth:            getEnvAsFloat("CUT_LINE_WIDTH", 18),
		SaveOnSwitch:            getEnvAsBool("SAVE_ON_SWITCH", false),
		ImageWaitInterval:       time.Duration(getEnvAsInt("IMAGE_WAIT_INTERVAL_MS", 500)) * time.Millisecond,
		Debug:                   getEnvAsBool("DEBUG", false),
	}

	restricted, err := parseInts(getEnv("RESTRICTED_MEMBERSHIP_TYPES", ""))
	if err != nil {
		return nil, fmt.Errorf("RESTRICTED_MEMBERSHIP_TYPES: %w", err)
	}
	cfg.RestrictedMemberships = restricted

	// Validate required fields
	switch cfg.DBType {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required")
		}
	case "sqlite":
		if cfg.DBURL == "" {
			cfg.DBURL = "lexedit.db"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
	if cfg.WebAPIURL == "" {
		return nil, fmt.Errorf("WEB_API_URL is required")
	}
	switch cfg.TemplateSource {
	case "http":
		if cfg.TemplateURL == "" {
			return nil, fmt.Errorf("TEMPLATE_URL is required")
		}
	case "gcs":
		if cfg.GCSTemplateBucket == "" {
			return nil, fmt.Errorf("GCS_TEMPLATE_BUCKET is required")
		}
	default:
		return nil, fmt.Errorf("unsupported TEMPLATE_SOURCE %q", cfg.TemplateSource)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
