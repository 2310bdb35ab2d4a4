package config

import (
	"os"
	"strconv"
	"time"

	"triage_server/core/domain"
	"triage_server/pkg/apperr"
)

type Config struct {
	Environment string

	// Database (optional: enrichment runs without persistence)
	DatabaseURL string

	// Oracle
	OracleEnabled     bool
	OracleAPIKey      string
	OracleBaseURL     string
	OracleModel       string
	AnalysisMaxTokens int
	AnalysisTemp      float64
	ResponseMaxTokens int
	ResponseTemp      float64
	OracleTimeout     time.Duration
	OracleConcurrency int

	// Pipeline
	PriorityScheme domain.PriorityScheme
	PacingDelay    time.Duration
	FilterIntake   bool
	AutoRespond    bool

	// Mailer (required only when AutoRespond is on)
	SendGridAPIKey string
	MailFromName   string
	MailFromEmail  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		OracleEnabled:     getEnvBool("ORACLE_ENABLED", true),
		OracleAPIKey:      getEnv("ORACLE_API_KEY", ""),
		OracleBaseURL:     getEnv("ORACLE_BASE_URL", ""),
		OracleModel:       getEnv("ORACLE_MODEL", "gpt-4o-mini"),
		AnalysisMaxTokens: getEnvInt("ANALYSIS_MAX_TOKENS", 1000),
		AnalysisTemp:      getEnvFloat("ANALYSIS_TEMPERATURE", 0.1),
		ResponseMaxTokens: getEnvInt("RESPONSE_MAX_TOKENS", 1500),
		ResponseTemp:      getEnvFloat("RESPONSE_TEMPERATURE", 0.3),
		OracleTimeout:     time.Duration(getEnvInt("ORACLE_TIMEOUT_SEC", 30)) * time.Second,
		OracleConcurrency: getEnvInt("ORACLE_MAX_CONCURRENT", 4),

		PriorityScheme: domain.PriorityScheme(getEnv("PRIORITY_SCHEME", string(domain.SchemeFourTier))),
		PacingDelay:    time.Duration(getEnvInt("PACING_DELAY_MS", 1000)) * time.Millisecond,
		FilterIntake:   getEnvBool("FILTER_INTAKE", true),
		AutoRespond:    getEnvBool("AUTO_RESPOND", false),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Customer Support Team"),
		MailFromEmail:  getEnv("MAIL_FROM_EMAIL", ""),
	}

	// Secrets come from the environment only; fail fast when a required
	// one is absent instead of limping toward a runtime error.
	if cfg.OracleEnabled && cfg.OracleAPIKey == "" {
		return nil, apperr.ConfigError("ORACLE_API_KEY is required when the oracle is enabled")
	}
	if cfg.AutoRespond {
		if cfg.SendGridAPIKey == "" {
			return nil, apperr.ConfigError("SENDGRID_API_KEY is required when auto-respond is enabled")
		}
		if cfg.MailFromEmail == "" {
			return nil, apperr.ConfigError("MAIL_FROM_EMAIL is required when auto-respond is enabled")
		}
	}

	if cfg.PriorityScheme != domain.SchemeFourTier && cfg.PriorityScheme != domain.SchemeTwoTier {
		return nil, apperr.ConfigError("PRIORITY_SCHEME must be four_tier or two_tier")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
