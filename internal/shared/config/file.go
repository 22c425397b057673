package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML overlay shape. Only fields present in
// the file override the environment-derived config.
type fileConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"corsOrigins"`
	DatabaseURL string   `yaml:"databaseUrl"`

	Assistant struct {
		Provider    string `yaml:"provider"`
		BaseURL     string `yaml:"baseUrl"`
		Model       string `yaml:"model"`
		MaxAttempts int    `yaml:"maxAttempts"`
		BaseDelay   string `yaml:"baseDelay"`
		Timeout     string `yaml:"timeout"`
		MaxInFlight int64  `yaml:"maxInFlight"`
	} `yaml:"assistant"`

	Retention struct {
		Keep int `yaml:"keep"`
	} `yaml:"retention"`

	Matching struct {
		IndustryWeight float64 `yaml:"industryWeight"`
		CategoryWeight float64 `yaml:"categoryWeight"`
		MinScore       float64 `yaml:"minScore"`
		Parallelism    int     `yaml:"parallelism"`
	} `yaml:"matching"`
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}

	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSAllowOrigin = fc.CORSOrigins
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = fc.DatabaseURL
	}
	if fc.Assistant.Provider != "" {
		cfg.AssistantProvider = normalizeProvider(fc.Assistant.Provider)
	}
	if fc.Assistant.BaseURL != "" {
		cfg.AssistantBaseURL = fc.Assistant.BaseURL
	}
	if fc.Assistant.Model != "" {
		cfg.AssistantModel = fc.Assistant.Model
	}
	if fc.Assistant.MaxAttempts > 0 {
		cfg.AssistantMaxAttempts = fc.Assistant.MaxAttempts
	}
	if fc.Assistant.BaseDelay != "" {
		if d, err := time.ParseDuration(fc.Assistant.BaseDelay); err == nil {
			cfg.AssistantBaseDelay = d
		}
	}
	if fc.Assistant.Timeout != "" {
		if d, err := time.ParseDuration(fc.Assistant.Timeout); err == nil {
			cfg.AssistantTimeout = d
		}
	}
	if fc.Assistant.MaxInFlight > 0 {
		cfg.AssistantMaxInFlight = fc.Assistant.MaxInFlight
	}
	if fc.Retention.Keep > 0 {
		cfg.RetentionKeep = fc.Retention.Keep
	}
	if fc.Matching.IndustryWeight > 0 {
		cfg.MatchIndustryWeight = fc.Matching.IndustryWeight
	}
	if fc.Matching.CategoryWeight > 0 {
		cfg.MatchCategoryWeight = fc.Matching.CategoryWeight
	}
	if fc.Matching.MinScore > 0 {
		cfg.MatchMinScore = fc.Matching.MinScore
	}
	if fc.Matching.Parallelism > 0 {
		cfg.MatchParallelism = fc.Matching.Parallelism
	}
	return nil
}
