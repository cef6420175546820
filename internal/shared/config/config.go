package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port                string `validate:"required"`
	CORSAllowOrigin     []string
	ObjectStoreType     string `validate:"oneof=local s3"`
	LocalStoreDir       string `validate:"required_if=ObjectStoreType local"`
	AWSRegion           string
	S3Bucket            string `validate:"required_if=ObjectStoreType s3"`
	S3Prefix            string
	SSEKMSKeyID         string
	LLMProvider         string        `validate:"oneof=ollama openai anthropic"`
	LLMModel            string        `validate:"required"`
	OllamaBaseURL       string        `validate:"omitempty,url"`
	OpenAIAPIKey        string        `validate:"required_if=LLMProvider openai"`
	OpenAIBaseURL       string        `validate:"omitempty,url"`
	AnthropicAPIKey     string        `validate:"required_if=LLMProvider anthropic"`
	LLMTimeout          time.Duration `validate:"gt=0"`
	LLMStructuredOutput bool
	LLMRatePerSec       float64 `validate:"gte=0"`
	LLMBurst            int     `validate:"gte=0"`
	RateLimitPerSec     float64 `validate:"gte=0"`
	RateLimitBurst      int     `validate:"gte=0"`
	AnalysisRatePerSec  float64 `validate:"gte=0"`
	AnalysisBurst       int     `validate:"gte=0"`
	MaxUploadBytes      int64   `validate:"gt=0"`
	DatabaseURL         string
	Env                 string `validate:"oneof=dev local staging production"`
}

// Load reads configuration from environment variables (and optional .env files) with
// sensible defaults. Validation problems are logged; callers that must refuse to start
// on bad config call Validate.
func Load() Config {
	v := viper.New()
	loadEnvFiles(v, ".env", "cmd/.env")
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) Config {
	setDefaults(v)
	v.AutomaticEnv()

	env := normalizeEnv(v.GetString("env"))
	dbURL := strings.TrimSpace(v.GetString("database_url"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	cfg := Config{
		Port:                v.GetString("port"),
		CORSAllowOrigin:     splitAndTrim(v.GetString("cors_allow_origins")),
		ObjectStoreType:     normalizeStoreType(v.GetString("object_store")),
		LocalStoreDir:       v.GetString("local_store_dir"),
		AWSRegion:           v.GetString("aws_region"),
		S3Bucket:            v.GetString("s3_bucket"),
		S3Prefix:            v.GetString("s3_prefix"),
		SSEKMSKeyID:         v.GetString("sse_kms_key_id"),
		LLMProvider:         normalizeProvider(v.GetString("llm_provider")),
		LLMModel:            strings.TrimSpace(v.GetString("llm_model")),
		OllamaBaseURL:       strings.TrimRight(strings.TrimSpace(v.GetString("ollama_base_url")), "/"),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		OpenAIBaseURL:       strings.TrimSpace(v.GetString("openai_base_url")),
		AnthropicAPIKey:     v.GetString("anthropic_api_key"),
		LLMTimeout:          v.GetDuration("llm_timeout"),
		LLMStructuredOutput: v.GetBool("llm_structured_output"),
		LLMRatePerSec:       v.GetFloat64("llm_rate_per_sec"),
		LLMBurst:            v.GetInt("llm_burst"),
		RateLimitPerSec:     v.GetFloat64("rate_limit_per_sec"),
		RateLimitBurst:      v.GetInt("rate_limit_burst"),
		AnalysisRatePerSec:  v.GetFloat64("analysis_rate_per_sec"),
		AnalysisBurst:       v.GetInt("analysis_burst"),
		MaxUploadBytes:      v.GetInt64("max_upload_bytes"),
		DatabaseURL:         dbURL,
		Env:                 env,
	}
	if err := Validate(cfg); err != nil {
		log.Printf("config: %v", err)
	}
	return cfg
}

// Validate checks struct constraints on cfg.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("port", "8080")
	v.SetDefault("cors_allow_origins", "http://localhost:3000")
	v.SetDefault("object_store", "local")
	v.SetDefault("local_store_dir", "./data")
	v.SetDefault("aws_region", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_prefix", "timesheet-uploads")
	v.SetDefault("sse_kms_key_id", "")
	v.SetDefault("llm_provider", "ollama")
	v.SetDefault("llm_model", "gemma3")
	v.SetDefault("ollama_base_url", "http://localhost:11434")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("llm_timeout", 120*time.Second)
	v.SetDefault("llm_structured_output", true)
	v.SetDefault("llm_rate_per_sec", 1.0)
	v.SetDefault("llm_burst", 2)
	v.SetDefault("rate_limit_per_sec", 10.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("analysis_rate_per_sec", 0.2)
	v.SetDefault("analysis_burst", 3)
	v.SetDefault("max_upload_bytes", int64(10<<20))
	v.SetDefault("database_url", "")
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "anthropic", "claude":
		return "anthropic"
	default:
		return "ollama"
	}
}
