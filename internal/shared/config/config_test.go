package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.LLMProvider != "ollama" {
		t.Fatalf("expected default provider ollama, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 120*time.Second {
		t.Fatalf("expected default timeout 120s, got %s", cfg.LLMTimeout)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if !cfg.LLMStructuredOutput {
		t.Fatalf("expected structured output enabled by default")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromViperReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("LLM_PROVIDER", "Claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("ENV", "prod")

	cfg := FromViper(viper.New())

	if cfg.Port != ":9090" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Fatalf("unexpected provider %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.LLMTimeout)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowOrigin)
	}
	if cfg.Env != "production" {
		t.Fatalf("unexpected env %q", cfg.Env)
	}
}

func TestValidateRequiresProviderKeys(t *testing.T) {
	cfg := FromViper(viper.New())
	cfg.LLMProvider = "openai"
	cfg.OpenAIAPIKey = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation error without OPENAI_API_KEY")
	}

	cfg = FromViper(viper.New())
	cfg.ObjectStoreType = "s3"
	cfg.S3Bucket = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation error without S3 bucket")
	}
}

func TestLoadEnvFilesMergesDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LLM_MODEL=llama3.2\nMAX_UPLOAD_BYTES=2048\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	v := viper.New()
	loadEnvFiles(v, filepath.Join(dir, "missing.env"), path)
	cfg := FromViper(v)

	if cfg.LLMModel != "llama3.2" {
		t.Fatalf("expected model from dotenv, got %q", cfg.LLMModel)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Fatalf("expected max upload from dotenv, got %d", cfg.MaxUploadBytes)
	}
}
