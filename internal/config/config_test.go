package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("datachat-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Fatalf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Pipeline.Mode != PipelineModeThreeTier {
		t.Fatalf("Pipeline.Mode = %q", cfg.Pipeline.Mode)
	}
	if cfg.Pipeline.RowLimit != 100 {
		t.Fatalf("Pipeline.RowLimit = %d", cfg.Pipeline.RowLimit)
	}
	if cfg.Pipeline.HistoryWindow != 4 {
		t.Fatalf("Pipeline.HistoryWindow = %d", cfg.Pipeline.HistoryWindow)
	}
	if cfg.Pipeline.SampleRows != 5 {
		t.Fatalf("Pipeline.SampleRows = %d", cfg.Pipeline.SampleRows)
	}
	if cfg.Pipeline.SchemaCacheTTL != 0 {
		t.Fatalf("Pipeline.SchemaCacheTTL = %s", cfg.Pipeline.SchemaCacheTTL)
	}
	if !cfg.Pipeline.CompletenessCheck {
		t.Fatal("Pipeline.CompletenessCheck should default to true")
	}
	if cfg.AI.Model != "gpt-5" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"DATACHAT_PROFILE": "prod"})
	cfg, err := Load("datachat-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Pipeline.SchemaCacheTTL != 5*time.Minute {
		t.Fatalf("Pipeline.SchemaCacheTTL = %s", cfg.Pipeline.SchemaCacheTTL)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"DATACHAT_PROFILE":                     "test",
		"DATACHAT_SERVICE_NAME":                "datachat-custom",
		"DATACHAT_HTTP_ADDR":                   ":9999",
		"DATACHAT_HTTP_READ_TIMEOUT":           "2s",
		"DATACHAT_HTTP_WRITE_TIMEOUT":          "3s",
		"DATACHAT_LOG_LEVEL":                   "error",
		"DATACHAT_AUTH_REQUIRED":               "true",
		"DATACHAT_AUTH_STATIC_KEYS":            "k1:dashboard",
		"DATACHAT_DB_DRIVER":                   "duckdb",
		"DATACHAT_DB_DSN":                      "/tmp/datachat.db",
		"DATACHAT_DB_MAX_OPEN_CONNS":           "42",
		"DATACHAT_DB_MAX_IDLE_CONNS":           "17",
		"DATACHAT_AI_BASE_URL":                 "https://api.example.com",
		"DATACHAT_AI_API_KEY":                  "secret-key",
		"DATACHAT_AI_MODEL":                    "gpt-5.2",
		"DATACHAT_AI_TEMPERATURE":              "0.3",
		"DATACHAT_AI_TIMEOUT":                  "21s",
		"DATACHAT_PIPELINE_MODE":               "two_tier",
		"DATACHAT_PIPELINE_ROW_LIMIT":          "250",
		"DATACHAT_PIPELINE_HISTORY_WINDOW":     "3",
		"DATACHAT_PIPELINE_SAMPLE_ROWS":        "7",
		"DATACHAT_PIPELINE_SCHEMA_CACHE_TTL":   "90s",
		"DATACHAT_PIPELINE_COMPLETENESS_CHECK": "false",
	})
	cfg, err := Load("datachat-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "datachat-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 3*time.Second {
		t.Fatalf("HTTP.WriteTimeout = %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required = false")
	}
	if cfg.Database.Driver != "duckdb" {
		t.Fatalf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "/tmp/datachat.db" {
		t.Fatalf("Database.DSN = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxOpenConns != 42 {
		t.Fatalf("Database.MaxOpenConns = %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns != 17 {
		t.Fatalf("Database.MaxIdleConns = %d", cfg.Database.MaxIdleConns)
	}
	if cfg.AI.BaseURL != "https://api.example.com" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Fatalf("AI.Temperature = %v", cfg.AI.Temperature)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.Pipeline.Mode != PipelineModeTwoTier {
		t.Fatalf("Pipeline.Mode = %q", cfg.Pipeline.Mode)
	}
	if cfg.Pipeline.RowLimit != 250 {
		t.Fatalf("Pipeline.RowLimit = %d", cfg.Pipeline.RowLimit)
	}
	if cfg.Pipeline.HistoryWindow != 3 {
		t.Fatalf("Pipeline.HistoryWindow = %d", cfg.Pipeline.HistoryWindow)
	}
	if cfg.Pipeline.SchemaCacheTTL != 90*time.Second {
		t.Fatalf("Pipeline.SchemaCacheTTL = %s", cfg.Pipeline.SchemaCacheTTL)
	}
	if cfg.Pipeline.CompletenessCheck {
		t.Fatal("Pipeline.CompletenessCheck = true")
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{"DATACHAT_PROFILE": "staging"})
	if _, err := Load("datachat-api", lookup); err == nil {
		t.Fatal("Load() should fail for unknown profile")
	}
}

func TestLoadRejectsInvalidPipelineMode(t *testing.T) {
	lookup := mapLookup(map[string]string{"DATACHAT_PIPELINE_MODE": "four_tier"})
	if _, err := Load("datachat-api", lookup); err == nil {
		t.Fatal("Load() should fail for unknown pipeline mode")
	}
}

func TestLoadRejectsInvalidDriver(t *testing.T) {
	lookup := mapLookup(map[string]string{"DATACHAT_DB_DRIVER": "oracle"})
	if _, err := Load("datachat-api", lookup); err == nil {
		t.Fatal("Load() should fail for unknown driver")
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	lookup := mapLookup(map[string]string{"DATACHAT_HTTP_READ_TIMEOUT": "soon"})
	if _, err := Load("datachat-api", lookup); err == nil {
		t.Fatal("Load() should fail for invalid duration")
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
