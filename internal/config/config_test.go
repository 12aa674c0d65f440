package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Store.Path != "data.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "data.db")
	}
	if cfg.Ingest.Timezone != "UTC" {
		t.Errorf("Ingest.Timezone = %q, want %q", cfg.Ingest.Timezone, "UTC")
	}
	if cfg.Ingest.BatchSize != 1000 {
		t.Errorf("Ingest.BatchSize = %d, want %d", cfg.Ingest.BatchSize, 1000)
	}
	if cfg.Ingest.MatchThreshold != 0.8 {
		t.Errorf("Ingest.MatchThreshold = %g, want %g", cfg.Ingest.MatchThreshold, 0.8)
	}
	if cfg.Ingest.Strict {
		t.Error("Ingest.Strict should default to false")
	}
	if cfg.Ingest.MaxFileSize != 104857600 {
		t.Errorf("Ingest.MaxFileSize = %d, want %d", cfg.Ingest.MaxFileSize, 104857600)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("BATCH_SIZE", "250")
	os.Setenv("MATCH_THRESHOLD", "0.9")
	os.Setenv("INGEST_STRICT", "true")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("BATCH_SIZE")
		os.Unsetenv("MATCH_THRESHOLD")
		os.Unsetenv("INGEST_STRICT")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Ingest.BatchSize != 250 {
		t.Errorf("Ingest.BatchSize = %d, want %d", cfg.Ingest.BatchSize, 250)
	}
	if cfg.Ingest.MatchThreshold != 0.9 {
		t.Errorf("Ingest.MatchThreshold = %g, want %g", cfg.Ingest.MatchThreshold, 0.9)
	}
	if !cfg.Ingest.Strict {
		t.Error("Ingest.Strict should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that DB_PATH works as fallback
	os.Setenv("DB_PATH", "/tmp/alt.db")
	defer os.Unsetenv("DB_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Path != "/tmp/alt.db" {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, "/tmp/alt.db")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("SERVER_REQUEST_TIMEOUT", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("SERVER_REQUEST_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Server.RequestTimeout != 90*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want %v", cfg.Server.RequestTimeout, 90*time.Second)
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	os.Setenv("MATCH_THRESHOLD", "1.5")
	defer os.Unsetenv("MATCH_THRESHOLD")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for out-of-range MATCH_THRESHOLD")
	}
	if !strings.Contains(err.Error(), "MATCH_THRESHOLD") {
		t.Errorf("error should mention MATCH_THRESHOLD: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.Timezone = "Mars/Olympus_Mons"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid timezone")
	}
	if !strings.Contains(err.Error(), "TIMEZONE") {
		t.Errorf("error should mention TIMEZONE: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	str := cfg.String()

	for _, want := range []string{`Path: "data.db"`, "BatchSize: 1000", "MatchThreshold: 0.8", `Level: "info"`} {
		if !strings.Contains(str, want) {
			t.Errorf("String() missing %q: %s", want, str)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			RequestTimeout:  time.Minute,
		},
		Store: StoreConfig{Path: "data.db"},
		Ingest: IngestConfig{
			Timezone:       "UTC",
			BatchSize:      1000,
			MatchThreshold: 0.8,
			MaxFileSize:    1,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
