package config

import (
	"os"
	"testing"
	"time"
)

const testFeedURL = "https://docs.google.com/spreadsheets/d/e/test/pub?output=csv"

func TestLoad_Defaults(t *testing.T) {
	// Set only required env var
	os.Setenv("FEED_URL", testFeedURL)
	defer os.Unsetenv("FEED_URL")

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
	if cfg.Feed.RefreshInterval != 30*time.Second {
		t.Errorf("Feed.RefreshInterval = %v, want %v", cfg.Feed.RefreshInterval, 30*time.Second)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("Catalog.PageSize = %d, want %d", cfg.Catalog.PageSize, 20)
	}
	if !cfg.Catalog.CascadeFilters {
		t.Error("Catalog.CascadeFilters should default to true")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("FEED_URL", testFeedURL)
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("CATALOG_PAGE_SIZE", "50")
	os.Setenv("CATALOG_CASCADE_FILTERS", "false")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("FEED_URL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("CATALOG_PAGE_SIZE")
		os.Unsetenv("CATALOG_CASCADE_FILTERS")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Catalog.PageSize != 50 {
		t.Errorf("Catalog.PageSize = %d, want %d", cfg.Catalog.PageSize, 50)
	}
	if cfg.Catalog.CascadeFilters {
		t.Error("Catalog.CascadeFilters should be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that SHEET_URL works as fallback
	os.Setenv("SHEET_URL", testFeedURL)
	defer os.Unsetenv("SHEET_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.URL != testFeedURL {
		t.Errorf("Feed.URL = %q, want %q", cfg.Feed.URL, testFeedURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// Ensure FEED_URL is not set
	os.Unsetenv("FEED_URL")
	os.Unsetenv("SHEET_URL")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing FEED_URL")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("FEED_URL", testFeedURL)
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("FEED_REFRESH_INTERVAL", "1m30s")
	defer func() {
		os.Unsetenv("FEED_URL")
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("FEED_REFRESH_INTERVAL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Feed.RefreshInterval != 90*time.Second {
		t.Errorf("Feed.RefreshInterval = %v, want %v", cfg.Feed.RefreshInterval, 90*time.Second)
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Feed:    FeedConfig{URL: testFeedURL, RefreshInterval: 30 * time.Second, RequestTimeout: 20 * time.Second},
		Catalog: CatalogConfig{PageSize: 20, CascadeFilters: true},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_BadFeedURL(t *testing.T) {
	cfg := validConfig()
	cfg.Feed.URL = "not a url"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for malformed feed URL")
	}
	if !contains(err.Error(), "FEED_URL") {
		t.Errorf("error should mention FEED_URL: %v", err)
	}
}

func TestValidate_NonPositivePageSize(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.PageSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for zero page size")
	}
	if !contains(err.Error(), "CATALOG_PAGE_SIZE") {
		t.Errorf("error should mention CATALOG_PAGE_SIZE: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !contains(err.Error(), "LOG_LEVEL") {
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

func TestConfigString_MasksFeedURL(t *testing.T) {
	cfg := &Config{
		Feed: FeedConfig{URL: "https://docs.google.com/spreadsheets/d/e/SECRETID/pub?output=csv"},
	}
	str := cfg.String()
	if contains(str, "SECRETID") {
		t.Error("String() should mask feed URL")
	}
	if !contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsHelper(s, substr))
}

func containsHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
