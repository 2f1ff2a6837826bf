package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 3000},
		Analyzer: AnalyzerConfig{BaseURL: "http://localhost:3001"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAnalyzerURL(t *testing.T) {
	cfg := validConfig()
	cfg.Analyzer.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing analyzer base_url")
	}
}

func TestValidate_BadAnalyzerScheme(t *testing.T) {
	cfg := validConfig()
	cfg.Analyzer.BaseURL = "localhost:3001"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-http analyzer base_url")
	}
}

func TestValidate_CacheEnabledWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Analyzer.TimeoutSec != 15 {
		t.Errorf("expected Analyzer.TimeoutSec=15, got %d", cfg.Analyzer.TimeoutSec)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected Cache.TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected Cache.ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEXTPREP_TEST_URL", "http://kiwi:3001")

	out := string(expandEnvVars([]byte("base_url: ${TEXTPREP_TEST_URL}\nport: ${TEXTPREP_TEST_PORT:-3000}")))
	want := "base_url: http://kiwi:3001\nport: 3000"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
