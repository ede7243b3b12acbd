package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.ListenAddr != DefaultListenAddr {
		t.Errorf("Expected default listen addr, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Downloads.MaxConcurrent != DefaultMaxConcurrent {
		t.Errorf("Expected default max concurrent, got %d", cfg.Downloads.MaxConcurrent)
	}
	if cfg.RateLimit.RPM != DefaultRateLimitRPM {
		t.Errorf("Expected default rpm, got %d", cfg.RateLimit.RPM)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if cfg.Downloads.TempRoot != DefaultTempRoot {
		t.Errorf("Expected default temp root, got %q", cfg.Downloads.TempRoot)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
listen_addr = ":9000"
allowed_origins = ["https://example.com"]

[downloads]
temp_root = "/var/tmp/media"
max_concurrent = 8

[rate_limit]
rpm = 60
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("Expected :9000, got %q", cfg.Server.ListenAddr)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("Expected configured origins, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Downloads.TempRoot != "/var/tmp/media" {
		t.Errorf("Expected configured temp root, got %q", cfg.Downloads.TempRoot)
	}
	if cfg.Downloads.MaxConcurrent != 8 {
		t.Errorf("Expected max concurrent 8, got %d", cfg.Downloads.MaxConcurrent)
	}
	if cfg.RateLimit.RPM != 60 {
		t.Errorf("Expected rpm 60, got %d", cfg.RateLimit.RPM)
	}
	// Untouched sections keep defaults.
	if cfg.Downloads.AudioBitrate != DefaultAudioBitrate {
		t.Errorf("Expected default audio bitrate, got %q", cfg.Downloads.AudioBitrate)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEDIA_API_LISTEN_ADDR", ":7777")
	t.Setenv("MEDIA_API_MAX_CONCURRENT", "2")
	t.Setenv("MEDIA_API_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("MEDIA_API_AUTO_INSTALL_YTDLP", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.ListenAddr != ":7777" {
		t.Errorf("Expected env listen addr, got %q", cfg.Server.ListenAddr)
	}
	if cfg.Downloads.MaxConcurrent != 2 {
		t.Errorf("Expected env max concurrent, got %d", cfg.Downloads.MaxConcurrent)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.test" {
		t.Errorf("Expected env origins, got %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.Tools.AutoInstallYtDlp {
		t.Error("Expected auto install enabled from env")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Server.ListenAddr = " "
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for blank listen addr, got nil")
	}

	cfg = Default()
	cfg.RateLimit.RPM = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative rpm, got nil")
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := WriteSample(path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected sample config to load, got %v", err)
	}
	if cfg.Server.ListenAddr != DefaultListenAddr {
		t.Errorf("Expected sample defaults, got %q", cfg.Server.ListenAddr)
	}

	if err := WriteSample(path); err == nil {
		t.Error("Expected error when overwriting existing file, got nil")
	}
}
