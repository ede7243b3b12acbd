package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Defaults.
const (
	DefaultListenAddr    = ":8080"
	DefaultTempRoot      = "temp_downloads"
	DefaultMaxConcurrent = 4
	DefaultAudioBitrate  = "192"
	DefaultRateLimitRPM  = 300
	DefaultHistoryPath   = "media-api.db"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Server contains the HTTP listener configuration.
type Server struct {
	ListenAddr     string   `toml:"listen_addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	AdminToken     string   `toml:"admin_token"`
}

// Downloads contains run-directory and extraction configuration.
type Downloads struct {
	TempRoot      string `toml:"temp_root"`
	MaxConcurrent int    `toml:"max_concurrent"`
	AudioBitrate  string `toml:"audio_bitrate"`
}

// Tools configures the external binaries.
type Tools struct {
	FFmpegPath       string `toml:"ffmpeg_path"`
	AutoInstallYtDlp bool   `toml:"auto_install_ytdlp"`
}

// RateLimit configures per-client request limiting.
type RateLimit struct {
	RPM int `toml:"rpm"`
}

// Redis configures the optional shared rate-limit backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// History configures the download-history store.
type History struct {
	Path string `toml:"path"`
}

// Logging configures the process logger.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full service configuration.
type Config struct {
	Server    Server    `toml:"server"`
	Downloads Downloads `toml:"downloads"`
	Tools     Tools     `toml:"tools"`
	RateLimit RateLimit `toml:"rate_limit"`
	Redis     Redis     `toml:"redis"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: Server{
			ListenAddr:     DefaultListenAddr,
			AllowedOrigins: []string{"*"},
		},
		Downloads: Downloads{
			TempRoot:      DefaultTempRoot,
			MaxConcurrent: DefaultMaxConcurrent,
			AudioBitrate:  DefaultAudioBitrate,
		},
		RateLimit: RateLimit{RPM: DefaultRateLimitRPM},
		History:   History{Path: DefaultHistoryPath},
		Logging:   Logging{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Load reads the TOML file at path (missing file is fine: defaults apply),
// applies MEDIA_API_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults plus env only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteSample writes the embedded sample configuration to path, failing if
// the file already exists.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing config: %s", path)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("MEDIA_API_LISTEN_ADDR", &c.Server.ListenAddr)
	setString("MEDIA_API_ADMIN_TOKEN", &c.Server.AdminToken)
	if v, ok := os.LookupEnv("MEDIA_API_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitAndClean(v)
	}

	setString("MEDIA_API_TEMP_ROOT", &c.Downloads.TempRoot)
	setInt("MEDIA_API_MAX_CONCURRENT", &c.Downloads.MaxConcurrent)
	setString("MEDIA_API_AUDIO_BITRATE", &c.Downloads.AudioBitrate)

	setString("MEDIA_API_FFMPEG_PATH", &c.Tools.FFmpegPath)
	setBool("MEDIA_API_AUTO_INSTALL_YTDLP", &c.Tools.AutoInstallYtDlp)

	setInt("MEDIA_API_RATE_LIMIT_RPM", &c.RateLimit.RPM)

	setString("MEDIA_API_REDIS_ADDR", &c.Redis.Addr)
	setString("MEDIA_API_REDIS_PASSWORD", &c.Redis.Password)
	setInt("MEDIA_API_REDIS_DB", &c.Redis.DB)

	setString("MEDIA_API_HISTORY_PATH", &c.History.Path)

	setString("MEDIA_API_LOG_LEVEL", &c.Logging.Level)
	setString("MEDIA_API_LOG_FORMAT", &c.Logging.Format)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.ListenAddr) == "" {
		return fmt.Errorf("server.listen_addr must not be empty")
	}
	if strings.TrimSpace(c.Downloads.TempRoot) == "" {
		return fmt.Errorf("downloads.temp_root must not be empty")
	}
	if c.Downloads.MaxConcurrent < 0 {
		return fmt.Errorf("downloads.max_concurrent must not be negative")
	}
	if c.RateLimit.RPM < 0 {
		return fmt.Errorf("rate_limit.rpm must not be negative")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative")
	}
	return nil
}

func splitAndClean(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
