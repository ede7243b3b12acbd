package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ytfetch/media-api/internal/config"
	"github.com/ytfetch/media-api/internal/fetch"
	"github.com/ytfetch/media-api/internal/history"
	"github.com/ytfetch/media-api/internal/logging"
	"github.com/ytfetch/media-api/internal/ratelimit"
	"github.com/ytfetch/media-api/internal/server"
	"github.com/ytfetch/media-api/internal/transcode"
	"github.com/ytfetch/media-api/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	writeSample := flag.Bool("write-sample-config", false, "write a sample configuration file and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(server.Version)
		return
	}
	if *writeSample {
		if err := config.WriteSample(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("wrote", *configPath)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tools.AutoInstallYtDlp {
		log.Info("ensuring yt-dlp is available")
		if err := fetch.Install(ctx); err != nil {
			return fmt.Errorf("failed to install yt-dlp: %w", err)
		}
	}

	ffmpegPath := ""
	locator := transcode.NewLocator(cfg.Tools.FFmpegPath)
	if p, err := locator.Resolve(); err != nil {
		log.Warn("ffmpeg not found, audio extraction and merging will fail", "error", err)
	} else {
		ffmpegPath = p
		if v, err := locator.Version(ctx); err == nil {
			log.Info("ffmpeg located", "path", p, "version", v)
		}
	}

	ws, err := workspace.NewManager(cfg.Downloads.TempRoot, log)
	if err != nil {
		return fmt.Errorf("failed to prepare workspace: %w", err)
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, rate limiting falls back to local counters", "error", err)
		}
		cancel()
		defer rdb.Close()
	}

	fetcher := fetch.NewService(fetch.Options{
		FFmpegPath:    ffmpegPath,
		AudioBitrate:  cfg.Downloads.AudioBitrate,
		MaxConcurrent: cfg.Downloads.MaxConcurrent,
	}, log)

	srv := server.New(cfg, fetcher, ws, store, ratelimit.New(rdb, cfg.RateLimit.RPM), log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
