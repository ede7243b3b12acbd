package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytfetch/media-api/internal/model"
	"github.com/ytfetch/media-api/internal/quality"
)

// Download constants.
const (
	// OutputTemplate names downloaded files by title inside the run directory.
	OutputTemplate = "%(title)s.%(ext)s"

	// AudioCodec is the post-processing target for audio downloads.
	AudioCodec = "mp3"

	// VideoContainer is the merge target for video downloads.
	VideoContainer = "mp4"

	// DefaultMaxConcurrent bounds simultaneous yt-dlp invocations when the
	// configuration does not say otherwise.
	DefaultMaxConcurrent = 4
)

// Options configures a Service.
type Options struct {
	// FFmpegPath is handed to yt-dlp as its ffmpeg location. Empty means
	// yt-dlp resolves ffmpeg from PATH itself.
	FFmpegPath string

	// AudioBitrate is the default mp3 bitrate (kbps) when a request carries
	// no quality value.
	AudioBitrate string

	// MaxConcurrent bounds simultaneous yt-dlp invocations.
	MaxConcurrent int
}

// Service is the yt-dlp backed implementation of Fetcher.
type Service struct {
	ffmpegPath   string
	audioBitrate string
	slots        chan struct{}
	log          *slog.Logger
}

// NewService creates a fetch service with the given options.
func NewService(opts Options, log *slog.Logger) *Service {
	if opts.AudioBitrate == "" {
		opts.AudioBitrate = quality.DefaultAudioBitrate
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		ffmpegPath:   opts.FFmpegPath,
		audioBitrate: opts.AudioBitrate,
		slots:        make(chan struct{}, opts.MaxConcurrent),
		log:          log,
	}
}

// Download fetches the given URLs into dir, blocking until yt-dlp finishes.
// Audio downloads extract an mp3; video downloads merge the selected streams
// into an mp4. The quality value is forwarded verbatim: as a height cap for
// video, as the target bitrate for audio.
func (s *Service) Download(ctx context.Context, dir string, kind model.MediaKind, qualityValue string, urls ...string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no URLs to download")
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	dl := ytdlp.New().
		NoWarnings().
		RestrictFilenames().
		Output(filepath.Join(dir, OutputTemplate))

	if s.ffmpegPath != "" {
		dl = dl.FFmpegLocation(s.ffmpegPath)
	}

	switch kind {
	case model.MediaKindAudio:
		bitrate := qualityValue
		if bitrate == "" {
			bitrate = s.audioBitrate
		}
		dl = dl.Format(quality.AudioSelector).
			ExtractAudio().
			AudioFormat(AudioCodec).
			AudioQuality(bitrate)
	case model.MediaKindVideo:
		dl = dl.Format(quality.VideoSelector(qualityValue)).
			MergeOutputFormat(VideoContainer)
	default:
		return fmt.Errorf("unsupported media kind: %q", kind)
	}

	start := time.Now()
	if _, err := dl.Run(ctx, urls...); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	s.log.Debug("yt-dlp finished", "kind", kind.String(), "urls", len(urls), "elapsed", time.Since(start))
	return nil
}

// acquire takes a semaphore slot, honoring context cancellation while waiting.
func (s *Service) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) release() {
	<-s.slots
}

// Install fetches a managed yt-dlp binary when none is present on the host.
// Intended for startup, gated by configuration.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("yt-dlp install failed: %w", err)
	}
	return nil
}
