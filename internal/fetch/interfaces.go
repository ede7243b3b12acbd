package fetch

import (
	"context"

	"github.com/ytfetch/media-api/internal/model"
)

// Fetcher defines the interface for the media extraction service.
type Fetcher interface {
	// Download fetches the given URLs into dir, blocking until done.
	Download(ctx context.Context, dir string, kind model.MediaKind, quality string, urls ...string) error

	// Probe queries metadata for a single URL without downloading.
	Probe(ctx context.Context, url string) (*MediaInfo, error)

	// ProbeFlat queries a channel/playlist URL in flat-extraction mode.
	ProbeFlat(ctx context.Context, url string) (*MediaInfo, error)
}

var _ Fetcher = (*Service)(nil)
