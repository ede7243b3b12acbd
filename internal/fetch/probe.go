package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lrstanley/go-ytdlp"
)

// URL templates.
const (
	// WatchURLTemplate reconstructs a video URL when a flat playlist entry
	// carries only an ID.
	WatchURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// MediaInfo is the reshaped output of a metadata-only probe.
type MediaInfo struct {
	ID       string
	Title    string
	Uploader string
	Duration float64
	Heights  []int
	Entries  []Entry
}

// Entry is one video of a channel or playlist listing.
type Entry struct {
	ID    string
	Title string
	URL   string
}

// probeJSON mirrors the fields of yt-dlp's single-JSON dump we consume.
type probeJSON struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
	Formats  []struct {
		Height int    `json:"height"`
		VCodec string `json:"vcodec"`
	} `json:"formats"`
	Entries []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"entries"`
}

// Probe queries metadata for a single URL without downloading anything.
func (s *Service) Probe(ctx context.Context, url string) (*MediaInfo, error) {
	res, err := ytdlp.New().
		DumpSingleJSON().
		NoWarnings().
		NoPlaylist().
		SkipDownload().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("metadata probe failed: %w", err)
	}
	return parseProbe(res.Stdout)
}

// ProbeFlat queries a channel or playlist URL in flat-extraction mode: entry
// listings only, no per-entry format resolution.
func (s *Service) ProbeFlat(ctx context.Context, url string) (*MediaInfo, error) {
	res, err := ytdlp.New().
		DumpSingleJSON().
		NoWarnings().
		FlatPlaylist().
		SkipDownload().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("flat probe failed: %w", err)
	}
	return parseProbe(res.Stdout)
}

// parseProbe reshapes a raw dump into MediaInfo. Video heights come from
// formats with a real video codec; flat entries get a constructed watch URL
// when the dump omits a direct link.
func parseProbe(raw string) (*MediaInfo, error) {
	var data probeJSON
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %w", err)
	}

	info := &MediaInfo{
		ID:       data.ID,
		Title:    data.Title,
		Uploader: data.Uploader,
		Duration: data.Duration,
	}

	for _, f := range data.Formats {
		if f.VCodec == "" || f.VCodec == "none" || f.Height <= 0 {
			continue
		}
		info.Heights = append(info.Heights, f.Height)
	}

	for _, e := range data.Entries {
		url := e.URL
		if url == "" && e.ID != "" {
			url = fmt.Sprintf(WatchURLTemplate, e.ID)
		}
		info.Entries = append(info.Entries, Entry{ID: e.ID, Title: e.Title, URL: url})
	}

	return info, nil
}
