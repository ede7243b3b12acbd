package quality

import (
	"fmt"
	"sort"

	"github.com/ytfetch/media-api/internal/model"
)

// Selection and output constants.
const (
	// AudioSelector picks the best available audio-only stream, falling back
	// to the best combined stream when the source has no audio-only formats.
	AudioSelector = "bestaudio/best"

	// BestVideoSelector is used when no height cap was requested.
	BestVideoSelector = "bestvideo+bestaudio/best"

	// DefaultAudioBitrate is the target bitrate (kbps) for mp3 extraction.
	DefaultAudioBitrate = "192"

	// DefaultVideoValue is the single option offered when a source exposes
	// none of the standard heights.
	DefaultVideoValue = "best"
	DefaultVideoLabel = "Best available"

	// MaxVideoOptions caps how many height options /api/info returns.
	MaxVideoOptions = 5
)

// bitrateByHeight maps the eight standard video heights to a human-readable
// bitrate-range label. Read-only for the process lifetime.
var bitrateByHeight = map[int]string{
	144:  "0.1-0.2 Mbps",
	240:  "0.3-0.5 Mbps",
	360:  "0.5-1 Mbps",
	480:  "1-1.5 Mbps",
	720:  "2.5-4 Mbps",
	1080: "4-8 Mbps",
	1440: "9-18 Mbps",
	2160: "20-45 Mbps",
}

// audioBitrates is the fixed list of audio options offered regardless of the
// source, highest first.
var audioBitrates = []int{320, 256, 192, 128, 64}

// Label returns the bitrate-range label for one of the standard heights.
func Label(height int) (string, bool) {
	label, ok := bitrateByHeight[height]
	return label, ok
}

// VideoSelector builds the yt-dlp format-selection expression for a video
// download. The quality value is embedded verbatim as a height cap; an empty
// or "best" quality selects the best available streams.
func VideoSelector(quality string) string {
	if quality == "" || quality == DefaultVideoValue {
		return BestVideoSelector
	}
	return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", quality, quality)
}

// VideoOptions reshapes the heights reported by the extractor into the option
// list shown to the caller: deduplicated against the static table, sorted
// descending, capped at MaxVideoOptions. A source with no standard heights
// yields exactly the single default option.
func VideoOptions(heights []int) []model.QualityOption {
	seen := make(map[int]bool, len(heights))
	matched := make([]int, 0, len(heights))
	for _, h := range heights {
		if seen[h] {
			continue
		}
		seen[h] = true
		if _, ok := bitrateByHeight[h]; ok {
			matched = append(matched, h)
		}
	}

	if len(matched) == 0 {
		return []model.QualityOption{{Value: DefaultVideoValue, Label: DefaultVideoLabel}}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(matched)))
	if len(matched) > MaxVideoOptions {
		matched = matched[:MaxVideoOptions]
	}

	options := make([]model.QualityOption, 0, len(matched))
	for _, h := range matched {
		options = append(options, model.QualityOption{
			Value: fmt.Sprintf("%d", h),
			Label: fmt.Sprintf("%dp (%s)", h, bitrateByHeight[h]),
		})
	}
	return options
}

// AudioOptions returns the fixed audio bitrate option list.
func AudioOptions() []model.QualityOption {
	options := make([]model.QualityOption, 0, len(audioBitrates))
	for _, b := range audioBitrates {
		options = append(options, model.QualityOption{
			Value: fmt.Sprintf("%d", b),
			Label: fmt.Sprintf("%d kbps", b),
		})
	}
	return options
}
