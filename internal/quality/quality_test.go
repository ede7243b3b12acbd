package quality

import (
	"strings"
	"testing"
)

func TestLabelCoversStandardHeights(t *testing.T) {
	heights := []int{144, 240, 360, 480, 720, 1080, 1440, 2160}

	for _, h := range heights {
		label, ok := Label(h)
		if !ok {
			t.Errorf("Expected label for height %d, got none", h)
		}
		if label == "" {
			t.Errorf("Expected non-empty label for height %d", h)
		}
	}
}

func TestLabelRejectsOtherHeights(t *testing.T) {
	for _, h := range []int{0, -1, 100, 540, 768, 1081, 4320} {
		if label, ok := Label(h); ok {
			t.Errorf("Expected no label for height %d, got %q", h, label)
		}
	}
}

func TestVideoSelectorEmbedsQualityVerbatim(t *testing.T) {
	for _, q := range []string{"144", "360", "720", "1080", "2160"} {
		selector := VideoSelector(q)
		if strings.Count(selector, q) < 2 {
			t.Errorf("Expected selector to embed %q twice, got %q", q, selector)
		}
		if !strings.Contains(selector, "bestvideo[height<="+q+"]") {
			t.Errorf("Expected height cap for %q in selector, got %q", q, selector)
		}
	}
}

func TestVideoSelectorDefaults(t *testing.T) {
	if got := VideoSelector(""); got != BestVideoSelector {
		t.Errorf("Expected %q for empty quality, got %q", BestVideoSelector, got)
	}
	if got := VideoSelector("best"); got != BestVideoSelector {
		t.Errorf("Expected %q for quality 'best', got %q", BestVideoSelector, got)
	}
}

func TestVideoOptionsSortedAndDeduplicated(t *testing.T) {
	options := VideoOptions([]int{360, 1080, 360, 720, 1080})

	if len(options) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(options))
	}

	expected := []string{"1080", "720", "360"}
	for i, want := range expected {
		if options[i].Value != want {
			t.Errorf("Expected option %d to be %q, got %q", i, want, options[i].Value)
		}
	}
}

func TestVideoOptionsIgnoresNonStandardHeights(t *testing.T) {
	options := VideoOptions([]int{540, 1080, 768})

	if len(options) != 1 {
		t.Fatalf("Expected 1 option, got %d", len(options))
	}
	if options[0].Value != "1080" {
		t.Errorf("Expected 1080, got %q", options[0].Value)
	}
}

func TestVideoOptionsCappedAtFive(t *testing.T) {
	options := VideoOptions([]int{144, 240, 360, 480, 720, 1080, 1440, 2160})

	if len(options) != MaxVideoOptions {
		t.Fatalf("Expected %d options, got %d", MaxVideoOptions, len(options))
	}
	if options[0].Value != "2160" {
		t.Errorf("Expected highest option first, got %q", options[0].Value)
	}
	if options[len(options)-1].Value != "480" {
		t.Errorf("Expected 480 as last option, got %q", options[len(options)-1].Value)
	}
}

func TestVideoOptionsDefaultWhenNoneMatch(t *testing.T) {
	for _, heights := range [][]int{nil, {}, {100, 200}} {
		options := VideoOptions(heights)
		if len(options) != 1 {
			t.Fatalf("Expected exactly one default option, got %d", len(options))
		}
		if options[0].Value != DefaultVideoValue {
			t.Errorf("Expected default option %q, got %q", DefaultVideoValue, options[0].Value)
		}
	}
}

func TestAudioOptionsFixed(t *testing.T) {
	options := AudioOptions()

	if len(options) != 5 {
		t.Fatalf("Expected 5 audio options, got %d", len(options))
	}
	if options[0].Value != "320" {
		t.Errorf("Expected highest bitrate first, got %q", options[0].Value)
	}
	for _, opt := range options {
		if !strings.HasSuffix(opt.Label, "kbps") {
			t.Errorf("Expected kbps label, got %q", opt.Label)
		}
	}
}
