package history

import (
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndRecent(t *testing.T) {
	s := setupTestStore(t)

	recs := []*Record{
		{URL: "https://example.com/a", Kind: "audio", Quality: "192", Status: StatusCompleted, SizeBytes: 1024, DurationMS: 900},
		{URL: "https://example.com/b", Kind: "video", Quality: "1080", Status: StatusFailed, Error: "no formats"},
	}
	for _, rec := range recs {
		if err := s.Add(rec); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
		if rec.ID == 0 {
			t.Error("Expected record ID to be assigned")
		}
	}

	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Failed to query recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}

	// Newest first.
	if got[0].URL != "https://example.com/b" {
		t.Errorf("Expected newest record first, got %q", got[0].URL)
	}
	if got[0].Status != StatusFailed {
		t.Errorf("Expected failed status, got %q", got[0].Status)
	}
	if got[0].Error != "no formats" {
		t.Errorf("Expected error message preserved, got %q", got[0].Error)
	}
	if got[1].SizeBytes != 1024 {
		t.Errorf("Expected size 1024, got %d", got[1].SizeBytes)
	}
}

func TestRecentLimit(t *testing.T) {
	s := setupTestStore(t)

	for i := 0; i < 5; i++ {
		if err := s.Add(&Record{URL: "https://example.com", Kind: "audio", Status: StatusCompleted}); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
	}

	got, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Failed to query recent: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 records, got %d", len(got))
	}
}

func TestCountByKind(t *testing.T) {
	s := setupTestStore(t)

	for _, kind := range []string{"audio", "audio", "video"} {
		if err := s.Add(&Record{URL: "https://example.com", Kind: kind, Status: StatusCompleted}); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
	}

	counts, err := s.CountByKind()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 kinds, got %d", len(counts))
	}
	if counts[0].Kind != "audio" || counts[0].Count != 2 {
		t.Errorf("Expected audio=2, got %s=%d", counts[0].Kind, counts[0].Count)
	}
	if counts[1].Kind != "video" || counts[1].Count != 1 {
		t.Errorf("Expected video=1, got %s=%d", counts[1].Kind, counts[1].Count)
	}
}
