package fetch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheFileName(t *testing.T) {
	tests := []struct {
		url, prefix string
		want        string
	}{
		{"https://example.com/data/chlorophyll_2003_spring.json", "[chl 2003]", "chl_2003_chlorophyll_2003_spring.json"},
		{"https://example.com/data/time_series_index.json", "", "time_series_index.json"},
		{"https://example.com/whale_sharks_complete.json", "[tracks]", "tracks_whale_sharks_complete.json"},
	}

	for _, tt := range tests {
		if got := CacheFileName(tt.url, tt.prefix); got != tt.want {
			t.Errorf("CacheFileName(%q, %q) = %q; want %q", tt.url, tt.prefix, got, tt.want)
		}
	}
}

func TestOpenLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path, false, "[test]")
	if err != nil {
		t.Fatalf("Open(%q) returned error: %v", path, err)
	}
	defer r.Close()

	buf := make([]byte, 2)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf) != "[]" {
		t.Errorf("read %q; want []", buf)
	}
}
