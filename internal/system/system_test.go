package system

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	r := image.Rect(0, 0, 16, 9)

	img := p.Get(r)
	if img.Rect != r {
		t.Fatalf("Expected bounds %v, got %v", r, img.Rect)
	}
	p.Put(img)
	p.Put(nil)
	// Buffers of unknown sizes are dropped.
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))

	if got := p.Get(r); got.Rect != r {
		t.Errorf("Expected bounds %v after reuse, got %v", r, got.Rect)
	}
}

func TestWorkers(t *testing.T) {
	if got := Workers(3, 0); got != 3 {
		t.Errorf("explicit request: got %d, want 3", got)
	}
	if got := Workers(0, 0); got < 1 {
		t.Errorf("auto: got %d workers", got)
	}
	// No machine holds two frames of this size.
	if got := Workers(8, 1<<62); got != 1 {
		t.Errorf("memory cap: got %d, want 1", got)
	}
}

func TestFindLatestDocument(t *testing.T) {
	dir := t.TempDir()

	if _, err := FindLatestDocument(dir); err == nil {
		t.Error("Expected error for empty dir")
	}

	old := filepath.Join(dir, "old.json")
	latest := filepath.Join(dir, "latest.YAML")
	ignored := filepath.Join(dir, "newest.txt")
	for _, p := range []string{old, latest, ignored} {
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	now := time.Now()
	os.Chtimes(old, now.Add(-2*time.Hour), now.Add(-2*time.Hour))
	os.Chtimes(latest, now.Add(-time.Hour), now.Add(-time.Hour))

	got, err := FindLatestDocument(dir)
	if err != nil {
		t.Fatalf("FindLatestDocument failed: %v", err)
	}
	if got != latest {
		t.Errorf("Expected %s, got %s", latest, got)
	}
}

func TestOutputName(t *testing.T) {
	got := OutputName("output", "input/paths/my doc.json", "gif")
	if filepath.Dir(got) != "output" || !strings.HasPrefix(filepath.Base(got), "my_doc_") || filepath.Ext(got) != ".gif" {
		t.Errorf("unexpected output name %s", got)
	}
	if !strings.HasPrefix(filepath.Base(OutputName("out", "", "svg")), "signature_") {
		t.Error("Expected fallback base name")
	}
}
