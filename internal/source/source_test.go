package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoxSource(t *testing.T) {
	doc, err := NewBoxSource("ab", 100, 0).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(doc.Paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(doc.Paths))
	}
	for i, p := range doc.Paths {
		if p.CharIndex != i {
			t.Errorf("path %d: expected char index %d, got %d", i, i, p.CharIndex)
		}
		// 50x100 box
		if p.Length != 300 {
			t.Errorf("path %d: expected length 300, got %v", i, p.Length)
		}
	}
	if doc.Paths[0].PathData != "M10 100L60 100L60 200L10 200Z" {
		t.Errorf("unexpected path data %q", doc.Paths[0].PathData)
	}

	want := Viewport{X: -30, Y: 60, W: 180, H: 180}
	if diff := cmp.Diff(want, doc.Viewport); diff != "" {
		t.Errorf("viewport mismatch (-want +got):\n%s", diff)
	}
}

func TestBoxSourceEmpty(t *testing.T) {
	doc, err := NewBoxSource("", 100, 0).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Paths) != 0 {
		t.Errorf("Expected no paths, got %d", len(doc.Paths))
	}
	if doc.Viewport != DefaultViewport {
		t.Errorf("Expected default viewport, got %+v", doc.Viewport)
	}

	if _, err := NewBoxSource("x", 0, 0).Load(); err == nil {
		t.Error("Expected error for zero font size")
	}
}

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		yaml    bool
		wantErr bool
		paths   int
	}{
		{
			name:  "json",
			input: `{"paths":[{"d":"M0 0L10 0","len":10,"index":0},{"d":"M0 0","len":0,"index":1,"isHanzi":true,"placement":{"x":10,"fontSize":100}}],"viewBox":{"x":0,"y":0,"w":200,"h":100}}`,
			paths: 2,
		},
		{
			name:  "yaml",
			input: "paths:\n  - d: M0 0L10 0\n    len: 10\n    index: 0\nviewBox: {x: 0, y: 0, w: 50, h: 50}\n",
			yaml:  true,
			paths: 1,
		},
		{
			name:    "negative length",
			input:   `{"paths":[{"d":"M0 0","len":-1,"index":0}],"viewBox":{"w":10,"h":10}}`,
			wantErr: true,
		},
		{
			name:    "bad placement",
			input:   `{"paths":[{"d":"M0 0","len":1,"index":0,"placement":{"x":1,"fontSize":0}}],"viewBox":{"w":10,"h":10}}`,
			wantErr: true,
		},
		{
			name:  "empty falls back to default viewport",
			input: `{"paths":[]}`,
			paths: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument(strings.NewReader(tt.input), tt.yaml)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(doc.Paths) != tt.paths {
				t.Errorf("Expected %d paths, got %d", tt.paths, len(doc.Paths))
			}
			if tt.paths == 0 && doc.Viewport != DefaultViewport {
				t.Errorf("Expected default viewport, got %+v", doc.Viewport)
			}
		})
	}
}

func TestFileSourceRoundTrip(t *testing.T) {
	doc, err := NewBoxSource("hi", 80, 4).Load()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	defer src.Close()

	got, err := src.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewFileSource(t.TempDir()); err == nil {
		t.Error("Expected error for directory input")
	}
}

func TestHasReversed(t *testing.T) {
	doc := &Document{Paths: []PathRecord{{Length: 1}}}
	if doc.HasReversed() {
		t.Error("Expected no reversed records")
	}
	doc.Paths = append(doc.Paths, PathRecord{Length: 1, Reversed: true})
	if !doc.HasReversed() {
		t.Error("Expected reversed record to be detected")
	}
}
