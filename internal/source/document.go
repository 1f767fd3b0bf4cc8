package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource reads a path document produced by an external path provider.
// JSON and YAML are accepted, picked by file extension.
type FileSource struct {
	path string
}

func NewFileSource(path string) (*FileSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &FileSource{path: path}, nil
}

func (s *FileSource) Load() (*Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(s.path))
	doc, err := DecodeDocument(f, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(s.path), err)
	}
	return doc, nil
}

func (s *FileSource) Close() error {
	return nil
}

// DecodeDocument parses and validates a path document.
func DecodeDocument(r io.Reader, isYAML bool) (*Document, error) {
	var doc Document
	if isYAML {
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, err
		}
	} else {
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc.Normalized(), nil
}

// WriteJSON emits the geometry untouched, for callers that want paths
// without any rendering.
func WriteJSON(w io.Writer, doc *Document) error {
	paths := doc.Paths
	if paths == nil {
		paths = []PathRecord{}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(Document{Paths: paths, Viewport: doc.Viewport})
}

// StaticSource serves an in-memory document.
type StaticSource struct {
	Doc *Document
}

func (s StaticSource) Load() (*Document, error) {
	if s.Doc == nil {
		return (&Document{}).Normalized(), nil
	}
	if err := s.Doc.Validate(); err != nil {
		return nil, err
	}
	return s.Doc.Normalized(), nil
}

func (s StaticSource) Close() error {
	return nil
}
