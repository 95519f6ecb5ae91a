package template

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind says which reader a Loader uses for a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// fsPrefix marks registry template locations served from the configured
// template directory.
const fsPrefix = "fs:"

// Source is a template location tagged with how to read it. The zero Source
// refers to nothing.
type Source struct {
	kind     SourceKind
	location string
}

// Kind reports the reader for s.
func (s Source) Kind() SourceKind { return s.kind }

// Location is the path, fs.FS name or URL.
func (s Source) Location() string { return s.location }

// IsZero reports whether s was never set.
func (s Source) IsZero() bool { return s.kind == "" && s.location == "" }

func (s Source) String() string {
	if s.kind == SourceKindFS {
		return fsPrefix + s.location
	}
	return s.location
}

// File points at a template on disk.
func File(path string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// FS points at a template inside the loader's fs.FS.
func FS(name string) Source {
	return Source{kind: SourceKindFS, location: strings.TrimPrefix(name, "/")}
}

// URL points at a remote template. Only absolute http and https URLs are
// accepted.
func URL(raw string) (Source, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("template: invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Source{}, fmt.Errorf("template: %q is not an http(s) URL", raw)
	}
	return Source{kind: SourceKindURL, location: raw}, nil
}

// ParseSource reads a registry template location: http(s) URLs, "fs:" names
// or file paths.
func ParseSource(raw string) (Source, error) {
	location := strings.TrimSpace(raw)
	lower := strings.ToLower(location)
	switch {
	case location == "":
		return Source{}, errors.New("template: location is required")
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return URL(location)
	case strings.HasPrefix(location, fsPrefix):
		return FS(strings.TrimPrefix(location, fsPrefix)), nil
	default:
		return File(location), nil
	}
}
