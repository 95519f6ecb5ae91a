package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ContentTypePDF is the media type of filled documents.
const ContentTypePDF = "application/pdf"

// Artifact is a finished document ready to hand to the user.
type Artifact struct {
	Document    string
	Filename    string
	ContentType string
	Data        []byte
}

func (a Artifact) validate() error {
	if len(a.Data) == 0 {
		return errors.New("delivery: artifact is empty")
	}
	if strings.TrimSpace(a.Filename) == "" {
		return errors.New("delivery: filename is required")
	}
	if name := filepath.Base(a.Filename); name != a.Filename || name == "." || name == ".." {
		return fmt.Errorf("delivery: filename %q must not contain a path", a.Filename)
	}
	return nil
}

func (a Artifact) contentType() string {
	if a.ContentType == "" {
		return ContentTypePDF
	}
	return a.ContentType
}

// Sink hands an artifact to the user-facing save mechanism.
type Sink interface {
	Deliver(ctx context.Context, artifact Artifact) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, artifact Artifact) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, artifact Artifact) error {
	return f(ctx, artifact)
}

// DirSink saves artifacts under Dir using their suggested filename.
type DirSink struct {
	Dir string
}

// Deliver writes the artifact atomically via a temp file rename.
func (s DirSink) Deliver(ctx context.Context, artifact Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := artifact.validate(); err != nil {
		return err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("delivery: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+artifact.Filename+".*")
	if err != nil {
		return fmt.Errorf("delivery: temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(artifact.Data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("delivery: write %s: %w", artifact.Filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("delivery: close %s: %w", artifact.Filename, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, artifact.Filename)); err != nil {
		return fmt.Errorf("delivery: save %s: %w", artifact.Filename, err)
	}
	return nil
}

// WriterSink streams the artifact bytes to W.
type WriterSink struct {
	W io.Writer
}

// Deliver implements Sink.
func (s WriterSink) Deliver(ctx context.Context, artifact Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := artifact.validate(); err != nil {
		return err
	}
	if s.W == nil {
		return errors.New("delivery: writer is nil")
	}
	_, err := s.W.Write(artifact.Data)
	return err
}

// HTTPSink answers an HTTP request with the artifact as a download.
type HTTPSink struct {
	W http.ResponseWriter
}

// Deliver sets attachment headers and writes the body with status 200.
func (s HTTPSink) Deliver(ctx context.Context, artifact Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := artifact.validate(); err != nil {
		return err
	}
	header := s.W.Header()
	header.Set("Content-Type", artifact.contentType())
	header.Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	s.W.WriteHeader(http.StatusOK)
	_, err := s.W.Write(artifact.Data)
	return err
}
