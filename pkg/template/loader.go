package template

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// ErrTemplateFetch marks every failure to obtain usable template bytes.
var ErrTemplateFetch = errors.New("template: fetch failed")

// DefaultMaxTemplateBytes bounds templates when no limit is configured.
const DefaultMaxTemplateBytes int64 = 32 << 20

// Loader returns the raw bytes of a blank template.
type Loader interface {
	Load(ctx context.Context, src Source) ([]byte, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, src Source) ([]byte, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, src Source) ([]byte, error) {
	return f(ctx, src)
}

// LoaderOptions configures the default loader.
type LoaderOptions struct {
	// FileSystem serves SourceKindFS templates.
	FileSystem fs.FS

	// HTTPClient replaces the client built from RequestTimeout.
	HTTPClient *http.Client

	// DisableHTTP rejects URL sources for offline deployments.
	DisableHTTP bool

	// RequestTimeout bounds one remote fetch. Zero means no timeout.
	RequestTimeout time.Duration

	// MaxTemplateBytes rejects larger templates. Zero means
	// DefaultMaxTemplateBytes.
	MaxTemplateBytes int64
}

// LoaderOption sets one LoaderOptions field.
type LoaderOption func(*LoaderOptions)

// WithFileSystem serves fs: template locations from files.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(o *LoaderOptions) { o.FileSystem = files }
}

// WithHTTPClient fetches remote templates through client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(o *LoaderOptions) { o.HTTPClient = client }
}

// WithRequestTimeout bounds each remote fetch.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) { o.RequestTimeout = timeout }
}

// WithMaxTemplateBytes caps template size.
func WithMaxTemplateBytes(n int64) LoaderOption {
	return func(o *LoaderOptions) { o.MaxTemplateBytes = n }
}

// WithoutHTTP rejects URL sources.
func WithoutHTTP() LoaderOption {
	return func(o *LoaderOptions) { o.DisableHTTP = true }
}

// NewLoaderOptions folds options into a LoaderOptions. Nil options are
// skipped.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	var out LoaderOptions
	for _, apply := range options {
		if apply != nil {
			apply(&out)
		}
	}
	return out
}
