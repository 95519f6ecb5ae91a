// Package loader reads blank document templates from disk, an fs.FS or a
// remote URL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	pkgtemplate "github.com/pccclearclinic/form-filling-template/pkg/template"
)

// Loader implements pkgtemplate.Loader.
type Loader struct {
	files    fs.FS
	client   *http.Client
	maxBytes int64
}

var _ pkgtemplate.Loader = (*Loader)(nil)

// New builds a Loader. Remote fetches share one client whose timeout comes
// from RequestTimeout unless the injected client already carries one.
func New(options pkgtemplate.LoaderOptions) *Loader {
	l := &Loader{
		files:    options.FileSystem,
		maxBytes: options.MaxTemplateBytes,
	}
	if l.maxBytes <= 0 {
		l.maxBytes = pkgtemplate.DefaultMaxTemplateBytes
	}
	if options.DisableHTTP {
		return l
	}
	if options.HTTPClient == nil {
		l.client = &http.Client{Timeout: options.RequestTimeout}
		return l
	}
	client := *options.HTTPClient
	if client.Timeout == 0 {
		client.Timeout = options.RequestTimeout
	}
	l.client = &client
	return l
}

// Load returns the template bytes behind src. Every error wraps
// pkgtemplate.ErrTemplateFetch.
func (l *Loader) Load(ctx context.Context, src pkgtemplate.Source) ([]byte, error) {
	if src.IsZero() {
		return nil, fmt.Errorf("%w: no template source", pkgtemplate.ErrTemplateFetch)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgtemplate.ErrTemplateFetch, src.Location(), err)
	}

	data, err := l.read(ctx, src)
	if err == nil && len(data) == 0 {
		err = errors.New("template is empty")
	}
	if err == nil && int64(len(data)) > l.maxBytes {
		err = fmt.Errorf("template exceeds %d bytes", l.maxBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pkgtemplate.ErrTemplateFetch, src.Location(), err)
	}
	return data, nil
}

func (l *Loader) read(ctx context.Context, src pkgtemplate.Source) ([]byte, error) {
	switch src.Kind() {
	case pkgtemplate.SourceKindFile:
		return os.ReadFile(src.Location())
	case pkgtemplate.SourceKindFS:
		if l.files == nil {
			return nil, errors.New("no template directory configured")
		}
		return fs.ReadFile(l.files, src.Location())
	case pkgtemplate.SourceKindURL:
		if l.client == nil {
			return nil, errors.New("remote templates are disabled")
		}
		return l.download(ctx, src.Location())
	default:
		return nil, fmt.Errorf("unsupported source kind %q", src.Kind())
	}
}
