package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// StatusError reports a template server answering outside 2xx.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("template server answered %d %s", e.Status, http.StatusText(e.Status))
}

func (l *Loader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf, */*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}
	// One byte past the cap lets Load tell a full-size template from a
	// truncated oversized one.
	return io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
}
