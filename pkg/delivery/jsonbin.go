package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSONBinStore keeps the count in a JSONBin-style record: GET returns
// {"record":{"count":N}}, PUT replaces the record with {"count":N}.
type JSONBinStore struct {
	URL       string
	MasterKey string
	AccessKey string
	Client    *http.Client
}

var _ CounterStore = (*JSONBinStore)(nil)

type jsonBinRead struct {
	Record struct {
		Count int `json:"count"`
	} `json:"record"`
}

type jsonBinWrite struct {
	Count int `json:"count"`
}

func (s *JSONBinStore) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *JSONBinStore) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	if s.URL == "" {
		return nil, errors.New("delivery: counter url is required")
	}
	req, err := http.NewRequestWithContext(ctx, method, s.URL, body)
	if err != nil {
		return nil, err
	}
	if s.MasterKey != "" {
		req.Header.Set("X-Master-Key", s.MasterKey)
	}
	if s.AccessKey != "" {
		req.Header.Set("X-Access-Key", s.AccessKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Read implements CounterStore.
func (s *JSONBinStore) Read(ctx context.Context) (int, error) {
	req, err := s.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("delivery: counter read: unexpected status %s", resp.Status)
	}

	var payload jsonBinRead
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("delivery: counter read: %w", err)
	}
	return payload.Record.Count, nil
}

// Write implements CounterStore.
func (s *JSONBinStore) Write(ctx context.Context, count int) error {
	body, err := json.Marshal(jsonBinWrite{Count: count})
	if err != nil {
		return err
	}
	req, err := s.newRequest(ctx, http.MethodPut, bytes.NewReader(body))
	if err != nil {
		return err
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delivery: counter write: unexpected status %s", resp.Status)
	}
	return nil
}
