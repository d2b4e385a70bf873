// Package avatar imports profile photos from identity providers into an
// avatar store. Import is always best-effort from the caller's point of
// view: a flaky third-party image host must never break a login.
package avatar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Store persists avatar images keyed by account id.
type Store interface {
	Set(ctx context.Context, accountID string, image []byte) error
}

// Importer fetches a photo URL and writes it to a Store.
type Importer struct {
	client  *http.Client
	store   Store
	maxSize int64
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithHTTPClient sets a custom HTTP client for image fetches.
func WithHTTPClient(client *http.Client) ImporterOption {
	return func(i *Importer) {
		if client != nil {
			i.client = client
		}
	}
}

// WithMaxSize caps the accepted image size in bytes.
func WithMaxSize(n int64) ImporterOption {
	return func(i *Importer) {
		if n > 0 {
			i.maxSize = n
		}
	}
}

// NewImporter creates an importer writing to the given store.
// Defaults: 10s fetch timeout, 5 MiB size cap.
func NewImporter(store Store, opts ...ImporterOption) *Importer {
	imp := &Importer{
		client:  &http.Client{Timeout: 10 * time.Second},
		store:   store,
		maxSize: 5 << 20,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import fetches the image at photoURL and stores it as the account's
// avatar. The fetch is a single bounded call; responses that are not images
// or exceed the size cap are rejected.
func (i *Importer) Import(ctx context.Context, accountID, photoURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return fmt.Errorf("build avatar request: %w", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch avatar: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: content type %q", ErrNotAnImage, ct)
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, i.maxSize+1))
	if err != nil {
		return fmt.Errorf("read avatar body: %w", err)
	}
	if int64(len(image)) > i.maxSize {
		return ErrTooLarge
	}
	if len(image) == 0 {
		return ErrFetchFailed
	}

	if err := i.store.Set(ctx, accountID, image); err != nil {
		return fmt.Errorf("store avatar: %w", err)
	}
	return nil
}
