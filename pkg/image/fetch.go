// Package image turns event photo URLs into terminal output: it downloads
// and caches the source bytes, scales them to a cell box and encodes the
// result as half-block text or a graphics protocol escape.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"gitlab.com/tinyland/lab/eventreel/pkg/cache"
)

// DefaultMaxPhotoBytes caps a single download.
const DefaultMaxPhotoBytes = 16 << 20

// ErrTooLarge is returned for photos over the download cap.
var ErrTooLarge = errors.New("photo exceeds download limit")

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.http = c }
}

// WithStore keeps downloaded bytes in s so photos survive restarts.
func WithStore(s *cache.Store) FetcherOption {
	return func(f *Fetcher) { f.store = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// WithMaxBytes overrides DefaultMaxPhotoBytes.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) { f.maxBytes = n }
}

// Fetcher downloads and decodes photos. Concurrent requests for the same URL
// share one download.
type Fetcher struct {
	http     *http.Client
	store    *cache.Store
	logger   *slog.Logger
	maxBytes int64
	flight   singleflight.Group

	mu        sync.Mutex
	downloads int
}

// NewFetcher returns a Fetcher with the given options applied.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   slog.Default(),
		maxBytes: DefaultMaxPhotoBytes,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Downloads reports how many network fetches have completed.
func (f *Fetcher) Downloads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads
}

// Fetch returns the decoded photo at url, EXIF orientation applied.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	data, err := f.Bytes(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// Bytes returns the raw photo bytes, from the store when present. URLs
// without an http(s) scheme are read from the local filesystem.
func (f *Fetcher) Bytes(ctx context.Context, url string) ([]byte, error) {
	if path, ok := localPath(url); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read photo: %w", err)
		}
		return data, nil
	}
	if f.store != nil {
		if data, ok := f.store.Get(url); ok {
			return data, nil
		}
	}

	v, err, _ := f.flight.Do(url, func() (any, error) {
		data, err := f.download(ctx, url)
		if err != nil {
			return nil, err
		}
		if f.store != nil {
			if err := f.store.Put(url, data); err != nil {
				f.logger.Warn("photo cache write failed", "url", url, "error", err)
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func localPath(url string) (string, bool) {
	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		return rest, true
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return "", false
	}
	return url, true
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	start := time.Now()
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("fetch %s: %w", url, ErrTooLarge)
	}

	f.mu.Lock()
	f.downloads++
	f.mu.Unlock()
	f.logger.Debug("photo downloaded", "url", url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

// Prefetch warms the cache for urls with at most limit downloads in flight.
// Every failure is reported; successful photos stay cached either way.
func (f *Fetcher) Prefetch(ctx context.Context, urls []string, limit int) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(max(limit, 1))
	for _, u := range urls {
		g.Go(func() error {
			if _, err := f.Bytes(ctx, u); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
