// Package photos downloads destination photos for the terminal preview and
// the itinerary export.
package photos

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/nfnt/resize"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"viajeia/internal/logger"
	"viajeia/internal/planner"
)

const (
	// MaxDimension bounds both sides of a decoded photo.
	MaxDimension = 1200

	cacheTTL      = 10 * time.Minute
	maxPhotoBytes = 20 << 20
	parallelism   = 4
)

// ErrUndecodable is returned when the downloaded bytes are not an image.
var ErrUndecodable = errors.New("photo could not be decoded")

// Fetcher downloads and decodes photos, caching the results.
type Fetcher struct {
	httpClient *http.Client
	cache      *cache.Cache
	log        *logger.Logger
}

// NewFetcher creates a fetcher with an empty cache.
func NewFetcher(log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: planner.Timeout},
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		log:        log.Named("photos"),
	}
}

// Fetch returns the photo at url, downscaled to fit MaxDimension.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if cached, ok := f.cache.Get(url); ok {
		return cached.(image.Image), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, planner.Connectivity(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &planner.ServiceError{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	img = resize.Thumbnail(MaxDimension, MaxDimension, img, resize.Lanczos3)
	f.cache.Set(url, img, cache.DefaultExpiration)
	return img, nil
}

// Result is the outcome of fetching one photo.
type Result struct {
	URL   string
	Image image.Image
	Err   error
}

// FetchAll fetches urls in parallel. Results are in input order and a failed
// photo never affects the others.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			img, err := f.Fetch(ctx, url)
			if err != nil {
				f.log.Debug("photo unavailable", zap.String("url", url), zap.Error(err))
			}
			results[i] = Result{URL: url, Image: img, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
