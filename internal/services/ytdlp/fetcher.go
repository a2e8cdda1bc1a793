package ytdlp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ytharvest/internal/services"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxSubtitlePayload  = 32 << 20
	defaultFetchUA      = "ytharvest/1.0"
	fetchComponent      = "subtitle_fetch"
)

// SubtitleFetcher retrieves a remote subtitle payload.
type SubtitleFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads subtitle payloads directly, paced by a token bucket.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua = strings.TrimSpace(ua); ua != "" {
			f.userAgent = ua
		}
	}
}

// NewHTTPFetcher builds a fetcher allowing requestsPerSecond requests on
// average with a burst of one. A non-positive rate disables pacing.
func NewHTTPFetcher(requestsPerSecond float64, opts ...FetcherOption) *HTTPFetcher {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: defaultFetchUA,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url and returns its body. Non-2xx responses are errors;
// 429 and 5xx are tagged transient.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, services.Wrap(services.ErrValidation, fetchComponent, "fetch", "empty url", nil)
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, fetchComponent, "build request", "", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, fetchComponent, "request", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			marker = services.ErrTransient
		}
		return nil, services.Wrap(marker, fetchComponent, "request", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSubtitlePayload))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, fetchComponent, "read body", "", err)
	}
	return body, nil
}
