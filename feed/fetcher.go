// Package feed retrieves the raw spreadsheet bytes over HTTP. It is the one
// blocking collaborator in the system; everything downstream is synchronous.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/superprecos/go-compara-precos/config"
)

// Fetcher downloads the published CSV with a timeout, a browser user agent,
// and capped exponential-backoff retries.
type Fetcher struct {
	cfg       *config.Config
	metrics   *Metrics
	transport http.RoundTripper
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg *config.Config, metrics *Metrics) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("feed url must include a host")
	}

	return &Fetcher{
		cfg:     cfg,
		metrics: metrics,
		transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}, nil
}

// WithTransport swaps the HTTP transport. Tests use this to install a mock.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.transport = rt
}

// URL returns the feed URL this fetcher targets.
func (f *Fetcher) URL() string {
	return f.cfg.FeedURL
}

// Fetch downloads the feed, retrying failed attempts up to the configured
// limit. It returns the raw body bytes or the classified error of the last
// attempt.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			f.metrics.IncRetries()
			if err := sleepContext(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		body, err := f.fetchOnce()
		f.metrics.IncFetch()
		f.metrics.ObserveDuration(time.Since(start))

		if err == nil {
			return body, nil
		}
		lastErr = err
		f.metrics.IncError(errorTypeLabel(err))
		slog.Warn("feed fetch failed",
			slog.String("url", f.cfg.FeedURL),
			slog.Int("attempt", attempt+1),
			slog.String("category", errorTypeLabel(err)),
			slog.Any("error", err),
		)
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce() ([]byte, error) {
	collector := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
	)
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(f.transport)

	var (
		body      []byte
		responded bool
		status    int
		reqErr    error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
		responded = true
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	if err := collector.Visit(f.cfg.FeedURL); err != nil && reqErr == nil {
		reqErr = err
	}
	collector.Wait()

	if reqErr != nil {
		return nil, classifyError(reqErr, status)
	}
	if !responded {
		return nil, ErrConnection{Err: fmt.Errorf("no response from feed host")}
	}
	return body, nil
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := f.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := f.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
