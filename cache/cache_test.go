package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/superprecos/go-compara-precos/catalog"
	"github.com/superprecos/go-compara-precos/feed"
)

const validFeed = "Produto,Mercado,Valor\n" +
	"Arroz,Mercado A,\"25,90\"\n" +
	"Feijão,Mercado B,\"8,00\"\n"

type fakeFetcher struct {
	calls int
	body  string
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func (f *fakeFetcher) URL() string {
	return "http://example.test/planilha.csv"
}

func TestCatalogReusesFreshSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{body: validFeed}
	service := NewService(fetcher, time.Minute, feed.NewMetrics())

	first, err := service.Catalog(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := service.Catalog(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if fetcher.calls != 1 {
		t.Fatalf("fetch calls=%d, want 1", fetcher.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("rows=%d/%d, want 2/2", len(first), len(second))
	}
}

func TestCatalogRefetchesAfterTTL(t *testing.T) {
	fetcher := &fakeFetcher{body: validFeed}
	service := NewService(fetcher, 30*time.Millisecond, feed.NewMetrics())

	if _, err := service.Catalog(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := service.Catalog(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if fetcher.calls != 2 {
		t.Fatalf("fetch calls=%d, want 2", fetcher.calls)
	}
}

func TestFailedRefreshSurfacesErrorNotStaleData(t *testing.T) {
	fetcher := &fakeFetcher{body: validFeed}
	service := NewService(fetcher, 30*time.Millisecond, feed.NewMetrics())

	if _, err := service.Catalog(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}

	time.Sleep(60 * time.Millisecond)
	fetchErr := errors.New("host unreachable")
	fetcher.err = fetchErr

	snapshot, err := service.Catalog(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if snapshot != nil {
		t.Fatalf("stale snapshot returned alongside error: %d rows", len(snapshot))
	}
}

func TestLoadFailureIsNotCached(t *testing.T) {
	fetcher := &fakeFetcher{body: "Produto,Mercado\nArroz,Mercado A\n"}
	service := NewService(fetcher, time.Minute, feed.NewMetrics())

	_, err := service.Catalog(context.Background())
	var missing catalog.ErrMissingColumns
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	if !strings.Contains(err.Error(), "load feed") {
		t.Fatalf("error should carry load context: %v", err)
	}

	fetcher.body = validFeed
	snapshot, err := service.Catalog(context.Background())
	if err != nil {
		t.Fatalf("recovery call: %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("rows=%d, want 2", len(snapshot))
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetch calls=%d, want 2 (failed load must not be cached)", fetcher.calls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fetcher := &fakeFetcher{body: validFeed}
	service := NewService(fetcher, time.Hour, feed.NewMetrics())

	if _, err := service.Catalog(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	service.Invalidate()
	if _, err := service.Catalog(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}

	if fetcher.calls != 2 {
		t.Fatalf("fetch calls=%d, want 2", fetcher.calls)
	}
}
