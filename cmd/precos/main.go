package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/superprecos/go-compara-precos/cache"
	"github.com/superprecos/go-compara-precos/catalog"
	"github.com/superprecos/go-compara-precos/config"
	"github.com/superprecos/go-compara-precos/feed"
	"github.com/superprecos/go-compara-precos/parser"
)

func main() {
	defaultCfg := config.DefaultConfig()
	feedDefault := defaultCfg.FeedURL
	if value, ok := config.EnvString("PRECOS_FEED_URL"); ok {
		feedDefault = value
	}
	ttlDefault := defaultCfg.CacheTTL
	if value, ok, err := config.EnvDuration("PRECOS_TTL"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid PRECOS_TTL: %v\n", err)
		os.Exit(1)
	} else if ok {
		ttlDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("PRECOS_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	feedURL := flag.String("feed-url", feedDefault, "Published spreadsheet CSV URL")
	query := flag.String("q", "", "Product search term (empty lists everything)")
	ttl := flag.Duration("ttl", ttlDefault, "Catalog cache freshness window")
	timeout := flag.Duration("timeout", defaultCfg.Timeout, "Feed request timeout")
	maxRetries := flag.Int("max-retries", defaultCfg.MaxRetries, "Maximum retry attempts per fetch")
	retryBackoffMs := flag.Int("retry-backoff", 200, "Initial retry backoff (milliseconds)")
	retryBackoffMaxMs := flag.Int("retry-backoff-max", 2000, "Maximum retry backoff (milliseconds)")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	interactive := flag.Bool("i", false, "Interactive shopping-list mode")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.FeedURL = *feedURL
	cfg.CacheTTL = *ttl
	cfg.Timeout = *timeout
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = time.Duration(*retryBackoffMs) * time.Millisecond
	cfg.RetryBackoffMax = time.Duration(*retryBackoffMaxMs) * time.Millisecond
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := feed.NewMetrics()
	fetcher, err := feed.NewFetcher(cfg, metrics)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}
	service := cache.NewService(fetcher, cfg.CacheTTL, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	exitCode := 0
	if *interactive {
		exitCode = runREPL(ctx, service)
	} else {
		exitCode = runSearch(ctx, service, *query)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	os.Exit(exitCode)
}

func runSearch(ctx context.Context, service *cache.Service, query string) int {
	snapshot, err := service.Catalog(ctx)
	if err != nil {
		slog.Error("loading catalog", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, "Erro ao carregar dados da planilha. Tente novamente mais tarde.")
		return 1
	}

	results := catalog.Search(snapshot, query)
	catalog.SortForDisplay(results)
	if len(results) == 0 {
		fmt.Println("Nenhum produto encontrado. Tente buscar por outro termo.")
		return 0
	}

	best := catalog.BestPrices(snapshot)
	fmt.Printf("Melhores Preços (%d produtos)\n\n", len(results))
	for _, row := range results {
		badge := ""
		if price, ok := best[row.ProdutoNorm]; ok && row.Valor.Equal(price) {
			badge = "  * melhor preço"
		}
		fmt.Printf("%-40s  %-20s  %10s%s\n", row.Produto, row.Mercado, parser.FormatBRL(row.Valor), badge)
	}
	return 0
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
