package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/config"
	"example.com/travelanalytics/internal/dispatch"
	"example.com/travelanalytics/internal/ingest"
	"example.com/travelanalytics/internal/legacy"
	"example.com/travelanalytics/internal/logger"
	"example.com/travelanalytics/internal/purchase"
	"example.com/travelanalytics/internal/sink"
	spg "example.com/travelanalytics/internal/storage/postgres"
	"example.com/travelanalytics/internal/tracker"
	transport "example.com/travelanalytics/internal/transport/http"
	"example.com/travelanalytics/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.AppName, cfg.AppLogLevel)
	log.Info().Str("port", cfg.Port).Str("sink", cfg.SinkKind).Msg("config loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var out sink.Sink
	switch cfg.SinkKind {
	case config.SinkKafka:
		k := sink.NewKafka(cfg.Brokers(), cfg.KafkaTopic)
		defer func() {
			if err := k.Close(); err != nil {
				log.Error().Err(err).Msg("kafka writer close")
			}
		}()
		out = k
		log.Info().Strs("brokers", cfg.Brokers()).Str("topic", cfg.KafkaTopic).Msg("sink: kafka")
	default:
		out = sink.NewQueue()
		log.Warn().Msg("sink: in-memory queue, events are not forwarded")
	}

	rest := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout())
	var catalog upstream.Catalog = rest
	var ready transport.Readiness
	if cfg.CatalogDSN != "" {
		db, err := spg.Connect(ctx, cfg.CatalogDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("catalog db connect")
		}
		defer db.Close()
		catalog = spg.NewCatalog(db)
		ready = db
		log.Info().Msg("catalog: postgres")
	}

	notifiers := legacy.Notifiers{
		Pixel:       legacy.NewHTTPNotifier(cfg.LegacyPixelURL, cfg.LegacyTimeout()),
		Transaction: legacy.NewHTTPNotifier(cfg.LegacyTransactionURL, cfg.LegacyTimeout()),
		Conversion:  legacy.NewHTTPNotifier(cfg.LegacyConversionURL, cfg.LegacyTimeout()),
		Revenue:     legacy.NewHTTPNotifier(cfg.LegacyRevenueURL, cfg.LegacyTimeout()),
	}

	sessions := tracker.NewSessions(
		rest,
		dispatch.New(out, notifiers),
		purchase.NewAssembler(rest, catalog),
		tracker.Options{Currency: cfg.Currency, IdentityWait: cfg.IdentityWait()},
	)

	sessions.StartJanitor(ctx, cfg.SessionIdleTTL(), cfg.SessionSweepEvery())

	runner := ingest.NewRunner(cfg.PurchaseQueueSize, cfg.PurchaseWorkers).
		WithJobContext(func(ctx context.Context, j ingest.Job) context.Context {
			return sink.WithSession(ctx, j.SessionID)
		})
	// The runner outlives the server so purchases accepted during shutdown
	// still drain.
	runCtx, stopRunner := context.WithCancel(context.Background())
	runner.Start(runCtx)
	log.Info().Int("queue", cfg.PurchaseQueueSize).Int("workers", cfg.PurchaseWorkers).Msg("purchase runner started")

	deps := &transport.ServerDeps{
		Cfg:      cfg,
		Sessions: sessions,
		Runner:   runner,
		Ready:    ready,
		Now:      func() time.Time { return time.Now().UTC() },
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           deps.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(shutdownCtx)
	stopRunner()
	runner.Wait()
	log.Info().Msg("shutdown complete")
}
