// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"adoption-workers/internal/catalog"
	"adoption-workers/internal/common/camunda"
	"adoption-workers/internal/common/config"
	"adoption-workers/internal/common/database"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/observability"
	"adoption-workers/internal/common/validation"
	"adoption-workers/internal/matching"
	"adoption-workers/internal/matching/application"
	"adoption-workers/internal/matching/compatibility"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/matching/scaler"
	"adoption-workers/pkg/registry"

	// Application workers
	saa "adoption-workers/internal/workers/application/score-adoption-application"
	vaa "adoption-workers/internal/workers/application/validate-adoption-application"

	// Matching workers
	cc "adoption-workers/internal/workers/matching/calculate-compatibility"
	em "adoption-workers/internal/workers/matching/explain-match"
	ram "adoption-workers/internal/workers/matching/rank-animal-matches"
	ra "adoption-workers/internal/workers/matching/recommend-animals"
	"adoption-workers/internal/workers/matching/resolve"
)

const serviceName = "adoption-workers"

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	// --- Scoring artifacts ---
	scalerCfg, err := scaler.Load(cfg.Matching.ScalerPath)
	if err != nil {
		zapLog.Fatal("scaler load failed", zap.String("path", cfg.Matching.ScalerPath), zap.Error(err))
	}
	zapLog.Info("Scaler loaded",
		zap.String("version", scalerCfg.Version()),
		zap.Int("k", scalerCfg.K()),
		zap.String("metric", scalerCfg.Metric()),
	)

	reg, err := registry.LoadRegistry(cfg.Matching.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Matching.RegistryPath), zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	obs := observability.New(serviceName, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	conns, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		zapLog.Fatal("store connections failed", zap.Error(err))
	}
	zapLog.Info("Store connections established")

	store := catalog.NewStore(conns.Postgres.DB, conns.Redis.Client, cfg.Matching.CacheTTLDuration(), log)
	var searcher resolve.Searcher
	if conns.Elasticsearch != nil {
		searcher = catalog.NewSearch(conns.Elasticsearch.Client, cfg.Database.Elasticsearch.AnimalIndex, log)
	}
	resolver := resolve.New(store, searcher, cfg.Matching.MaxCandidates)

	// --- Scoring engines ---
	ranker, err := knn.NewRanker(scalerCfg,
		knn.WithLogger(log),
		knn.WithParallelism(cfg.Matching.Parallelism),
	)
	if err != nil {
		zapLog.Fatal("ranker init failed", zap.Error(err))
	}
	compat := compatibility.NewScorer(
		compatibility.WithLogger(log),
		compatibility.WithParallelism(cfg.Matching.Parallelism),
	)
	appScorer := application.NewScorer(application.WithLogger(log))
	strategies := []matching.Strategy{
		matching.NewKNNStrategy(ranker),
		matching.NewCompatibilityStrategy(compat),
	}

	// --- Zeebe ---
	zb, err := camunda.NewClient(ctx, cfg.Camunda, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	mgr := camunda.NewManager(zb.GetClient(), obs, log)

	schemaFor := func(taskType string) *validation.Schema {
		s, err := reg.InputSchema(taskType)
		if err != nil {
			zapLog.Fatal("input schema unavailable", zap.String("taskType", taskType), zap.Error(err))
		}
		return s
	}
	// The scoring deadline never outlives the job lock.
	timeoutFor := func(taskType string, scoring time.Duration) time.Duration {
		if lock := config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout); lock > 0 && lock < scoring {
			return lock
		}
		return scoring
	}

	{
		c := ram.LoadConfig()
		c.Timeout = timeoutFor(ram.TaskType, c.Timeout)
		c.CacheTTL = cfg.Matching.CacheTTLDuration()
		c.K = cfg.Matching.KOverride
		h := ram.NewHandler(c, ranker, resolver, conns.Redis.Client, schemaFor(ram.TaskType), log)
		mgr.Register(ram.TaskType, config.GetWorkerConfig(cfg, ram.TaskType), h)
	}
	{
		c := cc.LoadConfig()
		c.Timeout = timeoutFor(cc.TaskType, c.Timeout)
		h := cc.NewHandler(c, compat, resolver, schemaFor(cc.TaskType), log)
		mgr.Register(cc.TaskType, config.GetWorkerConfig(cfg, cc.TaskType), h)
	}
	{
		c := em.LoadConfig()
		c.Timeout = timeoutFor(em.TaskType, c.Timeout)
		h := em.NewHandler(c, ranker, resolver, schemaFor(em.TaskType), log)
		mgr.Register(em.TaskType, config.GetWorkerConfig(cfg, em.TaskType), h)
	}
	{
		c := ra.LoadConfig()
		c.Timeout = timeoutFor(ra.TaskType, c.Timeout)
		h := ra.NewHandler(c, strategies, resolver, schemaFor(ra.TaskType), log)
		mgr.Register(ra.TaskType, config.GetWorkerConfig(cfg, ra.TaskType), h)
	}
	{
		c := saa.LoadConfig()
		c.Timeout = timeoutFor(saa.TaskType, c.Timeout)
		h := saa.NewHandler(c, appScorer, resolver, schemaFor(saa.TaskType), log)
		mgr.Register(saa.TaskType, config.GetWorkerConfig(cfg, saa.TaskType), h)
	}
	{
		c := vaa.LoadConfig()
		c.Timeout = timeoutFor(vaa.TaskType, c.Timeout)
		h := vaa.NewHandler(c, resolver, schemaFor(vaa.TaskType), log)
		mgr.Register(vaa.TaskType, config.GetWorkerConfig(cfg, vaa.TaskType), h)
	}

	zapLog.Info("Workers registered", zap.Strings("taskTypes", mgr.TaskTypes()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context(), zb, conns); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not_ready", err)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mgr.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zb.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := conns.Close(); err != nil {
		zapLog.Error("Error closing store connections", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down meter provider", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// ready checks the broker and every store concurrently.
func ready(ctx context.Context, zb *camunda.Client, conns *database.Connections) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return zb.HealthCheck(gctx) })
	g.Go(func() error { return conns.Postgres.Ping(gctx) })
	g.Go(func() error { return conns.Redis.Ping(gctx) })
	if conns.Elasticsearch != nil {
		g.Go(func() error { return conns.Elasticsearch.Ping(gctx) })
	}
	return g.Wait()
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
