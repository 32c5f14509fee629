package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/splitledger/internal/assistant"
	"github.com/mmynk/splitledger/internal/balance"
	"github.com/mmynk/splitledger/internal/cache"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqldb"
	"github.com/mmynk/splitledger/pkg/api"
)

// app holds the process-wide components shared by every handler.
type app struct {
	cfg       *config.Config
	store     *sqldb.Store
	cache     *cache.Cache
	metrics   *metrics.Metrics
	balances  *balance.Aggregator
	ledger    *ledger.Ledger
	assistant *assistant.Assistant
	strategy  string
}

func newApp(cfg *config.Config, store *sqldb.Store) *app {
	m := metrics.New()
	c := cache.New(cache.WithCounters(m.CacheHits, m.CacheMisses, m.CacheEvictions))
	balances := balance.New(store, c, balance.Options{
		BalanceTTL: cfg.BalanceCacheTTL,
		SummaryTTL: cfg.SummaryCacheTTL,
	})
	l := ledger.New(store, balances, m)

	var primary assistant.Answerer = assistant.Rules{}
	if cfg.LLMAPIKey != "" {
		primary = assistant.NewChatCompletion(assistant.ChatConfig{
			APIKey:      cfg.LLMAPIKey,
			BaseURL:     cfg.LLMBaseURL,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		}, &http.Client{Timeout: cfg.RequestTimeout})
	}
	snapshots := assistant.NewSnapshotBuilder(l, balances, c, cfg.ContextCacheTTL)

	return &app{
		cfg:       cfg,
		store:     store,
		cache:     c,
		metrics:   m,
		balances:  balances,
		ledger:    l,
		assistant: assistant.New(snapshots, primary, c, cfg.AssistantResponseCacheTTL),
		strategy:  primary.Name(),
	}
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(a.cfg.CORSOrigins))
	r.Use(chimw.Timeout(a.cfg.RequestTimeout))

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(a.metrics),
	)
	mount := func(path string, handler http.Handler) {
		r.Handle(path+"*", handler)
	}

	// Register Connect services
	mount(api.NewUserServiceHandler(service.NewUserService(a.ledger, a.balances), interceptors))
	mount(api.NewGroupServiceHandler(service.NewGroupService(a.ledger, a.balances), interceptors))
	mount(api.NewExpenseServiceHandler(service.NewExpenseService(a.ledger), interceptors))
	mount(api.NewBalanceServiceHandler(service.NewBalanceService(a.ledger, a.balances), interceptors))
	mount(api.NewAssistantServiceHandler(service.NewAssistantService(a.assistant), interceptors))

	r.Get("/health", a.health)
	r.Get("/info", a.info)
	r.Handle("/metrics", a.metrics.Handler())
	return r
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "ok",
	})
}

func (a *app) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          "splitledger",
		"version":       version,
		"db_driver":     a.cfg.DBDriver,
		"assistant":     a.strategy,
		"cache_entries": a.cache.Len(),
		"cache_ttl": map[string]string{
			"balance":            a.cfg.BalanceCacheTTL.String(),
			"summary":            a.cfg.SummaryCacheTTL.String(),
			"context":            a.cfg.ContextCacheTTL.String(),
			"assistant_response": a.cfg.AssistantResponseCacheTTL.String(),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
