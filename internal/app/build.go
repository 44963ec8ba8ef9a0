package app

import (
	"context"
	"fmt"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/agent"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/config"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/gateway"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/guard"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/httpapi"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/moderation"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/observability"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/planner"
)

type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Store   *memory.Store
	Gateway *gateway.Gateway
	Metrics *observability.Metrics
	Stages  *observability.StageWindow

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	stages := observability.NewStageWindow(cfg.PerfWindowSize)

	durable, err := memory.NewDurable(ctx, memory.DurableConfig{
		Enabled:       cfg.DurableStoreEnabled,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DatabaseURL:   cfg.DatabaseURL,
		BasePrefix:    cfg.BasePrefix,
		MemoryPrefix:  cfg.MemoryPrefix,
		TTL:           cfg.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("durable store init failed: %w", err)
	}

	store := memory.NewStore(durable, cfg.MaxHistoryTurns, cfg.SessionTTL)
	store.SetExpireHook(func(_ string) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.CachedSessions.Set(float64(store.CachedCount()))
	})
	store.SetDurableErrorHook(func(op string) {
		metrics.DurableErrors.WithLabelValues(op).Inc()
	})

	adapter, err := agent.NewAdapter(agent.Config{
		Mode:    cfg.AgentAdapterMode,
		HTTPURL: cfg.AgentHTTPURL,
	})
	if err != nil {
		closeDurable(durable)
		return nil, fmt.Errorf("agent adapter init failed: %w", err)
	}

	var classifier *moderation.Classifier
	if cfg.ModerationURL != "" {
		classifier = moderation.NewClassifier(moderation.NewHTTPCapability(
			cfg.ModerationURL, cfg.ModerationAPIKey, cfg.ModerationModel, cfg.GuardrailsTimeout))
	} else {
		classifier = moderation.NewClassifier(moderation.NewMockCapability())
	}
	pipeline := guard.NewPipeline(classifier, guard.NewGate(), cfg.GuardrailsEnabled, cfg.GuardrailsTimeout)

	engine := planner.NewEngine(store, adapter)
	gw := gateway.New(pipeline, engine, store, metrics, stages)
	api := httpapi.New(cfg, gw, stages)

	cleanup := func() error {
		if durable != nil {
			return durable.Close()
		}
		return nil
	}

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Store:   store,
		Gateway: gw,
		Metrics: metrics,
		Stages:  stages,
		Cleanup: cleanup,
	}, nil
}

func closeDurable(durable memory.DurableStore) {
	if durable != nil {
		_ = durable.Close()
	}
}
