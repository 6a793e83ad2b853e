package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/providers/llm"
	"github.com/sandevgo/chatlens/internal/service/analysis"
	"github.com/sandevgo/chatlens/internal/service/assistant"
	"github.com/sandevgo/chatlens/internal/service/command"
	"github.com/sandevgo/chatlens/internal/service/engine"
	"github.com/sandevgo/chatlens/internal/service/metrics"
	"github.com/sandevgo/chatlens/internal/service/retention"
	"github.com/sandevgo/chatlens/internal/service/tracker"
	"github.com/sandevgo/chatlens/internal/storage/memory"
	"github.com/sandevgo/chatlens/internal/storage/sqlite"
	"github.com/sandevgo/chatlens/internal/transport/cli"
	"github.com/sandevgo/chatlens/internal/transport/http"
	"github.com/sandevgo/chatlens/internal/transport/telegram"
	"github.com/sandevgo/chatlens/pkg/log"
	"github.com/sandevgo/chatlens/pkg/srv"
)

// Runtime is the wired engine plus the background services it needs.
// Transports are added on top by the individual commands.
type Runtime struct {
	App      *config.AppConfig
	Engine   *engine.Engine
	Registry *prometheus.Registry
	Services []srv.Service
}

func NewRuntime(ctx context.Context) *Runtime {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	storeCfg := config.NewStoreConfig(ctx)
	aiCfg := config.NewAIConfig(ctx)

	loc, err := appCfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	rt := &Runtime{App: appCfg, Registry: prometheus.NewRegistry()}
	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 2. Storage
	storeOpts := []memory.Option{memory.WithCapacity(storeCfg.Capacity), memory.WithLocation(loc)}
	var journal *sqlite.Journal
	if storeCfg.PersistEnabled {
		db, err := sqlite.NewDB(ctx, storeCfg.Driver, appCfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		rt.Services = append(rt.Services, srv.NewCleanup(db.Close))

		journal = sqlite.NewJournal(db)
		storeOpts = append(storeOpts, memory.WithJournal(journal))
	}
	store := memory.NewStore(storeOpts...)
	tr := tracker.New()

	if journal != nil {
		if err := restore(ctx, store, tr, journal); err != nil {
			logger.Fatal().Err(err).Msg("failed to restore journal")
		}
	}

	// 3. Analysis
	vocab, err := analysis.LoadVocabulary(storeCfg.VocabularyPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load vocabulary")
	}
	router := analysis.NewRouter(store, tr, vocab, analysis.WithLocation(loc))

	// 4. AI Provider
	var engineOpts []engine.Option
	ai, err := llm.NewProvider(ctx, aiCfg)
	if err != nil {
		// open-ended questions stay unavailable, reports still work
		logger.Warn().Err(err).Msg("ai provider disabled")
	} else {
		engineOpts = append(engineOpts, engine.WithAssistant(assistant.New(ai, store, tr,
			assistant.WithTimeout(aiCfg.Timeout),
			assistant.WithMaxTokens(aiCfg.MaxPromptTokens),
			assistant.WithLocation(loc),
		)))
	}

	// 5. Engine
	var eng *engine.Engine
	m := metrics.New(rt.Registry, store, func() int {
		if eng == nil {
			return 0
		}
		return eng.Pending()
	})

	engineOpts = append(engineOpts,
		engine.WithMetrics(m),
		engine.WithSeenCache(tracker.NewSeenCache(storeCfg.DedupTTL)),
		engine.WithQueue(storeCfg.IngestQueueSize),
	)
	if journal != nil {
		engineOpts = append(engineOpts, engine.WithJournal(journal))
	}
	eng = engine.New(store, tr, router, engineOpts...)
	rt.Engine = eng
	rt.Services = append(rt.Services, eng.Queue())

	// 6. Retention
	sweeper, err := retention.New(store, storeCfg.RetentionWindow, storeCfg.RetentionSchedule,
		retention.WithLocation(loc),
		retention.WithMetrics(m),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize retention")
	}
	rt.Services = append(rt.Services, sweeper)

	return rt
}

func restore(ctx context.Context, store *memory.Store, tr *tracker.Tracker, journal *sqlite.Journal) error {
	contexts, err := journal.LoadContexts(ctx)
	if err != nil {
		return err
	}
	for _, cc := range contexts {
		tr.Remember(cc)
	}

	start := time.Now()
	n, err := store.Restore(ctx)
	if err != nil {
		return err
	}
	log.FromCtx(ctx).Info().
		Int("messages", n).
		Int("conversations", len(contexts)).
		Dur("took", time.Since(start)).
		Msg("restored journal")
	return nil
}

// Transports builds the enabled transports.
func (rt *Runtime) Transports(ctx context.Context) ([]srv.Service, error) {
	var services []srv.Service

	if rt.App.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		services = append(services, http.NewServer(ctx, httpCfg, rt.Engine, rt.Registry))
	}

	// Telegram Bot
	if rt.App.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		router := command.New(command.NewCommands(rt.Engine, core.PlatformTelegram))
		bot, err := telegram.NewBot(ctx, tgCfg, rt.Engine, router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if rt.App.EnableCLI {
		router := command.New(command.NewCommands(rt.Engine, core.PlatformTelegram))
		console, err := cli.NewReadLine(rt.Engine, router, rt.App)
		if err != nil {
			return nil, err
		}
		services = append(services, console)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := config.AppConfig{RuntimePath: runtimePath}.GetEnvPath()

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
