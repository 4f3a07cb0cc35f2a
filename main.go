package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/guide-life-agents/agent/agents/extractor"
	"github.com/tanpawarit/guide-life-agents/agent/agents/orchestrator"
	"github.com/tanpawarit/guide-life-agents/agent/agents/runner"
	"github.com/tanpawarit/guide-life-agents/agent/agents/specialist"
	"github.com/tanpawarit/guide-life-agents/agent/agents/supervisor"
	llmx "github.com/tanpawarit/guide-life-agents/agent/llm"
	promptx "github.com/tanpawarit/guide-life-agents/agent/prompt"
	"github.com/tanpawarit/guide-life-agents/agent/render"
	"github.com/tanpawarit/guide-life-agents/agent/settings"
	statex "github.com/tanpawarit/guide-life-agents/agent/state"
	"github.com/tanpawarit/guide-life-agents/agent/tool"
	"github.com/tanpawarit/guide-life-agents/api"
	configx "github.com/tanpawarit/guide-life-agents/pkg/config"
	_ "github.com/tanpawarit/guide-life-agents/pkg/logger/autoload"
	qstashx "github.com/tanpawarit/guide-life-agents/pkg/qstash"
	"github.com/tanpawarit/guide-life-agents/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

type AppConfig struct {
	Port              int           `default:"8000"`
	Version           string        `default:"dev"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ReapInterval      time.Duration `split_words:"true" default:"10m"`
	MaxTurns          int           `split_words:"true" default:"10"`
	FinalAgentName    string        `split_words:"true" default:"Final Output Agent"`
	RenderHTML        bool          `envconfig:"RENDER_HTML" default:"false"`
	SettingsBackend   string        `split_words:"true" default:"memory"`
	ReportDestination string        `split_words:"true"`
	CorsOrigins       []string      `split_words:"true" default:"*"`
	ShutdownTimeout   time.Duration `split_words:"true" default:"10s"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("APP")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *appCfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, appCfg AppConfig) error {
	telCfg := configx.MustNew[telemetry.Config]("OTEL")
	shutdownTracing, err := telemetry.Init(ctx, *telCfg, appCfg.Version)
	if err != nil {
		return err
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shCtx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	models, err := llmx.NewModels(*llmCfg)
	if err != nil {
		return err
	}
	greetingCompleter, err := llmx.NewCompleter(llmCfg.OpenRouterForPurpose(llmx.PurposeGreeting))
	if err != nil {
		return err
	}
	extractorCompleter, err := llmx.NewCompleter(llmCfg.OpenRouterForPurpose(llmx.PurposeExtractor))
	if err != nil {
		return err
	}

	prompts := promptx.LoadPromptSet()

	search, err := tool.NewPerplexitySearch(*configx.MustNew[tool.SearchConfig]("PERPLEXITY"))
	if err != nil {
		return err
	}
	if search == nil {
		log.Warn().Msg("PERPLEXITY_API_KEY not set, web search disabled")
	}
	catalog := tool.NewCatalog(tool.Deps{
		Search:  search,
		Climate: *configx.MustNew[tool.ClimateConfig]("NASA"),
		Money:   *configx.MustNew[tool.MoneyConfig]("MONEY"),
		Energy:  *configx.MustNew[tool.EnergyConfig]("ENERGY"),
		Payment: *configx.MustNew[tool.PaymentConfig]("PAYRETAILERS"),
	})

	registry, err := specialist.NewBuiltinRegistry(specialist.Deps{Catalog: catalog, Prompts: prompts})
	if err != nil {
		return err
	}
	roster := registry.All()

	settingsStore, closeSettings, err := newSettingsStore(ctx, appCfg.SettingsBackend)
	if err != nil {
		return err
	}
	defer closeSettings()

	settingsSvc, err := settings.NewService(ctx, settingsStore, settings.Prompts{
		Supervisor:  prompts.Supervisor,
		FinalOutput: prompts.FinalOutput,
	})
	if err != nil {
		return err
	}

	agentRunner, err := runner.New(models, appCfg.MaxTurns)
	if err != nil {
		return err
	}
	dispatcher, err := supervisor.New(agentRunner, roster, prompts, settingsSvc.Current().Supervisor)
	if err != nil {
		return err
	}
	settingsSvc.OnUpdate(func(p settings.Prompts) {
		dispatcher.SetPrompt(p.Supervisor)
	})

	pointExtractor, err := extractor.New(extractorCompleter, prompts.Extractor)
	if err != nil {
		return err
	}

	sessions := statex.NewMemoryStore()
	deps := orchestrator.Deps{
		Store:       sessions,
		Completer:   greetingCompleter,
		Extractor:   pointExtractor,
		Dispatcher:  dispatcher,
		Runner:      agentRunner,
		Specialists: registry,
		FinalPrompt: func() string { return settingsSvc.Current().FinalOutput },
		Cards:       render.NewCards(),
	}

	if appCfg.RenderHTML {
		rendererCompleter, err := llmx.NewCompleter(llmCfg.OpenRouterForPurpose(llmx.PurposeRenderer))
		if err != nil {
			return err
		}
		if deps.Renderer, err = render.NewLLMRenderer(rendererCompleter, prompts.HTML); err != nil {
			return err
		}
	}

	qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
	if qstashCfg.Enabled() && appCfg.ReportDestination != "" {
		client, err := qstashx.NewClient(*qstashCfg)
		if err != nil {
			return err
		}
		if deps.Reports, err = orchestrator.NewQStashReports(client, appCfg.ReportDestination); err != nil {
			return err
		}
		log.Info().Str("destination", appCfg.ReportDestination).Msg("final reports enabled")
	}

	orch, err := orchestrator.New(deps, orchestrator.Config{FinalAgentName: appCfg.FinalAgentName})
	if err != nil {
		return err
	}

	handlers, err := api.NewHandlers(orch, settingsSvc)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", appCfg.Port),
		Handler:           api.NewRouter(handlers, api.RouterConfig{AllowedOrigins: appCfg.CorsOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Int("specialists", len(roster)).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	g.Go(func() error {
		return statex.NewReaper(sessions, appCfg.SessionTTL, appCfg.ReapInterval).Run(gctx)
	})
	return g.Wait()
}

func newSettingsStore(ctx context.Context, backend string) (settings.Store, func(), error) {
	noop := func() {}

	switch backend {
	case settings.BackendRedis:
		cfg, err := configx.New[settings.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return nil, noop, err
		}
		store, err := settings.NewUpstashRedisStore(*cfg)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case settings.BackendPostgres:
		cfg, err := configx.New[settings.PostgresConfig]("POSTGRES")
		if err != nil {
			return nil, noop, err
		}
		store, err := settings.NewPostgresStore(ctx, *cfg)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("close settings store failed")
			}
		}, nil
	case settings.BackendMemory, "":
		return settings.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown settings backend %q", backend)
	}
}
