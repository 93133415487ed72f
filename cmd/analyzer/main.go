package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/maryamMilad/ai-trading-agent/db"
	"github.com/maryamMilad/ai-trading-agent/internal/analysis"
	"github.com/maryamMilad/ai-trading-agent/internal/config"
	"github.com/maryamMilad/ai-trading-agent/internal/notify"
	"github.com/maryamMilad/ai-trading-agent/internal/repository"
	"github.com/maryamMilad/ai-trading-agent/internal/scheduler"
	"github.com/maryamMilad/ai-trading-agent/internal/trace"
	"github.com/maryamMilad/ai-trading-agent/internal/watchlist"
	"github.com/maryamMilad/ai-trading-agent/pkg/llm"
	"github.com/maryamMilad/ai-trading-agent/pkg/news"
)

const runLockTTL = 2 * time.Hour

func main() {

	godotenv.Load()

	// Registered first so it runs after every other deferred cleanup.
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	err := cfg.ValidateAnalyzer()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	err = trace.Init(cfg.TracingEnabled, "ai-trading-agent-analyzer")
	if err != nil {
		log.Fatalf("error initializing tracing: %v", err)
	}
	defer trace.Shutdown(context.Background())

	err = db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.Migrate(db.DB, cfg.DatabaseDriver)
	if err != nil {
		log.Fatalf("error migrating DB: %v", err)
	}

	err = db.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	var predictions analysis.PredictionStore = repository.NewPredictionRepository(db.DB)
	if db.Redis != nil {
		predictions = repository.NewCachedPredictionRepository(repository.NewPredictionRepository(db.DB), db.Redis, db.LatestPredictionKeyPrefix, repository.DefaultCacheTTL)
	}
	runs := repository.NewRunRepository(db.DB)

	gatherer := news.NewGatherer(newsClients(cfg), cfg.NewsFetchLimit, cfg.NewsTopN)
	if len(gatherer.Sources()) == 0 {
		slog.Warn("no news sources configured, predictions will be made without news")
	}

	opts := []analysis.Option{analysis.WithHistoryLimit(cfg.HistoryLimit)}
	if cfg.TelegramEnabled() {
		opts = append(opts, analysis.WithNotifier(notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)))
	}

	agent := analysis.NewAgent(gatherer, predictions, runs, llm.Observe(newAnalyzer(cfg)), opts...)

	slog.Info("analyzer configured",
		"driver", cfg.DatabaseDriver,
		"provider", cfg.LLMProvider,
		"news_sources", gatherer.Sources(),
		"redis", db.Redis != nil,
		"telegram", cfg.TelegramEnabled(),
		"schedule", cfg.Schedule,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schedule == "" {
		err = runOnce(ctx, cfg, agent)
		if err != nil {
			slog.Error("analysis run failed", "error", err)
			exitCode = 1
		}
		return
	}

	sched, err := scheduler.New(cfg.Schedule, cfg.Timezone, func(ctx context.Context) {
		if err := runOnce(ctx, cfg, agent); err != nil {
			slog.Error("scheduled analysis run failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalf("error creating scheduler: %v", err)
	}

	err = sched.Start()
	if err != nil {
		log.Fatalf("error starting scheduler: %v", err)
	}

	<-ctx.Done()
	sched.Stop()
}

func runOnce(ctx context.Context, cfg *config.Config, agent *analysis.Agent) error {
	tickers, err := watchlist.Resolve(cfg.Watchlist, cfg.WatchlistFile)
	if err != nil {
		return err
	}

	if db.Redis != nil {
		release, err := db.AcquireLock(ctx, db.Redis, db.RunLockKey, uuid.NewString(), runLockTTL)
		if errors.Is(err, db.ErrLockHeld) {
			slog.Warn("another analysis run holds the lock, skipping")
			return nil
		}
		if err != nil {
			return err
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				slog.Error("error releasing run lock", "error", err)
			}
		}()
	}

	_, err = agent.Run(ctx, tickers)
	return err
}

func newsClients(cfg *config.Config) []news.NewsClient {
	httpClient := news.NewHTTPClient(news.HTTPClientOptions{
		Timeout:           15 * time.Second,
		RequestsPerMinute: cfg.NewsRequestsPerMin,
	})

	var clients []news.NewsClient
	if cfg.AlphaVantageAPIKey != "" {
		clients = append(clients, news.NewAlphaVantageClient(cfg.AlphaVantageAPIKey, httpClient))
	}
	if cfg.FinnhubAPIKey != "" {
		clients = append(clients, news.NewFinnHubClient(cfg.FinnhubAPIKey, 15*time.Second))
	}
	if cfg.MassiveAPIKey != "" {
		clients = append(clients, news.NewMassiveClient(cfg.MassiveAPIKey, httpClient))
	}
	if cfg.FinvizEnabled {
		clients = append(clients, news.NewFinvizClient(15*time.Second))
	}
	return clients
}

func newAnalyzer(cfg *config.Config) llm.Analyzer {
	if cfg.LLMProvider == config.ProviderOpenAI {
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	}
	return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, cfg.LLMTimeout)
}
