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

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/fxsignal/internal/analyze"
	"github.com/Alias1177/fxsignal/internal/api/modelserver"
	"github.com/Alias1177/fxsignal/internal/api/sentiment"
	"github.com/Alias1177/fxsignal/internal/api/twelvedata"
	"github.com/Alias1177/fxsignal/internal/cache"
	"github.com/Alias1177/fxsignal/internal/calculate"
	"github.com/Alias1177/fxsignal/internal/config"
	"github.com/Alias1177/fxsignal/internal/database"
	"github.com/Alias1177/fxsignal/internal/metrics"
	"github.com/Alias1177/fxsignal/internal/notify"
	httpClient "github.com/Alias1177/fxsignal/internal/platform/http"
	"github.com/Alias1177/fxsignal/internal/trace"
	"github.com/Alias1177/fxsignal/internal/trading/risk"
	"github.com/Alias1177/fxsignal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := trace.Init(cfg.TracingEnabled); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		trace.Shutdown(shutdownCtx)
	}()

	settings, err := loadSettings(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid feature configuration")
	}

	feed, closeFeed, err := newFeed(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("feed", cfg.Feed).Msg("Failed to initialize price feed")
	}
	defer closeFeed()

	var recorder *metrics.Recorder
	if cfg.MetricsAddr != "" {
		recorder = metrics.New()
		go serveMetrics(cfg.MetricsAddr)
	}

	opts := []analyze.Option{
		analyze.WithProviderTimeout(cfg.ProviderTimeout),
		analyze.WithMetrics(recorder),
	}

	providerHTTP := httpClient.NewClient(httpClient.ClientOptions{
		Timeout:        cfg.ProviderTimeout,
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     2,
	})

	features := settings.Features
	if features.DeepLearning.Enabled {
		if cfg.ModelServerURL == "" {
			log.Warn().Msg("Deep Learning enabled without MODEL_SERVER_URL, predictors disabled")
		} else {
			dl := features.DeepLearning.Parameters
			predictors, err := modelserver.ForModelType(cfg.ModelServerURL, dl.ModelType, dl.LookbackPeriod, providerHTTP)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to configure predictors")
			}
			opts = append(opts, analyze.WithPredictors(predictors...))
		}
	}

	if features.SentimentAnalysis.Enabled {
		if cfg.SentimentURL == "" {
			log.Warn().Msg("Sentiment Analysis enabled without SENTIMENT_URL, sentiment disabled")
		} else {
			provider, closeCache := newSentiment(ctx, cfg, features.SentimentAnalysis.Parameters, providerHTTP)
			defer closeCache()
			opts = append(opts, analyze.WithSentiment(provider))
		}
	}

	// one controller per process so parameters keep adapting between runs
	if features.AdaptiveParameters.Enabled {
		base := models.DefaultFusionParams()
		base.ConfidenceThreshold = features.DeepLearning.Parameters.ConfidenceThreshold
		opts = append(opts, analyze.WithController(calculate.NewAdaptiveController(base, features.AdaptiveParameters.Parameters)))
	}

	var notifier models.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Error().Err(err).Msg("Telegram notifier disabled")
		} else {
			notifier = tg
		}
	}

	pipeline := analyze.New(features, settings.RiskSettings, opts...)

	log.Info().
		Str("symbol", cfg.Symbol).
		Str("timeframe", cfg.Timeframe).
		Interface("features", features.Flags()).
		Msg("Starting predictor")

	run(ctx, cfg, pipeline, feed, notifier)
	if cfg.RunEvery <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.RunEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return
		case <-ticker.C:
			run(ctx, cfg, pipeline, feed, notifier)
		}
	}
}

func setupLogger(cfg *config.Config) {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(lvl)
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
}

func loadSettings(cfg *config.Config) (*config.ModelSettings, error) {
	settings := &config.ModelSettings{
		Features:     config.DefaultFeatures(),
		RiskSettings: config.DefaultRiskSettings(),
	}
	if cfg.FeaturesFile != "" {
		loaded, err := config.LoadModelSettings(cfg.FeaturesFile)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}
	if cfg.RiskFile != "" {
		data, err := os.ReadFile(cfg.RiskFile)
		if err != nil {
			return nil, fmt.Errorf("reading risk settings: %w", err)
		}
		riskSettings, err := config.ParseRiskSettings(data)
		if err != nil {
			return nil, err
		}
		settings.RiskSettings = riskSettings
	}
	return settings, nil
}

func newFeed(cfg *config.Config) (models.PriceSeriesProvider, func(), error) {
	twelve := func() *twelvedata.Client {
		return twelvedata.NewClient(twelvedata.ClientOptions{
			APIKey:         cfg.TwelveAPIKey,
			RequestTimeout: cfg.RequestTimeout,
			RequestsPerSec: cfg.RequestsPerSec,
			MaxRetries:     3,
		})
	}
	openDB := func() (*database.DB, error) {
		return database.New(database.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
	}

	switch cfg.Feed {
	case "twelvedata":
		if cfg.TwelveAPIKey == "" {
			return nil, nil, errors.New("TWELVE_API_KEY not set")
		}
		if !cfg.ArchiveBars {
			return twelve(), func() {}, nil
		}
		db, err := openDB()
		if err != nil {
			return nil, nil, err
		}
		return database.NewArchivingProvider(twelve(), db), func() { db.Close() }, nil
	case "postgres":
		db, err := openDB()
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown feed %q", cfg.Feed)
	}
}

func newSentiment(ctx context.Context, cfg *config.Config, params models.SentimentParams, client *httpClient.Client) (models.SentimentProvider, func()) {
	provider := sentiment.NewClient(cfg.SentimentURL, params, client)

	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err == nil {
			return sentiment.NewCached(provider, rc, cfg.SentimentCacheTTL), func() { rc.Close() }
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory sentiment cache")
	}
	return sentiment.NewCached(provider, cache.NewTTLCache(), cfg.SentimentCacheTTL), func() {}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, pipeline *analyze.Pipeline, feed models.PriceSeriesProvider, notifier models.Notifier) {
	pred, err := pipeline.GenerateFromProvider(ctx, feed, cfg.Symbol, cfg.Timeframe, cfg.BarCount)
	resp := analyze.Respond(pred, err)

	out, encErr := sonic.ConfigStd.MarshalIndent(resp, "", "  ")
	if encErr != nil {
		log.Error().Err(encErr).Msg("Failed to encode response")
		return
	}
	fmt.Println(string(out))

	if err != nil {
		log.Error().Err(err).Msg("Prediction failed")
		return
	}

	if cfg.AccountSize > 0 && pred.Direction != models.DirectionNeutral {
		units := risk.CalculatePositionSize(pred.EntryPrice, pred.StopLoss, cfg.AccountSize, pred.PositionRisk)
		log.Info().Float64("units", units).Float64("account", cfg.AccountSize).Msg("Position size")
	}

	if notifier != nil {
		if err := notifier.Notify(ctx, pred); err != nil {
			log.Error().Err(err).Msg("Failed to notify")
		}
	}
}
