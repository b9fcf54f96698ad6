package cmd

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"opportunity-radar/config"
	"opportunity-radar/database"
	"opportunity-radar/logging"
	"opportunity-radar/metrics"
	"opportunity-radar/newsfeed"
	"opportunity-radar/prioritize"
	"opportunity-radar/radar"
	"opportunity-radar/random"
	"opportunity-radar/server"
	"opportunity-radar/tickets"
)

// app holds the process-wide components built from one Config.
type app struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *metrics.Collector
	db      *gorm.DB
	news    *newsfeed.Service
	engine  *prioritize.Engine
	tickets *tickets.Store
	session *radar.Session
}

func loadApp(ctx context.Context, configPath string) (*app, error) {
	logger := logging.NewLogger("")
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(config.ParseLogLevel(cfg.LogLevel))

	m := metrics.New(server.ServiceName)
	rnd := random.New()

	db, err := database.Open(cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, err
	}

	news := newsfeed.NewService(
		newsfeed.NewClient(cfg.News.WebhookURL, cfg.News.Timeout),
		newsfeed.NewTransformer(rnd, nil),
		logger,
		m,
	)

	var remote prioritize.Strategy
	if cfg.GeminiEnabled() {
		g, err := prioritize.NewGemini(ctx, cfg.Gemini)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		remote = g
		logger.WithField("model", cfg.Gemini.Model).Info("Gemini prioritization enabled")
	} else {
		logger.Info("GEMINI_API_KEY not set, prioritization uses the local heuristic")
	}

	engine := prioritize.NewEngine(remote, prioritize.NewHeuristic(rnd, nil), prioritize.Options{
		MaxActions:      cfg.Priorities.MaxActions,
		BreakerFailures: cfg.Priorities.BreakerFailures,
		BreakerDelay:    cfg.Priorities.BreakerDelay,
		Logger:          logger,
		Metrics:         m,
	})

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		db:      db,
		news:    news,
		engine:  engine,
		tickets: tickets.NewStore(db, tickets.Options{Logger: logger, Metrics: m, Rand: rnd}),
		session: radar.NewSession(nil),
	}, nil
}

func (a *app) Close() {
	if err := database.Close(a.db); err != nil {
		a.logger.WithError(err).Warn("Failed to close database")
	}
}
