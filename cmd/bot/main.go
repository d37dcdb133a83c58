package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/spanish-quiz-bot/internal/config"
	"github.com/aliskhannn/spanish-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/spanish-quiz-bot/internal/delivery/web"
	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/spanish-quiz-bot/internal/logger"
	"github.com/aliskhannn/spanish-quiz-bot/internal/monitoring"
	"github.com/aliskhannn/spanish-quiz-bot/internal/repository"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
	"github.com/aliskhannn/spanish-quiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("application stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	metrics := monitoring.New()
	sessions := storage.NewSessionStore()
	metrics.RegisterGauge("quiz_sessions_active", "Quiz sessions held in memory", func() float64 {
		return float64(sessions.Len())
	})

	quiz := service.NewQuizService(lg, sessions, service.QuizConfig{
		Policy:        passPolicy(cfg.Quiz),
		QuestionLimit: cfg.Quiz.QuestionsPerChapter,
	})

	src, err := newContentSource(cfg)
	if err != nil {
		return err
	}

	// Without content every session shows the no-content screen; keep serving.
	_ = quiz.LoadContent(ctx, src)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sessions.RunJanitor(gctx, cfg.Session.SweepInterval, cfg.Session.TTL, func(removed int) {
			if removed > 0 {
				lg.Debug("idle sessions evicted", zap.Int("removed", removed))
			}
		})
	})

	if cfg.Telegram.Enabled {
		handler, err := newTelegramHandler(cfg, lg, quiz, metrics)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := handler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("telegram: %w", err)
			}
			return nil
		})
	}

	if cfg.HTTP.Enabled {
		if cfg.Env != "local" {
			gin.SetMode(gin.ReleaseMode)
		}

		router := web.NewRouter(web.RouterConfig{
			QuizHandler: web.NewQuizHandler(lg, quiz),
			Middleware: []gin.HandlerFunc{
				web.RequestLogger(lg),
				web.CORS(cfg.HTTP.AllowedOrigins),
				metrics.Middleware(),
				web.RateLimiter(gctx, cfg.HTTP.RateLimit, cfg.HTTP.RateWindow),
			},
			MetricsHandler: metrics.Handler(),
		})

		srv := web.NewServer(lg, cfg.HTTP.Addr, router)
		g.Go(func() error {
			if err := srv.Run(gctx); err != nil {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func passPolicy(q config.Quiz) entities.PassPolicy {
	if q.PassFraction > 0 {
		return entities.PassPolicy{Fraction: q.PassFraction}
	}
	return entities.FixedPassPolicy(q.PassMinScore)
}

// newContentSource picks the quiz document source. Only a missing setting is
// an error here; connection and read failures surface from Load.
func newContentSource(cfg *config.Config) (service.ContentSource, error) {
	switch cfg.Content.Source {
	case config.SourceHTTP:
		return repository.NewHTTPContentSource(cfg.Content.URL, cfg.Content.Timeout), nil

	case config.SourcePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		return postgres.NewContentSource(dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		}), nil

	default:
		return repository.NewContentRepository(cfg.Content.Path), nil
	}
}

func newTelegramHandler(
	cfg *config.Config,
	lg *zap.Logger,
	quiz *service.QuizService,
	metrics *monitoring.Metrics,
) (*telegram.Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start over from the first chapter"},
		{Command: "chapters", Description: "Show the chapter list"},
		{Command: "summary", Description: "Show your results"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	return telegram.NewHandler(bot, lg, quiz, metrics), nil
}
