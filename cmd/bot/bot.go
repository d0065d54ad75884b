package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"

	"github.com/set-night/skyvqa/internal/config"
	"github.com/set-night/skyvqa/internal/domain"
	"github.com/set-night/skyvqa/internal/handler"
	"github.com/set-night/skyvqa/internal/logging"
	"github.com/set-night/skyvqa/internal/middleware"
	"github.com/set-night/skyvqa/internal/overlay"
	"github.com/set-night/skyvqa/internal/proxy"
	"github.com/set-night/skyvqa/internal/service"
	"github.com/set-night/skyvqa/internal/telegram"
)

const (
	botWorkers      = 4
	shutdownTimeout = 10 * time.Second
)

func runBot(parent context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Setup structured logging
	_, logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	// Setup context with graceful shutdown
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Embedded proxy in front of the upstream inference endpoint
	if cfg.ProxyEnabled {
		srv := proxy.New(proxy.OptionsFromConfig(cfg))
		g.Go(func() error { return srv.Start(cfg.ProxyAddr) })
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	// Initialize services
	vqa := service.NewVQAService(cfg.BackendURL, cfg.BackendUser, cfg.BackendPassword)
	conversations := service.NewConversations(vqa, overlay.NewRenderer())
	identities := service.NewIdentityService()

	// Set once the bot exists; middlewares only run after that.
	var tgLogger *telegram.TelegramLogger

	opts := []bot.Option{
		bot.WithWorkers(botWorkers),
		bot.WithMiddlewares(
			middleware.Recover(func(_ context.Context, err error) { tgLogger.LogError(err, "handler panic") }),
			middleware.Logging(),
			middleware.RateLimit(middleware.NewChatLimiter(cfg.RateLimitPerMinute), cfg.IsAdmin),
			middleware.IdentityLoader(identities, func(_ context.Context, id *domain.Identity) {
				slog.Info("user signed in", "telegram_id", id.TelegramID, "username", id.Username)
				tgLogger.LogSignIn(id)
			}),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {}),
	}

	// Create bot
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("get bot info: %w", err)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	tgLogger = telegram.NewTelegramLogger(b, cfg)

	h := handler.New(handler.Deps{
		Bot:           b,
		Conversations: conversations,
		Identities:    identities,
		TgLogger:      tgLogger,
	})
	h.Register()

	// Start bot
	g.Go(func() error {
		slog.Info("starting bot", "username", me.Username, "backend", cfg.BackendURL)
		b.Start(gctx)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
	return nil
}
