package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	"github.com/bitcorise/earnbot/internal/config"
	"github.com/bitcorise/earnbot/internal/dashboard"
	"github.com/bitcorise/earnbot/internal/handler"
	"github.com/bitcorise/earnbot/internal/middleware"
	"github.com/bitcorise/earnbot/internal/repository"
	"github.com/bitcorise/earnbot/internal/service"
	"github.com/bitcorise/earnbot/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	catalog, payoutMethods, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		slog.Error("failed to load task catalog", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the snapshot store
	store, err := repository.Open(cfg.DataFile)
	if err != nil {
		slog.Error("failed to open data store", "error", err)
		os.Exit(1)
	}

	// Initialize services
	ledger := service.NewLedger(store, cfg.DailyLimitAmount())
	timers := service.NewTimerEngine(catalog, cfg.Policy())
	registry := service.NewCompletionRegistry(catalog, store)
	ledger.OnRollover(registry.PruneToToday)
	awarder := service.NewAwarder(catalog, ledger, timers, registry)
	payouts := service.NewPayouts(store, ledger, payoutMethods, cfg.MinWithdrawAmount(), cfg.AdminID)
	referrals := service.NewReferrals(ledger, cfg.ReferralBonusAmount(), cfg.ReferralCountsTowardCap)
	stats := service.NewStats(store, timers)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.AccountLoader(ledger),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	notifier := telegram.NewAdminNotifier(b, cfg.AdminID, cfg.Currency)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Catalog:     catalog,
		Ledger:      ledger,
		Awarder:     awarder,
		Timers:      timers,
		Registry:    registry,
		Payouts:     payouts,
		Referrals:   referrals,
		Stats:       stats,
		Notifier:    notifier,
		BotUsername: me.Username,
	})

	// Register all handlers
	h.Register()

	// Start the HTTP dashboard
	srv := dashboard.New(stats)
	go func() {
		if err := srv.Start(cfg.Port); err != nil {
			slog.Error("dashboard server stopped", "error", err)
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("dashboard shutdown", "error", err)
	}
	if err := store.Flush(); err != nil {
		slog.Error("final state flush", "error", err)
	}
	slog.Info("bot stopped gracefully")
}
