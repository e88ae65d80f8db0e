package handler

import (
	"sync"

	"github.com/go-telegram/bot"

	"github.com/bitcorise/earnbot/internal/config"
	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/service"
	"github.com/bitcorise/earnbot/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	catalog     domain.Catalog
	ledger      *service.Ledger
	awarder     *service.Awarder
	timers      *service.TimerEngine
	registry    *service.CompletionRegistry
	payouts     *service.Payouts
	referrals   *service.Referrals
	stats       *service.Stats
	notifier    *telegram.AdminNotifier
	botUsername string

	// withdraw flow state: userID -> selected payout method, set when the
	// user picks a method and consumed by their next text message.
	mu              sync.Mutex
	awaitingAddress map[string]string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Catalog     domain.Catalog
	Ledger      *service.Ledger
	Awarder     *service.Awarder
	Timers      *service.TimerEngine
	Registry    *service.CompletionRegistry
	Payouts     *service.Payouts
	Referrals   *service.Referrals
	Stats       *service.Stats
	Notifier    *telegram.AdminNotifier
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:             deps.Bot,
		cfg:             deps.Cfg,
		catalog:         deps.Catalog,
		ledger:          deps.Ledger,
		awarder:         deps.Awarder,
		timers:          deps.Timers,
		registry:        deps.Registry,
		payouts:         deps.Payouts,
		referrals:       deps.Referrals,
		stats:           deps.Stats,
		notifier:        deps.Notifier,
		botUsername:     deps.BotUsername,
		awaitingAddress: make(map[string]string),
	}
}

func (h *Handler) setAwaitingAddress(userID, method string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.awaitingAddress[userID] = method
}

// takeAwaitingAddress returns and clears the pending method selection.
func (h *Handler) takeAwaitingAddress(userID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	method, ok := h.awaitingAddress[userID]
	if ok {
		delete(h.awaitingAddress, userID)
	}
	return method, ok
}

func (h *Handler) clearAwaitingAddress(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.awaitingAddress, userID)
}

func (h *Handler) currency() string {
	return h.cfg.Currency
}
