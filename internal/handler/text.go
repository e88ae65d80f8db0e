package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/bitcorise/earnbot/internal/middleware"
)

// HandleText is the default handler for plain text messages. It serves two
// inputs: the payout address a user sends after picking a method, and the
// one-shot "PAYOUT <amount> <method> <address>" form.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	if update.Message.Chat.Type != "private" {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	userID := middleware.UserID(ctx)
	if userID == "" {
		return
	}
	username := update.Message.From.Username

	if strings.HasPrefix(strings.ToUpper(text), "PAYOUT ") {
		h.clearAwaitingAddress(userID)
		h.handlePayoutForm(ctx, b, chatID, userID, username, text)
		return
	}

	if methodKey, ok := h.takeAwaitingAddress(userID); ok {
		account, found := middleware.GetAccount(ctx)
		if !found {
			return
		}
		// The button flow withdraws the full balance.
		h.submitPayout(ctx, b, chatID, userID, username, account.Balance, methodKey, text)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Use the menu buttons to navigate. Send /start to open the menu.",
	})
}

// handlePayoutForm parses "PAYOUT <amount> <method> <address>".
func (h *Handler) handlePayoutForm(ctx context.Context, b *bot.Bot, chatID int64, userID, username, text string) {
	usage := "Usage: PAYOUT <amount> <method> <address>\nExample: PAYOUT 10 paypal you@example.com"

	fields := strings.Fields(text)
	if len(fields) < 4 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: usage})
		return
	}

	amount, err := decimal.NewFromString(fields[1])
	if err != nil || !amount.IsPositive() {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Invalid amount.\n" + usage,
		})
		return
	}

	methodKey := strings.ToLower(fields[2])
	address := strings.Join(fields[3:], " ")

	h.submitPayout(ctx, b, chatID, userID, username, amount, methodKey, address)
}
