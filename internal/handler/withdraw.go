package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/middleware"
	"github.com/bitcorise/earnbot/internal/telegram"
)

func (h *Handler) handleWithdraw(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)
	account, ok := middleware.GetAccount(ctx)
	if !ok {
		return
	}

	backRow := telegram.ButtonRow(telegram.InlineButton("🔙 Back", "start_menu"))

	if pending := h.payouts.PendingFor(userID); len(pending) > 0 {
		req := pending[0]
		telegram.EditLongMessage(ctx, b, chatID, messageID, fmt.Sprintf(
			"⏳ You already have a pending payout request.\n\n"+
				"*ID:* `%s`\n*Amount:* %s\n*Method:* %s\n\n"+
				"Wait for it to be processed before submitting another one.",
			req.ID, telegram.FormatAmount(req.Amount, h.currency()), req.Method,
		), telegram.InlineKeyboard(backRow))
		return
	}

	if account.Balance.LessThan(h.payouts.MinWithdraw()) {
		telegram.EditLongMessage(ctx, b, chatID, messageID, fmt.Sprintf(
			"🏦 *Withdraw*\n\n"+
				"Your balance is %s, but the minimum withdrawal is %s.\n"+
				"Complete more tasks to reach it!",
			telegram.FormatAmount(account.Balance, h.currency()),
			telegram.FormatAmount(h.payouts.MinWithdraw(), h.currency()),
		), telegram.InlineKeyboard(
			telegram.ButtonRow(telegram.InlineButton("💰 Earn Money", "tasks")),
			backRow,
		))
		return
	}

	methods := h.payouts.Methods()
	keys := make([]string, 0, len(methods))
	for key := range methods {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rows [][]models.InlineKeyboardButton
	for _, key := range keys {
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(methods[key].Name, "payout_"+key),
		))
	}
	rows = append(rows, backRow)

	telegram.EditLongMessage(ctx, b, chatID, messageID, fmt.Sprintf(
		"🏦 *Withdraw*\n\n💵 Available: %s\n\nChoose a payout method:",
		telegram.FormatAmount(account.Balance, h.currency()),
	), telegram.InlineKeyboard(rows...))
}

func (h *Handler) handlePayoutMethod(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	methodKey := strings.TrimPrefix(update.CallbackQuery.Data, "payout_")
	method, found := h.payouts.Methods()[methodKey]
	if !found {
		h.answerCallback(ctx, update, "This payout method is not available.", true)
		return
	}

	h.setAwaitingAddress(userID, methodKey)

	text := fmt.Sprintf(
		"🏦 *%s*\n\nSend your %s as a message to withdraw your full balance.",
		method.Name, method.AddressFormat)
	if method.Instructions != "" {
		text += "\n\n" + method.Instructions
	}

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton("🔙 Cancel", "withdraw")),
	))
}

// submitPayout runs the shared submission path for both the address reply
// flow and the one-shot PAYOUT text form.
func (h *Handler) submitPayout(ctx context.Context, b *bot.Bot, chatID int64, userID, username string, amount decimal.Decimal, methodKey, address string) {
	requestID, err := h.payouts.Submit(userID, username, amount, methodKey, address)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   payoutErrorText(err, h.payouts.MinWithdraw(), h.currency()),
		})
		return
	}

	req, err := h.payouts.Get(requestID)
	if err != nil {
		slog.Error("load submitted payout", "request_id", requestID, "error", err)
		return
	}
	h.notifier.PayoutSubmitted(req)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"✅ *Payout request submitted!*\n\n"+
				"*ID:* `%s`\n*Amount:* %s\n*Method:* %s\n\n"+
				"You will be notified once it is processed.",
			req.ID, telegram.FormatAmount(req.Amount, h.currency()), req.Method),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func payoutErrorText(err error, minWithdraw decimal.Decimal, currency string) string {
	switch {
	case errors.Is(err, domain.ErrBelowMinimum):
		return fmt.Sprintf("❌ Minimum withdrawal is %s.", telegram.FormatAmount(minWithdraw, currency))
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "❌ Insufficient balance."
	case errors.Is(err, domain.ErrRequestAlreadyPending):
		return "❌ You already have a pending payout request."
	case errors.Is(err, domain.ErrUnsupportedMethod):
		return "❌ This payout method is not available."
	case errors.Is(err, domain.ErrInvalidAmount):
		return "❌ Invalid amount."
	default:
		return "❌ Could not submit the request, try again later."
	}
}
