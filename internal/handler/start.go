package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/bitcorise/earnbot/internal/middleware"
	"github.com/bitcorise/earnbot/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	userID := middleware.UserID(ctx)
	if userID == "" {
		return
	}

	// Referral deep link: /start r_<referrerID>. The bonus is credited only
	// when this update just created the account, so re-opening the link
	// cannot be farmed.
	if middleware.IsNewAccount(ctx) {
		parts := strings.SplitN(update.Message.Text, " ", 2)
		if len(parts) > 1 {
			referrerID := strings.TrimPrefix(strings.TrimSpace(parts[1]), "r_")
			h.attributeReferral(ctx, b, userID, referrerID)
		}
	}

	name := "there"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	text := fmt.Sprintf(
		"👋 Welcome, *%s*!\n\n"+
			"Earn money by completing simple tasks: watch videos, visit sites, like and subscribe.\n\n"+
			"💵 Daily earning limit: %s\n"+
			"🏦 Minimum withdrawal: %s\n"+
			"👥 Referral bonus: %s per invited friend\n\n"+
			"Pick an option below to get started:",
		name,
		telegram.FormatAmount(h.ledger.DailyLimit(), h.currency()),
		telegram.FormatAmount(h.payouts.MinWithdraw(), h.currency()),
		telegram.FormatAmount(h.referrals.Bonus(), h.currency()),
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: h.mainMenuKeyboard(),
	})
}

func (h *Handler) attributeReferral(ctx context.Context, b *bot.Bot, newUserID, referrerID string) {
	credited, err := h.referrals.Attribute(newUserID, referrerID)
	if err != nil {
		slog.Error("referral attribution failed",
			"new_user", newUserID, "referrer", referrerID, "error", err)
		return
	}
	if !credited {
		return
	}

	h.notifier.NewReferral(referrerID, newUserID, h.referrals.Bonus())

	if chatID, err := strconv.ParseInt(referrerID, 10, 64); err == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf("🎉 A friend joined via your link! You earned %s.",
				telegram.FormatAmount(h.referrals.Bonus(), h.currency())),
		})
	}
}

func (h *Handler) handleStartMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}

	telegram.EditLongMessage(ctx, b, chatID, messageID,
		"🏠 *Main Menu*\n\nPick an option:", h.mainMenuKeyboard())
}

func (h *Handler) mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton("💰 Earn Money", "tasks")),
		telegram.ButtonRow(
			telegram.InlineButton("💳 My Balance", "balance"),
			telegram.InlineButton("🏦 Withdraw", "withdraw"),
		),
		telegram.ButtonRow(
			telegram.InlineButton("👥 Invite Friends", "invite"),
			telegram.InlineButton("📋 My Tasks", "my_tasks"),
		),
		telegram.ButtonRow(telegram.InlineButton("ℹ️ Information", "info")),
	)
}

// callbackMessage extracts the chat and message the callback button lives on.
func callbackMessage(update *models.Update) (int64, int, bool) {
	if update.CallbackQuery == nil || update.CallbackQuery.Message.Message == nil {
		return 0, 0, false
	}
	msg := update.CallbackQuery.Message.Message
	return msg.Chat.ID, msg.ID, true
}
