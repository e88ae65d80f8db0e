package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/middleware"
	"github.com/bitcorise/earnbot/internal/telegram"
)

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	account, ok := middleware.GetAccount(ctx)
	if !ok {
		return
	}

	telegram.EditLongMessage(ctx, b, chatID, messageID,
		h.balanceText(ctx, account), telegram.InlineKeyboard(
			telegram.ButtonRow(
				telegram.InlineButton("💰 Earn More", "tasks"),
				telegram.InlineButton("🏦 Withdraw", "withdraw"),
			),
			telegram.ButtonRow(telegram.InlineButton("🔙 Back", "start_menu")),
		))
}

func (h *Handler) handleBalanceCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	account, ok := middleware.GetAccount(ctx)
	if !ok {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      h.balanceText(ctx, account),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) balanceText(ctx context.Context, account domain.Account) string {
	userID := middleware.UserID(ctx)

	text := fmt.Sprintf(
		"💳 *My Balance*\n\n"+
			"💵 Available: %s\n"+
			"📈 Total earned: %s\n"+
			"📅 Earned today: %s of %s\n"+
			"✅ Tasks completed: %d\n"+
			"👥 Friends invited: %d",
		telegram.FormatAmount(account.Balance, h.currency()),
		telegram.FormatAmount(account.TotalEarned, h.currency()),
		telegram.FormatAmount(account.DailyEarned, h.currency()),
		telegram.FormatAmount(h.ledger.DailyLimit(), h.currency()),
		account.TasksCompleted,
		account.Referrals,
	)

	if pending := h.payouts.PendingFor(userID); len(pending) > 0 {
		req := pending[0]
		text += fmt.Sprintf("\n\n⏳ Pending payout: %s via %s",
			telegram.FormatAmount(req.Amount, h.currency()), req.Method)
	}
	return text
}

func (h *Handler) handleMyID(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      fmt.Sprintf("Your Telegram ID: `%d`", update.Message.From.ID),
		ParseMode: models.ParseModeMarkdownV1,
	})
}
