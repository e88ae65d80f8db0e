package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/bitcorise/earnbot/internal/middleware"
	"github.com/bitcorise/earnbot/internal/telegram"
)

func (h *Handler) handleInvite(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)
	account, _ := middleware.GetAccount(ctx)

	link := fmt.Sprintf("https://t.me/%s?start=r_%s", h.botUsername, userID)

	text := fmt.Sprintf(
		"👥 *Invite Friends*\n\n"+
			"Earn %s for every friend who joins via your link!\n\n"+
			"🔗 Your link:\n`%s`\n\n"+
			"👥 Friends invited: %d",
		telegram.FormatAmount(h.referrals.Bonus(), h.currency()),
		link,
		account.Referrals,
	)

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.URLButton("📤 Share Link",
			fmt.Sprintf("https://t.me/share/url?url=%s", link))),
		telegram.ButtonRow(telegram.InlineButton("🔙 Back", "start_menu")),
	))
}

func (h *Handler) handleInfo(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}

	text := fmt.Sprintf(
		"ℹ️ *How it works*\n\n"+
			"1️⃣ Pick a task and open its link.\n"+
			"2️⃣ Wait the required time while doing the task.\n"+
			"3️⃣ Press \"I Completed It\" to claim the reward.\n\n"+
			"📌 *Rules*\n"+
			"• Each task can be completed once per day.\n"+
			"• Daily earning limit: %s.\n"+
			"• Minimum withdrawal: %s.\n"+
			"• Invite friends to earn %s per friend.\n\n"+
			"Payouts are reviewed manually and usually processed within 24 hours.",
		telegram.FormatAmount(h.ledger.DailyLimit(), h.currency()),
		telegram.FormatAmount(h.payouts.MinWithdraw(), h.currency()),
		telegram.FormatAmount(h.referrals.Bonus(), h.currency()),
	)

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton("🔙 Back", "start_menu")),
	))
}

func (h *Handler) handleMyTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	text := "📋 *My Tasks*\n"

	active := h.timers.ActiveFor(userID)
	if len(active) == 0 {
		text += "\nNo tasks in progress."
	} else {
		text += "\n⏱ *In progress:*\n"
		for _, t := range active {
			def, _ := h.catalog.Lookup(t.Instance.Category)
			text += fmt.Sprintf("• %s — %s left\n",
				def.Name, telegram.FormatDuration(t.Remaining))
		}
	}

	text += fmt.Sprintf("\n✅ Completed today: %d", h.registry.CompletedToday(userID))

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton("💰 Earn Money", "tasks")),
		telegram.ButtonRow(telegram.InlineButton("🔙 Back", "start_menu")),
	))
}
