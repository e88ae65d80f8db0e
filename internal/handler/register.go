package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleBalanceCommand)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myid", bot.MatchTypePrefix, h.handleMyID)

	// Admin commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin_stats", bot.MatchTypePrefix, h.handleAdminStats)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin_payouts", bot.MatchTypePrefix, h.handleAdminPayouts)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/approve", bot.MatchTypePrefix, h.handleApprove)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reject", bot.MatchTypePrefix, h.handleReject)

	// Menu callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "start_menu", bot.MatchTypeExact, h.handleStartMenu)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "tasks", bot.MatchTypeExact, h.handleTasks)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "balance", bot.MatchTypeExact, h.handleBalance)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "withdraw", bot.MatchTypeExact, h.handleWithdraw)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "invite", bot.MatchTypeExact, h.handleInvite)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "info", bot.MatchTypeExact, h.handleInfo)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "my_tasks", bot.MatchTypeExact, h.handleMyTasks)

	// Task callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "category_", bot.MatchTypePrefix, h.handleCategory)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "individual_", bot.MatchTypePrefix, h.handleIndividualTask)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "complete_", bot.MatchTypePrefix, h.handleComplete)

	// Withdraw callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "payout_", bot.MatchTypePrefix, h.handlePayoutMethod)
}

// answerCallback acknowledges a callback query, optionally with an alert.
func (h *Handler) answerCallback(ctx context.Context, update *models.Update, text string, alert bool) {
	if update.CallbackQuery == nil {
		return
	}
	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
		ShowAlert:       alert,
	})
}
