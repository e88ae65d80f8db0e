package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/telegram"
)

// adminGate replies to non-admins and reports whether the sender may proceed.
func (h *Handler) adminGate(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}
	if !h.cfg.IsAdmin(update.Message.From.ID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "⛔ This command is for the administrator only.",
		})
		return false
	}
	return true
}

func (h *Handler) handleAdminStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.adminGate(ctx, b, update) {
		return
	}

	s := h.stats.Collect()
	text := fmt.Sprintf(
		"📊 *Bot Statistics*\n\n"+
			"👤 Users: %d\n"+
			"💵 Total balance: %s\n"+
			"📈 Total earned: %s\n"+
			"✅ Tasks completed: %d\n"+
			"👥 Referrals: %d\n"+
			"⏱ Active tasks: %d\n\n"+
			"💸 Payouts: %d pending, %d approved, %d rejected",
		s.TotalUsers,
		telegram.FormatAmount(s.TotalBalance, h.currency()),
		telegram.FormatAmount(s.TotalEarned, h.currency()),
		s.TasksCompleted,
		s.TotalReferrals,
		s.ActiveTasks,
		s.PendingPayouts, s.ApprovedPayouts, s.RejectedPayouts,
	)

	telegram.SendLongMessage(ctx, b, update.Message.Chat.ID, text, nil)
}

func (h *Handler) handleAdminPayouts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.adminGate(ctx, b, update) {
		return
	}

	pending := h.payouts.ListPending()
	if len(pending) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "✅ No pending payout requests.",
		})
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💸 *Pending Payouts* (%d)\n", len(pending))
	for _, req := range pending {
		fmt.Fprintf(&sb,
			"\n*ID:* `%s`\n*User:* `%s` (@%s)\n*Amount:* %s\n*Method:* %s\n*Address:* `%s`\n*Submitted:* %s\n",
			req.ID, req.UserID, req.Username,
			telegram.FormatAmount(req.Amount, h.currency()),
			req.Method, req.Address,
			req.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	sb.WriteString("\nApprove with /approve <id>, reject with /reject <id> <reason>")

	telegram.SendLongMessage(ctx, b, update.Message.Chat.ID, sb.String(), nil)
}

func (h *Handler) handleApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.adminGate(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	if len(args) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /approve <request_id>",
		})
		return
	}

	req, err := h.payouts.Approve(args[1], update.Message.From.ID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   adminPayoutErrorText(err),
		})
		return
	}

	h.notifier.PayoutProcessed(req)
	h.notifyRequester(ctx, b, req, fmt.Sprintf(
		"✅ Your payout request `%s` for %s has been approved! The funds are on their way.",
		req.ID, telegram.FormatAmount(req.Amount, h.currency())))

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("✅ Request `%s` approved.", req.ID),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) handleReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.adminGate(ctx, b, update) {
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	if len(args) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /reject <request_id> [reason]",
		})
		return
	}
	reason := strings.Join(args[2:], " ")

	req, err := h.payouts.Reject(args[1], update.Message.From.ID, reason)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   adminPayoutErrorText(err),
		})
		return
	}

	h.notifier.PayoutProcessed(req)
	userMsg := fmt.Sprintf(
		"❌ Your payout request `%s` was rejected and %s was returned to your balance.",
		req.ID, telegram.FormatAmount(req.Amount, h.currency()))
	if reason != "" {
		userMsg += fmt.Sprintf("\nReason: %s", reason)
	}
	h.notifyRequester(ctx, b, req, userMsg)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("❌ Request `%s` rejected, funds restored.", req.ID),
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func (h *Handler) notifyRequester(ctx context.Context, b *bot.Bot, req domain.PayoutRequest, text string) {
	chatID, err := strconv.ParseInt(req.UserID, 10, 64)
	if err != nil {
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}

func adminPayoutErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		return "❌ Request not found."
	case errors.Is(err, domain.ErrRequestAlreadyProcessed):
		return "❌ Request was already processed."
	case errors.Is(err, domain.ErrNotAuthorized):
		return "⛔ Not authorized."
	default:
		return "❌ Could not process the request."
	}
}
