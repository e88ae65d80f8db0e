package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/bitcorise/earnbot/internal/domain"
)

// AdminNotifier pushes operational events to the admin's private chat.
// All sends are best effort: a failed notification is logged and dropped,
// never surfaced to the user flow that triggered it.
type AdminNotifier struct {
	bot      *bot.Bot
	adminID  int64
	currency string
}

func NewAdminNotifier(b *bot.Bot, adminID int64, currency string) *AdminNotifier {
	return &AdminNotifier{bot: b, adminID: adminID, currency: currency}
}

func (n *AdminNotifier) send(message string) {
	if n.adminID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    n.adminID,
		Text:      message,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		slog.Error("failed to notify admin", "error", err)
	}
}

func (n *AdminNotifier) PayoutSubmitted(req domain.PayoutRequest) {
	n.send(fmt.Sprintf(
		"💸 *New Payout Request*\n\n*ID:* `%s`\n*User:* `%s` (@%s)\n*Amount:* %s\n*Method:* %s\n*Address:* `%s`\n\nApprove with /approve %s\nReject with /reject %s <reason>",
		req.ID, req.UserID, req.Username,
		FormatAmount(req.Amount, n.currency),
		req.Method, req.Address, req.ID, req.ID,
	))
}

func (n *AdminNotifier) PayoutProcessed(req domain.PayoutRequest) {
	icon := "✅"
	if req.Status == domain.PayoutStatusRejected {
		icon = "❌"
	}
	msg := fmt.Sprintf("%s *Payout %s*\n\n*ID:* `%s`\n*User:* `%s`\n*Amount:* %s",
		icon, req.Status, req.ID, req.UserID, FormatAmount(req.Amount, n.currency))
	if req.AdminNote != "" {
		msg += fmt.Sprintf("\n*Note:* %s", req.AdminNote)
	}
	n.send(msg)
}

func (n *AdminNotifier) NewReferral(referrerID, newUserID string, bonus decimal.Decimal) {
	n.send(fmt.Sprintf(
		"👥 *New Referral*\n\n*Referrer:* `%s`\n*New user:* `%s`\n*Bonus:* %s",
		referrerID, newUserID, FormatAmount(bonus, n.currency),
	))
}
