package middleware

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/service"
)

type ctxKey string

const (
	accountKey ctxKey = "account"
	userIDKey  ctxKey = "user_id"
	newUserKey ctxKey = "new_user"
)

// GetAccount extracts the loaded account from context.
func GetAccount(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(domain.Account)
	return a, ok
}

// UserID extracts the ledger user ID from context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// IsNewAccount reports whether this update created the account.
func IsNewAccount(ctx context.Context) bool {
	created, _ := ctx.Value(newUserKey).(bool)
	return created
}

// AccountLoader returns middleware that resolves the sender to a ledger
// account, creating it on first contact, and runs the daily rollover
// before any handler sees the balance.
func AccountLoader(ledger *service.Ledger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User

			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil || from.IsBot {
				next(ctx, b, update)
				return
			}

			userID := strconv.FormatInt(from.ID, 10)

			account, created, err := ledger.GetOrCreate(userID)
			if err != nil {
				slog.Error("load account", "user_id", userID, "error", err)
				next(ctx, b, update)
				return
			}

			if err := ledger.Rollover(userID); err != nil {
				slog.Error("daily rollover", "user_id", userID, "error", err)
			} else if account, err = ledger.Account(userID); err != nil {
				slog.Error("reload account", "user_id", userID, "error", err)
			}

			ctx = context.WithValue(ctx, accountKey, account)
			ctx = context.WithValue(ctx, userIDKey, userID)
			ctx = context.WithValue(ctx, newUserKey, created)

			next(ctx, b, update)
		}
	}
}
