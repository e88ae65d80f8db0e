package handler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/middleware"
	"github.com/bitcorise/earnbot/internal/telegram"
)

func (h *Handler) handleTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.answerCallback(ctx, update, "", false)

	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	categories := make([]string, 0, len(h.catalog))
	for category := range h.catalog {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var rows [][]models.InlineKeyboardButton
	for _, category := range categories {
		def := h.catalog[category]
		available := len(h.registry.AvailableInstances(userID, category))
		label := fmt.Sprintf("%s (+%s)", def.Name, telegram.FormatAmount(def.Reward, h.currency()))
		if available == 0 {
			label = "✅ " + def.Name
		}
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(label, "category_"+category),
		))
	}
	rows = append(rows, telegram.ButtonRow(telegram.InlineButton("🔙 Back", "start_menu")))

	account, _ := middleware.GetAccount(ctx)
	text := fmt.Sprintf(
		"💰 *Earn Money*\n\nEarned today: %s of %s\n\nChoose a task type:",
		telegram.FormatAmount(account.DailyEarned, h.currency()),
		telegram.FormatAmount(h.ledger.DailyLimit(), h.currency()),
	)

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(rows...))
}

func (h *Handler) handleCategory(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	category := strings.TrimPrefix(update.CallbackQuery.Data, "category_")
	def, found := h.catalog.Lookup(category)
	if !found {
		h.answerCallback(ctx, update, "Unknown task.", true)
		return
	}

	instances := h.catalog.Instances(category)

	// Single-instance categories skip the instance list.
	if len(instances) == 1 {
		h.showTask(ctx, b, update, chatID, messageID, userID, instances[0], def)
		return
	}
	h.answerCallback(ctx, update, "", false)

	available := make(map[string]struct{})
	for _, k := range h.registry.AvailableInstances(userID, category) {
		available[k.String()] = struct{}{}
	}

	var rows [][]models.InlineKeyboardButton
	for i, instance := range instances {
		label := fmt.Sprintf("%s #%d (+%s)", def.Name, i+1,
			telegram.FormatAmount(def.Reward, h.currency()))
		if _, ok := available[instance.String()]; !ok {
			label = fmt.Sprintf("✅ %s #%d", def.Name, i+1)
		}
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(label, "individual_"+instance.String()),
		))
	}
	rows = append(rows, telegram.ButtonRow(telegram.InlineButton("🔙 Back", "tasks")))

	text := fmt.Sprintf("📋 *%s*\n\n%s\n\nEach one pays %s. Pick an available task:",
		def.Name, def.Description, telegram.FormatAmount(def.Reward, h.currency()))

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(rows...))
}

func (h *Handler) handleIndividualTask(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	rawKey := strings.TrimPrefix(update.CallbackQuery.Data, "individual_")
	instance, err := domain.ParseInstanceKey(rawKey, h.catalog)
	if err != nil {
		h.answerCallback(ctx, update, "Unknown task.", true)
		return
	}
	def, _ := h.catalog.Lookup(instance.Category)

	h.showTask(ctx, b, update, chatID, messageID, userID, instance, def)
}

// showTask starts the task timer and renders the task card with its
// completion button.
func (h *Handler) showTask(ctx context.Context, b *bot.Bot, update *models.Update, chatID int64, messageID int, userID string, instance domain.InstanceKey, def domain.TaskDefinition) {
	_, _, err := h.awarder.Begin(userID, instance.String())
	switch {
	case errors.Is(err, domain.ErrAlreadyClaimedToday):
		h.answerCallback(ctx, update, "✅ Already completed today. Come back tomorrow!", true)
		return
	case errors.Is(err, domain.ErrDailyLimitReached):
		h.answerCallback(ctx, update, "⛔ Daily earning limit reached. Come back tomorrow!", true)
		return
	case err != nil:
		h.answerCallback(ctx, update, "Something went wrong, try again.", true)
		return
	}
	h.answerCallback(ctx, update, "", false)

	text := fmt.Sprintf("📌 *%s*\n\n%s\n\n💵 Reward: %s\n⏱ Required time: %s",
		def.Name, def.Description,
		telegram.FormatAmount(def.Reward, h.currency()),
		telegram.FormatDuration(def.Wait()),
	)

	var rows [][]models.InlineKeyboardButton
	if link, hasLink := instance.Link(def); hasLink {
		rows = append(rows, telegram.ButtonRow(telegram.URLButton("🔗 Open Task", link)))
	}
	rows = append(rows,
		telegram.ButtonRow(telegram.InlineButton("✅ I Completed It", "complete_"+instance.String())),
		telegram.ButtonRow(telegram.InlineButton("🔙 Back", "tasks")),
	)

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(rows...))
}

func (h *Handler) handleComplete(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		return
	}
	userID := middleware.UserID(ctx)

	rawKey := strings.TrimPrefix(update.CallbackQuery.Data, "complete_")

	account, err := h.awarder.Claim(userID, rawKey)
	switch {
	case errors.Is(err, domain.ErrTimerNotElapsed):
		remaining, remErr := h.awarder.Remaining(userID, rawKey)
		if remErr != nil {
			remaining = 0
		}
		h.answerCallback(ctx, update,
			fmt.Sprintf("⏱ Not yet! Wait %d more seconds.", remaining), true)
		return
	case errors.Is(err, domain.ErrAlreadyClaimedToday):
		h.answerCallback(ctx, update, "✅ Already completed today.", true)
		return
	case errors.Is(err, domain.ErrDailyLimitReached):
		h.answerCallback(ctx, update, "⛔ Daily earning limit reached. Come back tomorrow!", true)
		return
	case errors.Is(err, domain.ErrUnknownTask):
		h.answerCallback(ctx, update, "Unknown task.", true)
		return
	case err != nil:
		h.answerCallback(ctx, update, "Something went wrong, try again.", true)
		return
	}

	instance, _ := domain.ParseInstanceKey(rawKey, h.catalog)
	def, _ := h.catalog.Lookup(instance.Category)

	h.answerCallback(ctx, update,
		fmt.Sprintf("🎉 +%s credited!", telegram.FormatAmount(def.Reward, h.currency())), false)

	text := fmt.Sprintf(
		"🎉 *Task completed!*\n\n💵 You earned: %s\n💳 Balance: %s\n📈 Earned today: %s of %s",
		telegram.FormatAmount(def.Reward, h.currency()),
		telegram.FormatAmount(account.Balance, h.currency()),
		telegram.FormatAmount(account.DailyEarned, h.currency()),
		telegram.FormatAmount(h.ledger.DailyLimit(), h.currency()),
	)

	telegram.EditLongMessage(ctx, b, chatID, messageID, text, telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.InlineButton("💰 More Tasks", "tasks")),
		telegram.ButtonRow(telegram.InlineButton("🏠 Main Menu", "start_menu")),
	))
}
