package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/aurelia/internal/database"
)

const historyPreviewRunes = 120

// NewHistoryHandler returns a handler for the /history command.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "history")

	if update.Message == nil {
		log.WarnContext(ctx, "History handler received update without message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /history command", "chat_id", chatID)

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	text := h.deps.Config.Messages.NoHistory
	prayers, err := h.deps.Store.ListPrayers(timeoutCtx, ownerFor(chatID), h.deps.Config.Telegram.HistorySize)
	switch {
	case err != nil:
		log.ErrorContext(ctx, "Failed to list prayers", "error", err, "chat_id", chatID)
		text = h.deps.Config.Messages.GeneralError
	case len(prayers) > 0:
		text = formatHistory(h.deps.Config.Messages.HistoryHeader, prayers)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send history", "error", err, "chat_id", chatID)
	}
}

func formatHistory(header string, prayers []*database.Prayer) string {
	var sb strings.Builder
	sb.WriteString(header)
	for i, p := range prayers {
		fmt.Fprintf(&sb, "\n\n%d. %s · %s\n%s",
			i+1,
			p.CreatedAt.Format("2006-01-02 15:04"),
			p.EmotionalCategory,
			preview(p.Text, historyPreviewRunes))
	}
	return sb.String()
}

func preview(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return strings.TrimSpace(string(r[:maxRunes])) + "…"
}
