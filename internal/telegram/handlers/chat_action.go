package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Telegram clears a chat action after about five seconds.
const chatActionInterval = 4 * time.Second

// sendChatActionUntilDone repeats action in chatID until ctx is cancelled.
func sendChatActionUntilDone(ctx context.Context, b *bot.Bot, chatID int64, action models.ChatAction, log *slog.Logger) {
	ticker := time.NewTicker(chatActionInterval)
	defer ticker.Stop()

	for {
		if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: action}); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.DebugContext(ctx, "Chat action failed", "error", err, "chat_id", chatID)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
