package handlers

import (
	"context"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Timeout bounds the time a handler may spend on one update. A non-positive
// d disables the bound.
func Timeout(d time.Duration) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			next(ctx, b, update)
		}
	}
}
