package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/aurelia/internal/composer"
	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/prayer"
	"github.com/edgard/aurelia/internal/sanitize"
)

// NewPrayHandler returns a handler for the /pray command.
func NewPrayHandler(deps HandlerDeps) bot.HandlerFunc {
	return prayHandler{deps: deps, plain: sanitize.NewPlainTextPolicy()}.Handle
}

type prayHandler struct {
	deps  HandlerDeps
	plain *sanitize.Policy
}

func (h prayHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "pray")

	if update.Message == nil {
		log.WarnContext(ctx, "Pray handler received update without message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	feeling, challenge, ok := parsePrayArgs(commandArgs(update.Message.Text))
	if !ok {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.PrayUsage)
		return
	}
	profile := profileFor(h.deps.Config.Telegram, feeling, challenge)
	log.InfoContext(ctx, "Handling /pray command", "chat_id", chatID, "religion", profile.Religion, "language", profile.Language)

	typingCtx, stopTyping := context.WithCancel(ctx)
	go sendChatActionUntilDone(typingCtx, b, chatID, models.ChatActionTyping, log)
	res, err := h.deps.Generator.Generate(ctx, profile)
	stopTyping()

	if err != nil {
		// Degraded mode: the canned prayer still answers the request.
		log.ErrorContext(ctx, "Prayer generation failed, sending fallback", "error", err, "chat_id", chatID)
		fallback := profile
		fallback.TimeOfDay = composer.TimeOfDayAt(time.Now())
		h.reply(ctx, b, chatID, h.deps.Config.Messages.Fallback+"\n\n"+prayer.Fallback(fallback))
		return
	}

	h.reply(ctx, b, chatID, prayer.Title(res.Composition.Profile)+"\n\n"+h.plain.Sanitize(res.Text))

	if res.Audio != nil && len(res.Audio.Data) > 0 {
		wav, err := ToWAV(res.Audio.Data, res.Audio.MIMEType)
		if err != nil {
			log.WarnContext(ctx, "Failed to convert audio, skipping voice", "error", err, "mime_type", res.Audio.MIMEType)
		} else if _, err := b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileUpload{Filename: "prayer.wav", Data: bytes.NewReader(wav)},
			Caption:  fmt.Sprintf("🎙️ %s", res.Voice),
		}); err != nil {
			log.ErrorContext(ctx, "Failed to send prayer audio", "error", err, "chat_id", chatID)
		}
	}

	if h.deps.Store != nil {
		rec := res.Record(ownerFor(chatID))
		if err := h.deps.Store.SavePrayer(ctx, rec, h.deps.Config.History.MaxPerOwner); err != nil {
			log.WarnContext(ctx, "Failed to save prayer to history", "error", err, "chat_id", chatID)
		}
	}
}

func (h prayHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// commandArgs strips the leading command, including any @botname suffix.
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// parsePrayArgs accepts "<challenge>" or "<feeling> | <challenge>".
func parsePrayArgs(args string) (feeling, challenge string, ok bool) {
	if before, after, found := strings.Cut(args, "|"); found {
		feeling, challenge = strings.TrimSpace(before), strings.TrimSpace(after)
	} else {
		challenge = strings.TrimSpace(args)
	}
	return feeling, challenge, feeling != "" || challenge != ""
}

func profileFor(cfg config.TelegramConfig, feeling, challenge string) composer.Profile {
	if feeling == "" {
		feeling = cfg.Feeling
	}
	return composer.Profile{
		Role:      cfg.Role,
		Feeling:   feeling,
		Challenge: challenge,
		Religion:  cfg.Religion,
		Language:  cfg.Language,
	}
}

func ownerFor(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}
