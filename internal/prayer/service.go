// Package prayer runs the two-stage generation pipeline: the composed prompt
// goes to the text model, the finalised text goes to the speech model.
package prayer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/edgard/aurelia/internal/composer"
	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/database"
	"github.com/edgard/aurelia/internal/gemini"
)

// TextGenerator produces prayer text from a system instruction and prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// SpeechSynthesizer reads text aloud with a named voice.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*gemini.Audio, error)
}

// Draft is the output of the text stage.
type Draft struct {
	Composition *composer.Composition
	Text        string
}

// Result is a complete prayer: finalised text plus audio.
type Result struct {
	Draft
	// Religion is the religion as requested, before falling back to a known
	// template.
	Religion  string
	Audio     *gemini.Audio
	Voice     string
	CreatedAt time.Time
}

// Metadata describes how a prayer was generated.
type Metadata struct {
	EmotionalCategory string `json:"emotionalCategory"`
	PrayerLength      string `json:"prayerLength"`
	Tone              string `json:"tone"`
	Religion          string `json:"religion"`
	TimeOfDay         string `json:"timeOfDay"`
	Greeting          string `json:"greeting"`
	Ending            string `json:"ending"`
}

// Metadata returns the generation metadata of r.
func (r *Result) Metadata() Metadata {
	c := r.Composition
	return Metadata{
		EmotionalCategory: string(c.Context.Category),
		PrayerLength:      string(c.Context.Config.Length),
		Tone:              c.Context.Config.Tone,
		Religion:          r.Religion,
		TimeOfDay:         string(c.Profile.TimeOfDay),
		Greeting:          c.Greeting,
		Ending:            c.Ending,
	}
}

// Record converts r into a history row for owner with a fresh ID.
func (r *Result) Record(owner string) *database.Prayer {
	c := r.Composition
	p := &database.Prayer{
		ID:                uuid.NewString(),
		Owner:             owner,
		Text:              r.Text,
		Voice:             r.Voice,
		Role:              c.Profile.Role,
		Feeling:           c.Profile.Feeling,
		TimeOfDay:         string(c.Profile.TimeOfDay),
		Language:          c.Profile.Language,
		Religion:          r.Religion,
		Challenge:         c.Profile.Challenge,
		EmotionalCategory: string(c.Context.Category),
		PrayerLength:      string(c.Context.Config.Length),
		Tone:              c.Context.Config.Tone,
		Greeting:          c.Greeting,
		Ending:            c.Ending,
		CreatedAt:         r.CreatedAt,
	}
	if r.Audio != nil {
		p.Audio = r.Audio.Data
		p.AudioMIMEType = r.Audio.MIMEType
	}
	return p
}

// Service generates prayers. It is safe for concurrent use.
type Service struct {
	composer      *composer.Composer
	text          TextGenerator
	speech        SpeechSynthesizer
	voices        Voices
	limiter       *rate.Limiter
	textTimeout   time.Duration
	speechTimeout time.Duration
	log           *slog.Logger
	now           func() time.Time
}

// NewService wires the pipeline. A zero cfg.RateLimit disables rate limiting.
func NewService(cfg config.PrayerConfig, comp *composer.Composer, text TextGenerator, speech SpeechSynthesizer, log *slog.Logger) *Service {
	if comp == nil {
		comp = composer.New()
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		composer:      comp,
		text:          text,
		speech:        speech,
		voices:        NewVoices(cfg.Voices, cfg.DefaultVoice),
		textTimeout:   cfg.TextTimeout,
		speechTimeout: cfg.SpeechTimeout,
		log:           log.With("component", "prayer_service"),
		now:           time.Now,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Composer returns the composer used for prompts.
func (s *Service) Composer() *composer.Composer { return s.composer }

// Generate runs both stages for p. Failures are returned as *Error.
func (s *Service) Generate(ctx context.Context, p composer.Profile) (*Result, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.log.WarnContext(ctx, "Prayer request rate limited")
		return nil, &Error{
			Stage:   StageRateLimit,
			Status:  http.StatusTooManyRequests,
			Message: MessageRateLimited,
			Err:     errors.New("rate limit exceeded"),
		}
	}

	start := time.Now()
	draft, err := s.Draft(ctx, p)
	if err != nil {
		return nil, err
	}
	res, err := s.Speak(ctx, draft)
	if err != nil {
		return nil, err
	}
	res.Religion = p.Religion
	if strings.TrimSpace(res.Religion) == "" {
		res.Religion = draft.Composition.Religion
	}

	s.log.InfoContext(ctx, "Prayer generated",
		"category", draft.Composition.Context.Category,
		"religion", draft.Composition.Religion,
		"voice", res.Voice,
		"text_length", len(res.Text),
		"audio_bytes", len(res.Audio.Data),
		"duration", time.Since(start))
	return res, nil
}

// Draft runs the text stage: compose, generate, finalise.
func (s *Service) Draft(ctx context.Context, p composer.Profile) (*Draft, error) {
	comp := s.composer.Compose(p)

	tctx, cancel := withTimeout(ctx, s.textTimeout)
	defer cancel()

	raw, err := s.text.GenerateText(tctx, comp.Prompt.System, comp.Prompt.User)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = gemini.ErrEmptyResponse
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Text stage failed", "error", err)
		return nil, stageError(StageText, MessageTextFailed, err)
	}

	return &Draft{Composition: comp, Text: comp.Finalize(raw)}, nil
}

// Speak runs the speech stage for a finalised draft.
func (s *Service) Speak(ctx context.Context, d *Draft) (*Result, error) {
	voice := s.voices.For(d.Composition.Profile.Language)

	sctx, cancel := withTimeout(ctx, s.speechTimeout)
	defer cancel()

	audio, err := s.speech.Synthesize(sctx, d.Text, voice)
	if err == nil && (audio == nil || len(audio.Data) == 0) {
		err = gemini.ErrEmptyResponse
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Speech stage failed", "voice", voice, "error", err)
		return nil, stageError(StageSpeech, MessageAudioFailed, err)
	}

	return &Result{
		Draft:     *d,
		Religion:  d.Composition.Religion,
		Audio:     audio,
		Voice:     voice,
		CreatedAt: s.now(),
	}, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
