// Package gemini wraps the Google Gemini SDK for the two calls the prayer
// pipeline makes: grounded text generation and text-to-speech.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/aurelia/internal/config"
	"github.com/edgard/aurelia/internal/resilience"
)

// ErrEmptyResponse is returned when the API call succeeded but the response
// carried no usable text or audio.
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// Audio is raw audio returned by the speech model.
type Audio struct {
	Data     []byte
	MIMEType string
}

// contentGenerator is the subset of *genai.Models used by the client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client generates prayer text and speech.
type Client struct {
	models      contentGenerator
	log         *slog.Logger
	textModel   string
	speechModel string
	temperature *float32
	search      bool
	maxRetries  int
	retryDelay  time.Duration
	breaker     *resilience.CircuitBreaker
}

// NewClient creates a Gemini client from configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	gi, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := newClient(gi.Models, cfg, log)
	c.log.Info("Gemini client initialized", "text_model", c.textModel, "speech_model", c.speechModel)
	return c, nil
}

func newClient(models contentGenerator, cfg config.GeminiConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		models:      models,
		log:         log.With("component", "gemini_client"),
		textModel:   cfg.TextModel,
		speechModel: cfg.SpeechModel,
		search:      cfg.GoogleSearch,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
	}
	if cfg.Temperature != nil {
		t := *cfg.Temperature
		c.temperature = &t
	}
	if cfg.BreakerFailures > 0 {
		c.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:        "gemini",
			MaxFailures: cfg.BreakerFailures,
			Cooldown:    cfg.BreakerCooldown,
			Trips:       upstreamFailure,
		}, c.log)
	}
	return c
}

// GenerateText sends the prompt with the given system instruction to the
// text model and returns the first text part of the first candidate.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: c.temperature,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if c.search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	c.log.DebugContext(ctx, "Generating text", "model", c.textModel, "prompt_length", len(prompt))
	resp, err := c.generateContentWithRetries(ctx, c.textModel, contents, cfg)
	if err != nil {
		return "", err
	}
	return c.extractText(ctx, resp)
}

// Synthesize reads text aloud with the named prebuilt voice.
func (c *Client) Synthesize(ctx context.Context, text, voice string) (*Audio, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	c.log.DebugContext(ctx, "Synthesizing speech", "model", c.speechModel, "voice", voice, "text_length", len(text))
	resp, err := c.generateContentWithRetries(ctx, c.speechModel, contents, cfg)
	if err != nil {
		return nil, err
	}
	return c.extractAudio(ctx, resp)
}

func (c *Client) generateContentWithRetries(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for i := 0; ; i++ {
		resp, err := c.generateContent(ctx, model, contents, cfg)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, resilience.ErrCircuitOpen) {
			c.log.WarnContext(ctx, "Gemini circuit open, failing fast", "model", model)
			return nil, fmt.Errorf("gemini API call rejected: %w", err)
		}

		code, ok := StatusCode(err)
		if !ok || !retriable(code) {
			c.log.ErrorContext(ctx, "Gemini API call failed with non-retriable error", "model", model, "error", err)
			return nil, fmt.Errorf("gemini API call failed: %w", err)
		}
		if i >= c.maxRetries {
			c.log.ErrorContext(ctx, "Gemini API call failed after max retries", "model", model, "code", code, "error", err)
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.maxRetries, code, err)
		}

		c.log.WarnContext(ctx, "Retrying Gemini API call", "model", model, "attempt", i+1, "code", code, "delay", c.retryDelay)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gemini API call aborted: %w", ctx.Err())
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *Client) generateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if c.breaker == nil {
		return c.models.GenerateContent(ctx, model, contents, cfg)
	}
	var resp *genai.GenerateContentResponse
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.models.GenerateContent(ctx, model, contents, cfg)
		return err
	})
	return resp, err
}

// upstreamFailure reports whether err means Gemini itself is unhealthy:
// server errors, rate limiting and transport failures. Client errors and
// cancellations do not count.
func upstreamFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	code, ok := StatusCode(err)
	if !ok {
		return true
	}
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func retriable(code int) bool {
	return code == http.StatusInternalServerError || code == http.StatusServiceUnavailable
}

// StatusCode reports the HTTP status carried by a Gemini API error in err's
// chain.
func StatusCode(err error) (int, bool) {
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, ptr.Code != 0
	}
	var val genai.APIError
	if errors.As(err, &val) {
		return val.Code, val.Code != 0
	}
	return 0, false
}

func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	return cand.Content.Parts
}

func (c *Client) checkBlocked(ctx context.Context, resp *genai.GenerateContentResponse) error {
	if resp == nil || resp.PromptFeedback == nil {
		return nil
	}
	if br := resp.PromptFeedback.BlockReason; br == "" || br == genai.BlockedReasonUnspecified {
		return nil
	}
	reason := string(resp.PromptFeedback.BlockReason)
	if resp.PromptFeedback.BlockReasonMessage != "" {
		reason = resp.PromptFeedback.BlockReasonMessage
	}
	c.log.WarnContext(ctx, "Gemini request blocked", "reason", reason)
	return fmt.Errorf("%w: blocked by safety filter: %s", ErrEmptyResponse, reason)
}

func (c *Client) extractText(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if err := c.checkBlocked(ctx, resp); err != nil {
		return "", err
	}
	for _, p := range firstParts(resp) {
		if p == nil || p.Thought {
			continue
		}
		if text := strings.TrimSpace(p.Text); text != "" {
			return text, nil
		}
	}
	c.log.WarnContext(ctx, "Gemini response has no text", "finish_reason", finishReason(resp))
	return "", ErrEmptyResponse
}

func (c *Client) extractAudio(ctx context.Context, resp *genai.GenerateContentResponse) (*Audio, error) {
	if err := c.checkBlocked(ctx, resp); err != nil {
		return nil, err
	}
	for _, p := range firstParts(resp) {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		return &Audio{Data: p.InlineData.Data, MIMEType: p.InlineData.MIMEType}, nil
	}
	c.log.WarnContext(ctx, "Gemini response has no audio", "finish_reason", finishReason(resp))
	return nil, ErrEmptyResponse
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "unknown"
	}
	return string(resp.Candidates[0].FinishReason)
}
