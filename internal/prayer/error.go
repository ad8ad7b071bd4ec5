package prayer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/edgard/aurelia/internal/gemini"
	"github.com/edgard/aurelia/internal/resilience"
)

// Stage names the pipeline step that failed.
type Stage string

// Pipeline stages.
const (
	StageRateLimit Stage = "rate_limit"
	StageText      Stage = "text"
	StageSpeech    Stage = "speech"
)

// Messages returned to clients for each failing stage.
const (
	MessageRateLimited = "Too Many Requests"
	MessageTextFailed  = "Failed to generate prayer text."
	MessageAudioFailed = "Failed to generate audio."
)

// Error is a pipeline failure carrying the HTTP status and client-facing
// message for the stage that failed.
type Error struct {
	Stage   Stage
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("prayer %s stage failed (status %d): %v", e.Stage, e.Status, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func stageError(stage Stage, message string, err error) *Error {
	return &Error{Stage: stage, Status: statusFor(err), Message: message, Err: err}
}

// statusFor maps an upstream failure to the status reported to clients: the
// Gemini status when there is one, 502 for an empty but successful response,
// 503 while the Gemini circuit is open, 504 for a stage timeout and 500
// otherwise. genai's GenerateContentResponse carries no HTTP status, so an
// empty 2xx response cannot report the provider's code and maps to 502.
func statusFor(err error) int {
	if code, ok := gemini.StatusCode(err); ok {
		return code
	}
	switch {
	case errors.Is(err, gemini.ErrEmptyResponse):
		return http.StatusBadGateway
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
