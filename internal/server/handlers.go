package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edgard/aurelia/internal/composer"
	"github.com/edgard/aurelia/internal/database"
	"github.com/edgard/aurelia/internal/prayer"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// generateRequest accepts the profile either flat or nested under "profile".
type generateRequest struct {
	composer.Profile
	Nested *composer.Profile `json:"profile"`
}

type generateResponse struct {
	ID            string          `json:"id,omitempty"`
	PrayerText    string          `json:"prayerText"`
	AudioData     []byte          `json:"audioData"`
	AudioMIMEType string          `json:"audioMimeType"`
	Voice         string          `json:"voice"`
	Metadata      prayer.Metadata `json:"metadata"`
}

type prayerResponse struct {
	ID            string           `json:"id"`
	PrayerText    string           `json:"prayerText"`
	AudioData     []byte           `json:"audioData,omitempty"`
	AudioMIMEType string           `json:"audioMimeType,omitempty"`
	Voice         string           `json:"voice,omitempty"`
	Profile       composer.Profile `json:"profile"`
	Metadata      prayer.Metadata  `json:"metadata"`
	Timestamp     time.Time        `json:"timestamp"`
}

type listResponse struct {
	Prayers []prayerResponse `json:"prayers"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var req generateRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.log.WarnContext(r.Context(), "Malformed generate request", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal Server Error",
			Details: fmt.Sprintf("invalid request body: %v", err),
		})
		return
	}
	profile := req.Profile
	if req.Nested != nil {
		profile = *req.Nested
	}

	res, err := s.generator.Generate(r.Context(), profile)
	if err != nil {
		var perr *prayer.Error
		if errors.As(err, &perr) {
			status := perr.Status
			if status < http.StatusBadRequest {
				status = http.StatusBadGateway
			}
			writeError(w, status, perr.Message)
			return
		}
		s.log.ErrorContext(r.Context(), "Prayer generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error", Details: err.Error()})
		return
	}

	resp := generateResponse{
		PrayerText:    res.Text,
		AudioData:     res.Audio.Data,
		AudioMIMEType: res.Audio.MIMEType,
		Voice:         res.Voice,
		Metadata:      res.Metadata(),
	}
	if owner := ownerOf(r); owner != "" && s.store != nil {
		rec := res.Record(owner)
		// History is best-effort: the prayer is returned even if saving fails.
		if err := s.store.SavePrayer(r.Context(), rec, s.historySize); err != nil {
			s.log.WarnContext(r.Context(), "Failed to save prayer to history", "owner", owner, "error", err)
		} else {
			resp.ID = rec.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPrayers(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.requireOwner(w, r)
	if !ok {
		return
	}

	limit := database.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	prayers, err := s.store.ListPrayers(r.Context(), owner, limit)
	if err != nil {
		s.log.ErrorContext(r.Context(), "Failed to list prayers", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	resp := listResponse{Prayers: make([]prayerResponse, 0, len(prayers))}
	for _, p := range prayers {
		resp.Prayers = append(resp.Prayers, toPrayerResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPrayer(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.requireOwner(w, r)
	if !ok {
		return
	}

	p, err := s.store.GetPrayer(r.Context(), r.PathValue("id"))
	if err != nil {
		s.log.ErrorContext(r.Context(), "Failed to get prayer", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if p == nil || p.Owner != owner {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, http.StatusOK, toPrayerResponse(p))
}

func (s *Server) handleDeletePrayer(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.requireOwner(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeletePrayer(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		s.log.ErrorContext(r.Context(), "Failed to delete prayer", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return "", false
	}
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, OwnerHeader+" header is required")
		return "", false
	}
	return owner, true
}

func ownerOf(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(OwnerHeader))
}

func toPrayerResponse(p *database.Prayer) prayerResponse {
	return prayerResponse{
		ID:            p.ID,
		PrayerText:    p.Text,
		AudioData:     p.Audio,
		AudioMIMEType: p.AudioMIMEType,
		Voice:         p.Voice,
		Profile: composer.Profile{
			Role:      p.Role,
			Feeling:   p.Feeling,
			TimeOfDay: composer.TimeOfDay(p.TimeOfDay),
			Language:  p.Language,
			Religion:  p.Religion,
			Challenge: p.Challenge,
		},
		Metadata: prayer.Metadata{
			EmotionalCategory: p.EmotionalCategory,
			PrayerLength:      p.PrayerLength,
			Tone:              p.Tone,
			Religion:          p.Religion,
			TimeOfDay:         p.TimeOfDay,
			Greeting:          p.Greeting,
			Ending:            p.Ending,
		},
		Timestamp: p.CreatedAt,
	}
}
