package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stridelab/metronome/internal/model"
	"github.com/stridelab/metronome/internal/repository"
)

type ProfileHandler struct {
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
}

func NewProfileHandler(profiles repository.ProfileRepository, sessions repository.SessionRepository) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		sessions: sessions,
	}
}

func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile model.RunnerProfile
	err := decodeJSON(r, &profile)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if profile.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if profile.PreferredUnit == "" {
		profile.PreferredUnit = "min_per_km"
	}
	if !cadenceInRange(profile.BaselineCadence) || !cadenceInRange(profile.TargetCadence) {
		respondError(w, http.StatusBadRequest, "cadence must be between 120 and 210 spm")
		return
	}

	profile.ID = ""
	err = h.profiles.Create(&profile)
	if err != nil {
		slog.Error("failed to create profile", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": profile.ID})
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20)

	profiles, err := h.profiles.List(limit)
	if err != nil {
		slog.Error("failed to list profiles", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": profiles})
}

func (h *ProfileHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var session model.WorkoutSession
	err := decodeJSON(r, &session)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if session.PaceValue <= 0 {
		respondError(w, http.StatusBadRequest, "pace_value must be greater than zero")
		return
	}
	if session.TargetBPM < 120 || session.TargetBPM > 220 {
		respondError(w, http.StatusBadRequest, "target_bpm must be between 120 and 220")
		return
	}
	if session.DurationSeconds < 1 {
		respondError(w, http.StatusBadRequest, "duration_seconds must be at least 1")
		return
	}
	if session.PaceUnit == "" {
		session.PaceUnit = "min_per_km"
	}
	if session.RunType == "" {
		session.RunType = "easy"
	}

	session.ID = ""
	err = h.sessions.Create(&session)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": session.ID})
}

func (h *ProfileHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)

	sessions, err := h.sessions.List(limit)
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": sessions})
}

func cadenceInRange(spm *int) bool {
	if spm == nil {
		return true
	}
	return *spm >= 120 && *spm <= 210
}

func queryLimit(r *http.Request, def int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
