package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/stridelab/metronome/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type requestCodeRequest struct {
	Email string `json:"email"`
}

type requestCodeResponse struct {
	OK        bool   `json:"ok"`
	Emailed   bool   `json:"emailed"`
	DebugCode string `json:"debug_code,omitempty"`
}

func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.RequestCode(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "a valid email address is required")
			return
		}
		slog.Error("failed to issue login code", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to issue login code")
		return
	}

	respondJSON(w, http.StatusOK, requestCodeResponse{
		OK:        true,
		Emailed:   result.Emailed,
		DebugCode: result.DebugCode,
	})
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verifyCodeResponse struct {
	UserID   string  `json:"user_id"`
	ProToken *string `json:"pro_token"`
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.VerifyCode(req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "email and code are required")
		case errors.Is(err, service.ErrCodeExpired):
			respondError(w, http.StatusUnauthorized, "code has expired")
		case errors.Is(err, service.ErrInvalidCredential):
			respondError(w, http.StatusUnauthorized, "invalid email or code")
		default:
			slog.Error("failed to verify login code", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to verify code")
		}
		return
	}

	respondJSON(w, http.StatusOK, verifyCodeResponse{
		UserID:   result.UserID,
		ProToken: result.ProToken,
	})
}
