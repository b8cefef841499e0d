package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/stridelab/metronome/internal/service"
)

type ProHandler struct {
	entitlementService *service.EntitlementService
	tokenService       *service.TokenService
}

func NewProHandler(entitlementService *service.EntitlementService, tokenService *service.TokenService) *ProHandler {
	return &ProHandler{
		entitlementService: entitlementService,
		tokenService:       tokenService,
	}
}

type claimRequest struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
}

type claimResponse struct {
	Pro   bool   `json:"pro"`
	Token string `json:"token"`
}

// Claim exchanges a prior payment entitlement for a Pro token.
func (h *ProHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ent, err := h.entitlementService.Find(req.Email, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "email or user_id is required")
		case errors.Is(err, service.ErrNotFound):
			respondError(w, http.StatusNotFound, "no pro entitlement found")
		default:
			slog.Error("failed to look up entitlement", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to look up entitlement")
		}
		return
	}

	userID, email := "", ""
	if ent.UserID != nil {
		userID = *ent.UserID
	}
	if ent.Email != nil {
		email = *ent.Email
	}

	token, err := h.tokenService.Mint(userID, email)
	if err != nil {
		slog.Error("failed to mint pro token", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to mint token")
		return
	}

	respondJSON(w, http.StatusOK, claimResponse{Pro: true, Token: token})
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Pro   bool   `json:"pro"`
	Exp   int64  `json:"exp"`
	Email string `json:"email"`
}

// VerifyToken validates a Pro token passed as a query parameter or JSON body.
func (h *ProHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var req verifyTokenRequest
		err := decodeJSON(r, &req)
		if err == nil {
			token = req.Token
		}
	}
	if token == "" {
		respondError(w, http.StatusBadRequest, "token is required")
		return
	}

	info, err := h.tokenService.Verify(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	respondJSON(w, http.StatusOK, verifyTokenResponse{
		Pro:   info.Pro,
		Exp:   info.ExpiresAt.Unix(),
		Email: info.Email,
	})
}
