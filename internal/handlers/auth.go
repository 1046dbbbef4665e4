package handlers

import (
	"log"
	"net/http"
	"strings"

	"payout_vault/internal/auth"
	apperrors "payout_vault/internal/errors"
	"payout_vault/internal/middleware"
	"payout_vault/internal/repository"
	"payout_vault/internal/services"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	operatorRepo   *repository.OperatorRepository
	sessionManager *auth.SessionManager
	audit          *services.AuditService
	sessionMaxAge  int
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	operatorRepo *repository.OperatorRepository,
	sessionManager *auth.SessionManager,
	audit *services.AuditService,
	sessionMaxAge int,
) *AuthHandler {
	return &AuthHandler{
		operatorRepo:   operatorRepo,
		sessionManager: sessionManager,
		audit:          audit,
		sessionMaxAge:  sessionMaxAge,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an operator and issues a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondError(w, apperrors.Validation("username and password are required"))
		return
	}

	operator, err := h.operatorRepo.GetByUsername(username)
	if err != nil {
		log.Printf("Login error finding operator: %v", err)
		respondError(w, apperrors.Internal("login failed", err))
		return
	}

	if operator == nil || !auth.CheckPassword(req.Password, operator.PasswordHash) {
		respondError(w, apperrors.Unauthorized("invalid username or password"))
		return
	}

	session, err := h.sessionManager.Create(operator.ID)
	if err != nil {
		log.Printf("Login error creating session: %v", err)
		respondError(w, apperrors.Internal("login failed", err))
		return
	}

	middleware.SetSessionCookie(w, session.ID, h.sessionMaxAge)
	h.audit.LogAction(operator.ID, services.AuditOperatorLogin, "operator", operator.ID, nil, clientIP(r))

	respondJSON(w, http.StatusOK, map[string]any{
		"username": operator.Username,
		"is_admin": operator.IsAdmin,
	})
}

// Logout deletes the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessionManager.Delete(cookie.Value); err != nil {
			log.Printf("Logout error deleting session: %v", err)
		}
	}
	if operator := middleware.GetOperator(r); operator != nil {
		h.audit.LogAction(operator.ID, services.AuditOperatorLogout, "operator", operator.ID, nil, clientIP(r))
	}

	middleware.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated operator.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	operator := middleware.GetOperator(r)
	if operator == nil {
		respondError(w, apperrors.Unauthorized(""))
		return
	}
	respondJSON(w, http.StatusOK, operator)
}
