// Package middleware provides HTTP middleware for the payout vault.
package middleware

import (
	"context"
	"net/http"

	"payout_vault/internal/auth"
	"payout_vault/internal/models"
	"payout_vault/internal/repository"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// OperatorContextKey is the context key for the authenticated operator.
	OperatorContextKey ContextKey = "operator"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session_id"
)

// AuthMiddleware handles authentication for protected routes.
type AuthMiddleware struct {
	sessionManager *auth.SessionManager
	operatorRepo   *repository.OperatorRepository
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(sm *auth.SessionManager, operatorRepo *repository.OperatorRepository) *AuthMiddleware {
	return &AuthMiddleware{
		sessionManager: sm,
		operatorRepo:   operatorRepo,
	}
}

// LoadOperator is middleware that loads the current operator from the session cookie.
// It does not require authentication - just loads the operator if present.
func (m *AuthMiddleware) LoadOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		operatorID, err := m.sessionManager.Validate(cookie.Value)
		if err != nil {
			// Invalid or expired session, clear the cookie
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		operator, err := m.operatorRepo.GetByID(operatorID)
		if err != nil || operator == nil {
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), OperatorContextKey, operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is middleware that requires an authenticated operator.
// Returns 401 for unauthenticated requests.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := GetOperator(r)
		if operator == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin is middleware that requires admin privileges.
// Returns 403 Forbidden if the operator is not an admin.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := GetOperator(r)
		if operator == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !operator.IsAdmin {
			http.Error(w, "Forbidden - Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetOperator retrieves the authenticated operator from the request context.
// Returns nil if no operator is authenticated.
func GetOperator(r *http.Request) *models.Operator {
	operator, ok := r.Context().Value(OperatorContextKey).(*models.Operator)
	if !ok {
		return nil
	}
	return operator
}

// SetSessionCookie sets the session cookie.
func SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie clears the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// ClearSessionCookie is the exported version for use in handlers.
func ClearSessionCookie(w http.ResponseWriter) {
	clearSessionCookie(w)
}
