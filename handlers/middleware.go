package handlers

import (
	"net/http"
	"strings"

	"github.com/certforge/CertPrepApi/auth"
	"github.com/certforge/CertPrepApi/models"
)

// extractSessionFromRequest gets session ID from Authorization header or cookie
func extractSessionFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")

	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return cookie.Value
}

func getSessionFromRequest(r *http.Request, sessionStore *auth.SessionStore) *models.Session {
	sessionID := extractSessionFromRequest(r)
	if sessionID == "" {
		return nil
	}

	session, exists := sessionStore.GetSession(sessionID)
	if !exists {
		return nil
	}
	return session
}

// authMiddleware rejects requests without a valid session
func authMiddleware(next func(http.ResponseWriter, *http.Request, *models.Session), sessionStore *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := getSessionFromRequest(r, sessionStore)
		if session == nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		next(w, r, session)
	}
}
