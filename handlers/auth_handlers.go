package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/certforge/CertPrepApi/auth"
	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

type AuthHandlers struct {
	db           *db.DB
	sessionStore *auth.SessionStore
}

func NewAuthHandlers(database *db.DB, sessionStore *auth.SessionStore) *AuthHandlers {
	return &AuthHandlers{
		db:           database,
		sessionStore: sessionStore,
	}
}

func (ah *AuthHandlers) HandleAuth(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("%s %s", r.Method, r.URL.Path)

	action := strings.TrimPrefix(r.URL.Path, "/auth/")
	switch action {
	case "register":
		ah.register(w, r)
	case "login":
		ah.login(w, r)
	case "logout":
		ah.logout(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (ah *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in register request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateUserRequest(&req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	user, err := ah.db.CreateUser(req)
	if err != nil {
		utils.LogError("Failed to create user: %v", err)
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	session := ah.sessionStore.CreateSession(user)
	utils.LogHTTP("User %s registered with ID %d", user.Username, user.ID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"session": session,
	})
}

func (ah *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in login request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := ah.db.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		utils.LogHTTP("Login failed for %s", req.Username)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	session := ah.sessionStore.CreateSession(user)
	utils.LogHTTP("User %s logged in", user.Username)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"session": session,
	})
}

func (ah *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := extractSessionFromRequest(r)
	if sessionID != "" {
		ah.sessionStore.DeleteSession(sessionID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
