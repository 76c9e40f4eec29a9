package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/certforge/CertPrepApi/achievements"
	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/auth"
	"github.com/certforge/CertPrepApi/dashboard"
	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/jobs"
	"github.com/certforge/CertPrepApi/quiz"
	"github.com/certforge/CertPrepApi/readiness"
	"github.com/certforge/CertPrepApi/utils"
)

// Deps bundles the engine components the handlers fan out to
type Deps struct {
	Aggregator *analytics.Aggregator
	Assessor   *readiness.Assessor
	Engine     *achievements.Engine
	Selector   *quiz.Selector
	Composer   *dashboard.Composer
	Jobs       *jobs.JobManager
}

// API wrapper to hold all handlers
type API struct {
	authHandlers        *AuthHandlers
	interactionHandlers *InteractionHandlers
	analyticsHandlers   *AnalyticsHandlers
	readinessHandlers   *ReadinessHandlers
	achievementHandlers *AchievementHandlers
	quizHandlers        *QuizHandlers
	dashboardHandlers   *DashboardHandlers
	importHandlers      *ImportHandlers
}

func NewRouter(database *db.DB, sessionStore *auth.SessionStore, deps *Deps) http.Handler {
	api := &API{
		authHandlers:        NewAuthHandlers(database, sessionStore),
		interactionHandlers: NewInteractionHandlers(database, deps),
		analyticsHandlers:   NewAnalyticsHandlers(deps.Aggregator),
		readinessHandlers:   NewReadinessHandlers(deps.Aggregator, deps.Assessor),
		achievementHandlers: NewAchievementHandlers(database),
		quizHandlers:        NewQuizHandlers(database, deps),
		dashboardHandlers:   NewDashboardHandlers(deps.Composer),
		importHandlers:      NewImportHandlers(database),
	}

	mux := http.NewServeMux()

	// Health check (no auth required)
	mux.HandleFunc("/health", healthCheck)

	// Auth endpoints (handle their own auth as needed)
	mux.HandleFunc("/auth/", api.authHandlers.HandleAuth)

	// Everything else requires a session
	mux.HandleFunc("/interactions", authMiddleware(api.interactionHandlers.HandleInteractions, sessionStore))
	mux.HandleFunc("/analytics", authMiddleware(api.analyticsHandlers.GetAnalytics, sessionStore))
	mux.HandleFunc("/analytics/trends", authMiddleware(api.analyticsHandlers.GetTrends, sessionStore))
	mux.HandleFunc("/analytics/activity", authMiddleware(api.analyticsHandlers.GetActivity, sessionStore))
	mux.HandleFunc("/readiness", authMiddleware(api.readinessHandlers.GetReadiness, sessionStore))
	mux.HandleFunc("/achievements", authMiddleware(api.achievementHandlers.GetAchievements, sessionStore))
	mux.HandleFunc("/quiz", authMiddleware(api.quizHandlers.GenerateQuiz, sessionStore))
	mux.HandleFunc("/dashboard", authMiddleware(api.dashboardHandlers.GetDashboard, sessionStore))
	mux.HandleFunc("/import", authMiddleware(api.importHandlers.HandleImport, sessionStore))

	return mux
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}

// writeError maps the validation sentinel to 400 and everything else to the
// given fallback status
func writeError(w http.ResponseWriter, err error, fallback int) {
	status := fallback
	if errors.Is(err, utils.ErrValidation) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
