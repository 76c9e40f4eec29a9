package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

const (
	defaultQuizCount = 10
	maxQuizCount     = 50

	// Questions answered within this window count as "recent" for
	// anti-repetition
	recentAnswerWindow = 7 * 24 * time.Hour

	// The candidate pool is oversampled so the selector has room to balance
	poolMultiplier = 3
)

type QuizHandlers struct {
	db   *db.DB
	deps *Deps
}

func NewQuizHandlers(database *db.DB, deps *Deps) *QuizHandlers {
	return &QuizHandlers{db: database, deps: deps}
}

func (qh *QuizHandlers) GenerateQuiz(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in quiz request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.CertificationType == "" {
		http.Error(w, "certification_type is required", http.StatusBadRequest)
		return
	}

	count := req.Count
	if count <= 0 {
		count = defaultQuizCount
	}
	if count > maxQuizCount {
		count = maxQuizCount
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMixed
	}

	utils.LogHTTP("Generating quiz for user %d: cert %s, count %d, difficulty %s",
		session.UserID, req.CertificationType, count, difficulty)

	perf, err := qh.deps.Aggregator.CategoryPerformance(session.UserID, req.CertificationType)
	if err != nil {
		utils.LogError("Failed to compute performance for quiz: %v", err)
		http.Error(w, "Failed to generate quiz", http.StatusInternalServerError)
		return
	}
	assessment := qh.deps.Assessor.Assess(req.CertificationType, perf)

	pool, err := qh.db.SearchQuestions(req.CertificationType, "", count*poolMultiplier)
	if err != nil {
		utils.LogError("Failed to search question pool: %v", err)
		http.Error(w, "Failed to generate quiz", http.StatusInternalServerError)
		return
	}

	recent, err := qh.recentlyAnswered(session.UserID, req.CertificationType)
	if err != nil {
		utils.LogError("Failed to load recent answers: %v", err)
		http.Error(w, "Failed to generate quiz", http.StatusInternalServerError)
		return
	}

	weak := assessment.WeakAreas
	if assessment.ReadinessScore == 0 {
		// Bootstrap assessments carry a placeholder, not real categories
		weak = nil
	}

	result := qh.deps.Selector.Select(pool, weak, assessment.StrongAreas, recent, count, difficulty)

	if result.Shortfall {
		utils.LogHTTP("Quiz for user %d under-filled: %d of %d questions",
			session.UserID, len(result.Questions), count)
	}

	writeJSON(w, http.StatusOK, result)
}

func (qh *QuizHandlers) recentlyAnswered(userID int, certificationType string) (map[string]bool, error) {
	events, err := qh.db.QueryInteractions(userID, certificationType)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-recentAnswerWindow)
	recent := make(map[string]bool)

	for i := range events {
		ev := &events[i]
		if ev.Score != nil && ev.Timestamp.After(cutoff) {
			recent[ev.ContentID] = true
		}
	}

	return recent, nil
}
