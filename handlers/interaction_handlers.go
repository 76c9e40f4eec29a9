package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/jobs"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

type InteractionHandlers struct {
	db   *db.DB
	deps *Deps
}

func NewInteractionHandlers(database *db.DB, deps *Deps) *InteractionHandlers {
	return &InteractionHandlers{db: database, deps: deps}
}

func (ih *InteractionHandlers) HandleInteractions(w http.ResponseWriter, r *http.Request, session *models.Session) {
	utils.LogHTTP("%s /interactions", r.Method)
	switch r.Method {
	case http.MethodPost:
		ih.recordInteraction(w, r, session)
	case http.MethodGet:
		ih.listInteractions(w, r, session)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (ih *InteractionHandlers) recordInteraction(w http.ResponseWriter, r *http.Request, session *models.Session) {
	var req models.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in interaction request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateRecordRequest(&req); err != nil {
		utils.LogHTTP("Rejected interaction from user %d: %v", session.UserID, err)
		writeError(w, err, http.StatusBadRequest)
		return
	}

	// Unknown content does not block recording; the event just loses
	// category attribution downstream.
	descriptor, err := ih.db.ResolveContent(req.ContentID)
	if err != nil {
		utils.LogError("Content lookup failed for %s: %v", req.ContentID, err)
		http.Error(w, "Failed to record interaction", http.StatusInternalServerError)
		return
	}
	if descriptor == nil {
		utils.LogHTTP("Recording interaction for unknown content %s (degraded attribution)", req.ContentID)
	}

	stored, merged, err := ih.db.RecordInteraction(models.InteractionEvent{
		UserID:            session.UserID,
		ContentID:         req.ContentID,
		CertificationType: req.CertificationType,
		InteractionKind:   req.InteractionKind,
		Score:             req.Score,
		TimeSpentSeconds:  req.TimeSpentSeconds,
		Timestamp:         time.Now(),
		SessionID:         req.SessionID,
	})
	if err != nil {
		utils.LogError("Failed to record interaction: %v", err)
		http.Error(w, "Failed to record interaction", http.StatusInternalServerError)
		return
	}

	unlocked := ih.evaluateAchievements(session)

	utils.LogHTTP("Interaction recorded: ID %d, merged: %t, unlocked: %d", stored.ID, merged, len(unlocked))
	writeJSON(w, http.StatusCreated, models.RecordResult{
		Interaction:          stored,
		Merged:               merged,
		AchievementsUnlocked: unlocked,
	})
}

// evaluateAchievements re-runs milestone detection after a write. Failures
// here degrade the response, never the recording itself.
func (ih *InteractionHandlers) evaluateAchievements(session *models.Session) []models.Achievement {
	events, err := ih.db.QueryInteractions(session.UserID, "")
	if err != nil {
		utils.LogError("Achievement evaluation skipped, query failed: %v", err)
		return nil
	}

	activity, err := ih.deps.Aggregator.ActivitySummary(session.UserID, 30)
	if err != nil {
		utils.LogError("Achievement evaluation skipped, activity failed: %v", err)
		return nil
	}

	earned := ih.deps.Engine.Evaluate(session.UserID, events, activity.StreakDays)

	unlocked, err := ih.db.SaveAchievements(earned)
	if err != nil {
		utils.LogError("Failed to save achievements: %v", err)
		return nil
	}

	if len(unlocked) > 0 && ih.deps.Jobs != nil {
		titles := make([]string, 0, len(unlocked))
		points := 0
		for _, a := range unlocked {
			titles = append(titles, a.Title)
			points += a.Points
		}

		err := ih.deps.Jobs.QueueAchievementNotification(jobs.AchievementPayload{
			UserID:   session.UserID,
			Username: session.Username,
			Email:    session.Email,
			Titles:   titles,
			Points:   points,
		})
		if err != nil {
			utils.LogError("Failed to queue achievement notification: %v", err)
		}
	}

	if unlocked == nil {
		return []models.Achievement{}
	}
	return unlocked
}

func (ih *InteractionHandlers) listInteractions(w http.ResponseWriter, r *http.Request, session *models.Session) {
	certificationType := r.URL.Query().Get("certification")

	events, err := ih.db.QueryInteractions(session.UserID, certificationType)
	if err != nil {
		utils.LogError("Failed to list interactions for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to fetch interactions", http.StatusInternalServerError)
		return
	}

	if events == nil {
		events = []models.InteractionEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
