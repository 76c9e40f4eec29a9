package handlers

import (
	"net/http"

	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

type AchievementHandlers struct {
	db *db.DB
}

func NewAchievementHandlers(database *db.DB) *AchievementHandlers {
	return &AchievementHandlers{db: database}
}

func (ah *AchievementHandlers) GetAchievements(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	achievements, err := ah.db.GetAchievements(session.UserID)
	if err != nil {
		utils.LogError("Failed to fetch achievements for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to fetch achievements", http.StatusInternalServerError)
		return
	}

	list := models.AchievementList{Achievements: achievements}
	if list.Achievements == nil {
		list.Achievements = []models.Achievement{}
	}
	for _, a := range achievements {
		list.TotalPoints += a.Points
	}

	writeJSON(w, http.StatusOK, list)
}
