package handlers

import (
	"net/http"
	"strconv"

	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

type AnalyticsHandlers struct {
	agg *analytics.Aggregator
}

func NewAnalyticsHandlers(agg *analytics.Aggregator) *AnalyticsHandlers {
	return &AnalyticsHandlers{agg: agg}
}

func (ah *AnalyticsHandlers) GetAnalytics(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	certificationType := r.URL.Query().Get("certification")
	utils.LogHTTP("Getting analytics for user %d (cert %q)", session.UserID, certificationType)

	summary, err := ah.agg.Summarize(session.UserID, certificationType)
	if err != nil {
		utils.LogError("Failed to summarize for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to fetch analytics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (ah *AnalyticsHandlers) GetTrends(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	certificationType := r.URL.Query().Get("certification")
	days := queryInt(r, "days", 7)

	trends, err := ah.agg.Trends(session.UserID, certificationType, days)
	if err != nil {
		utils.LogError("Failed to compute trends for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to fetch trends", http.StatusInternalServerError)
		return
	}

	if trends == nil {
		trends = []models.PerformanceTrend{}
	}
	writeJSON(w, http.StatusOK, trends)
}

func (ah *AnalyticsHandlers) GetActivity(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := queryInt(r, "days", 30)

	activity, err := ah.agg.ActivitySummary(session.UserID, days)
	if err != nil {
		utils.LogError("Failed to compute activity for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to fetch activity", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, activity)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}
