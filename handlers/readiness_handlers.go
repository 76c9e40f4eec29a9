package handlers

import (
	"net/http"

	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/readiness"
	"github.com/certforge/CertPrepApi/utils"
)

type ReadinessHandlers struct {
	agg      *analytics.Aggregator
	assessor *readiness.Assessor
}

func NewReadinessHandlers(agg *analytics.Aggregator, assessor *readiness.Assessor) *ReadinessHandlers {
	return &ReadinessHandlers{agg: agg, assessor: assessor}
}

func (rh *ReadinessHandlers) GetReadiness(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	certificationType := r.URL.Query().Get("certification")
	if certificationType == "" {
		http.Error(w, "certification query parameter is required", http.StatusBadRequest)
		return
	}

	utils.LogHTTP("Assessing readiness for user %d, cert %s", session.UserID, certificationType)

	perf, err := rh.agg.CategoryPerformance(session.UserID, certificationType)
	if err != nil {
		utils.LogError("Failed to compute category performance for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to assess readiness", http.StatusInternalServerError)
		return
	}

	assessment := rh.assessor.Assess(certificationType, perf)
	writeJSON(w, http.StatusOK, assessment)
}
