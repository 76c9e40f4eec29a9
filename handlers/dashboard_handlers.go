package handlers

import (
	"net/http"

	"github.com/certforge/CertPrepApi/dashboard"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

type DashboardHandlers struct {
	composer *dashboard.Composer
}

func NewDashboardHandlers(composer *dashboard.Composer) *DashboardHandlers {
	return &DashboardHandlers{composer: composer}
}

func (dh *DashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	utils.LogHTTP("Composing dashboard for user %d", session.UserID)

	dash, err := dh.composer.Compose(session.UserID)
	if err != nil {
		utils.LogError("Failed to compose dashboard for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to fetch dashboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dash)
}
