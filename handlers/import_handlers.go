package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

type ImportHandlers struct {
	db *db.DB
}

func NewImportHandlers(database *db.DB) *ImportHandlers {
	return &ImportHandlers{db: database}
}

// HandleImport seeds the content catalog and question corpus in one batch
func (ih *ImportHandlers) HandleImport(w http.ResponseWriter, r *http.Request, session *models.Session) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in import request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	utils.LogImport("Import started by user %d: %d content items, %d questions",
		session.UserID, len(req.Content), len(req.Questions))
	start := time.Now()

	result := &models.ImportResult{
		TotalItems: len(req.Content) + len(req.Questions),
		Errors:     make([]string, 0),
	}

	for _, cd := range req.Content {
		if cd.ContentID == "" || cd.CertificationType == "" || cd.Category == "" {
			result.Errors = append(result.Errors, "content item missing content_id, certification_type or category")
			result.SkippedItems++
			continue
		}

		if err := ih.db.UpsertContent(cd); err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.SkippedItems++
			continue
		}
		result.ImportedItems++
	}

	if len(req.Questions) > 0 {
		if err := ih.db.ImportQuestions(req.Questions, result); err != nil {
			utils.LogError("Question import failed: %v", err)
			http.Error(w, "Import failed", http.StatusInternalServerError)
			return
		}
	}

	result.TimeTaken = time.Since(start).String()
	utils.LogImport("Import completed: %d imported, %d skipped in %s",
		result.ImportedItems, result.SkippedItems, result.TimeTaken)

	writeJSON(w, http.StatusOK, result)
}
