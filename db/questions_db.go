package db

import (
	"encoding/json"
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

// SearchQuestions pulls a candidate pool from the question corpus. Result
// order is randomized; callers must not rely on it.
func (db *DB) SearchQuestions(certificationType, category string, count int) ([]models.QuizQuestion, error) {
	utils.LogDB("Searching questions: cert %s, category %q, count %d", certificationType, category, count)
	start := time.Now()

	query := `
        SELECT id, certification_type, category, difficulty_level, question, options, correct_answer
        FROM questions
        WHERE certification_type = ?
    `
	args := []interface{}{certificationType}

	if category != "" {
		query += " AND category = ?"
		args = append(args, utils.NormalizeCategory(category))
	}

	query += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, count)

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.LogError("SearchQuestions failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		var q models.QuizQuestion
		var optionsJSON string

		err := rows.Scan(&q.ID, &q.CertificationType, &q.Category, &q.DifficultyLevel,
			&q.Question, &optionsJSON, &q.CorrectAnswer)
		if err != nil {
			utils.LogError("Failed to scan question row: %v", err)
			return nil, err
		}

		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			utils.LogError("Failed to parse options for question %s: %v", q.ID, err)
			continue
		}

		questions = append(questions, q)
	}

	duration := time.Since(start)
	utils.LogDB("SearchQuestions completed: %d questions in %v", len(questions), duration)
	return questions, nil
}

// ImportQuestions seeds the corpus, validating each question and skipping
// duplicates and malformed entries without aborting the batch.
func (db *DB) ImportQuestions(questions []models.QuizQuestion, result *models.ImportResult) error {
	utils.LogImport("Importing %d questions", len(questions))

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
        INSERT OR IGNORE INTO questions (id, certification_type, category, difficulty_level, question, options, correct_answer)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		utils.LogError("Failed to prepare statement: %v", err)
		return err
	}
	defer stmt.Close()

	for i, q := range questions {
		if err := utils.ValidateQuizQuestion(&q); err != nil {
			utils.LogImport("SKIP question %d/%d: %v", i+1, len(questions), err)
			result.Errors = append(result.Errors, err.Error())
			result.SkippedItems++
			continue
		}

		difficulty := q.DifficultyLevel
		if difficulty == "" {
			difficulty = models.DifficultyMedium
		}

		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.SkippedItems++
			continue
		}

		res, err := stmt.Exec(q.ID, q.CertificationType, utils.NormalizeCategory(q.Category),
			difficulty, q.Question, string(optionsJSON), q.CorrectAnswer)
		if err != nil {
			utils.LogError("Question insert failed: %v", err)
			result.Errors = append(result.Errors, err.Error())
			result.SkippedItems++
			continue
		}

		if affected, _ := res.RowsAffected(); affected == 0 {
			utils.LogImport("SKIP question %d/%d: duplicate id %s", i+1, len(questions), q.ID)
			result.SkippedItems++
			continue
		}

		result.ImportedItems++
	}

	if err := tx.Commit(); err != nil {
		utils.LogError("Failed to commit question import: %v", err)
		return err
	}

	utils.LogImport("Question import done: %d imported, %d skipped", result.ImportedItems, result.SkippedItems)
	return nil
}
