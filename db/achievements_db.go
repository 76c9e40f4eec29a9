package db

import (
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

// SaveAchievements persists an evaluated achievement set and returns the ones
// that were not already on record. INSERT OR IGNORE against the deterministic
// primary key makes repeated evaluation a no-op: earned_at never moves.
func (db *DB) SaveAchievements(achievements []models.Achievement) ([]models.Achievement, error) {
	if len(achievements) == 0 {
		return nil, nil
	}

	start := time.Now()

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start achievement transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
        INSERT OR IGNORE INTO achievements (id, user_id, achievement_type, threshold, title, description, points, earned_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		utils.LogError("Failed to prepare achievement statement: %v", err)
		return nil, err
	}
	defer stmt.Close()

	var unlocked []models.Achievement
	for _, a := range achievements {
		res, err := stmt.Exec(a.ID, a.UserID, a.Type, a.Threshold, a.Title, a.Description, a.Points, a.EarnedAt)
		if err != nil {
			utils.LogError("Achievement insert failed for %s: %v", a.ID, err)
			return nil, err
		}

		if affected, _ := res.RowsAffected(); affected > 0 {
			unlocked = append(unlocked, a)
		}
	}

	if err := tx.Commit(); err != nil {
		utils.LogError("Failed to commit achievements: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	if len(unlocked) > 0 {
		utils.LogDB("Unlocked %d new achievements (of %d evaluated) in %v", len(unlocked), len(achievements), duration)
	}

	return unlocked, nil
}

// GetAchievements returns a user's earned achievements, newest first
func (db *DB) GetAchievements(userID int) ([]models.Achievement, error) {
	rows, err := db.Query(`
        SELECT id, user_id, achievement_type, threshold, title, description, points, earned_at
        FROM achievements
        WHERE user_id = ?
        ORDER BY earned_at DESC, points DESC
    `, userID)
	if err != nil {
		utils.LogError("GetAchievements failed for user %d: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Threshold, &a.Title, &a.Description, &a.Points, &a.EarnedAt)
		if err != nil {
			utils.LogError("Failed to scan achievement row: %v", err)
			return nil, err
		}
		achievements = append(achievements, a)
	}

	return achievements, nil
}
