package db

import (
	"database/sql"
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

// RecordInteraction is a conditional insert keyed by
// (user_id, content_id, certification_type). When the key already exists the
// write degrades to a merge: time accumulates, score is overwritten with the
// latest value if present, the timestamp advances. A 'completed' kind is
// sticky so a later view cannot un-complete a content item.
func (db *DB) RecordInteraction(ev models.InteractionEvent) (*models.InteractionEvent, bool, error) {
	utils.LogDB("Recording interaction: user %d, content %s, cert %s, kind %s",
		ev.UserID, ev.ContentID, ev.CertificationType, ev.InteractionKind)
	start := time.Now()

	var existingID int
	err := db.QueryRow(`
        SELECT id FROM interactions
        WHERE user_id = ? AND content_id = ? AND certification_type = ?
    `, ev.UserID, ev.ContentID, ev.CertificationType).Scan(&existingID)

	merged := err == nil
	if err != nil && err != sql.ErrNoRows {
		utils.LogError("RecordInteraction existence check failed: %v", err)
		return nil, false, err
	}

	_, err = db.Exec(`
        INSERT INTO interactions (user_id, content_id, certification_type, interaction_kind,
                                  score, time_spent_seconds, timestamp, session_id)
        VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
        ON CONFLICT(user_id, content_id, certification_type) DO UPDATE SET
            interaction_kind = CASE
                WHEN interactions.interaction_kind = 'completed' THEN 'completed'
                ELSE excluded.interaction_kind
            END,
            score = COALESCE(excluded.score, interactions.score),
            time_spent_seconds = interactions.time_spent_seconds + excluded.time_spent_seconds,
            timestamp = CURRENT_TIMESTAMP,
            session_id = excluded.session_id
    `, ev.UserID, ev.ContentID, ev.CertificationType, ev.InteractionKind,
		ev.Score, ev.TimeSpentSeconds, ev.SessionID)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("RecordInteraction failed: %v (%v)", err, duration)
		return nil, false, err
	}

	stored, err := db.getInteractionByKey(ev.UserID, ev.ContentID, ev.CertificationType)
	if err != nil {
		return nil, false, err
	}

	duration := time.Since(start)
	utils.LogDB("Interaction recorded with ID %d (merged: %t) in %v", stored.ID, merged, duration)

	return stored, merged, nil
}

func (db *DB) getInteractionByKey(userID int, contentID, certificationType string) (*models.InteractionEvent, error) {
	var ev models.InteractionEvent
	var score sql.NullFloat64
	var sessionID sql.NullString

	err := db.QueryRow(`
        SELECT id, user_id, content_id, certification_type, interaction_kind,
               score, time_spent_seconds, timestamp, session_id
        FROM interactions
        WHERE user_id = ? AND content_id = ? AND certification_type = ?
    `, userID, contentID, certificationType).Scan(&ev.ID, &ev.UserID, &ev.ContentID,
		&ev.CertificationType, &ev.InteractionKind, &score, &ev.TimeSpentSeconds,
		&ev.Timestamp, &sessionID)

	if err != nil {
		utils.LogError("getInteractionByKey(%d, %s, %s) failed: %v", userID, contentID, certificationType, err)
		return nil, err
	}

	if score.Valid {
		ev.Score = &score.Float64
	}
	if sessionID.Valid {
		ev.SessionID = sessionID.String
	}

	return &ev, nil
}

// QueryInteractions returns a user's interaction log, optionally scoped to
// one certification. Empty certificationType means all certifications.
func (db *DB) QueryInteractions(userID int, certificationType string) ([]models.InteractionEvent, error) {
	utils.LogDB("Querying interactions for user %d (cert: %q)", userID, certificationType)
	start := time.Now()

	query := `
        SELECT id, user_id, content_id, certification_type, interaction_kind,
               score, time_spent_seconds, timestamp, session_id
        FROM interactions
        WHERE user_id = ?
    `
	args := []interface{}{userID}

	if certificationType != "" {
		query += " AND certification_type = ?"
		args = append(args, certificationType)
	}

	query += " ORDER BY timestamp ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.LogError("QueryInteractions failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.InteractionEvent
	for rows.Next() {
		var ev models.InteractionEvent
		var score sql.NullFloat64
		var sessionID sql.NullString

		err := rows.Scan(&ev.ID, &ev.UserID, &ev.ContentID, &ev.CertificationType,
			&ev.InteractionKind, &score, &ev.TimeSpentSeconds, &ev.Timestamp, &sessionID)
		if err != nil {
			utils.LogError("Failed to scan interaction row: %v", err)
			return nil, err
		}

		if score.Valid {
			ev.Score = &score.Float64
		}
		if sessionID.Valid {
			ev.SessionID = sessionID.String
		}

		events = append(events, ev)
	}

	duration := time.Since(start)
	utils.LogDB("QueryInteractions completed: %d events in %v", len(events), duration)
	return events, nil
}
