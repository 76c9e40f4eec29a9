package db

import (
	"database/sql"
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

// ResolveContent looks up catalog metadata for one content item. Absence is
// not an error: recording proceeds without attribution, so a missing row
// returns (nil, nil).
func (db *DB) ResolveContent(contentID string) (*models.ContentDescriptor, error) {
	var cd models.ContentDescriptor

	err := db.QueryRow(`
        SELECT content_id, certification_type, category, difficulty_level, content_kind
        FROM content WHERE content_id = ?
    `, contentID).Scan(&cd.ContentID, &cd.CertificationType, &cd.Category,
		&cd.DifficultyLevel, &cd.ContentKind)

	if err == sql.ErrNoRows {
		utils.LogDB("Content %s not in catalog", contentID)
		return nil, nil
	}
	if err != nil {
		utils.LogError("ResolveContent(%s) failed: %v", contentID, err)
		return nil, err
	}

	return &cd, nil
}

// ListContent returns catalog entries, optionally scoped to one
// certification. Empty certificationType means the whole catalog.
func (db *DB) ListContent(certificationType string) ([]models.ContentDescriptor, error) {
	start := time.Now()

	query := "SELECT content_id, certification_type, category, difficulty_level, content_kind FROM content"
	var args []interface{}

	if certificationType != "" {
		query += " WHERE certification_type = ?"
		args = append(args, certificationType)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.LogError("ListContent failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var descriptors []models.ContentDescriptor
	for rows.Next() {
		var cd models.ContentDescriptor
		if err := rows.Scan(&cd.ContentID, &cd.CertificationType, &cd.Category,
			&cd.DifficultyLevel, &cd.ContentKind); err != nil {
			utils.LogError("Failed to scan content row: %v", err)
			return nil, err
		}
		descriptors = append(descriptors, cd)
	}

	duration := time.Since(start)
	utils.LogDB("ListContent(%q) completed: %d items in %v", certificationType, len(descriptors), duration)
	return descriptors, nil
}

// UpsertContent inserts or replaces one catalog entry. Category is
// normalized here so downstream components never see stray casing.
func (db *DB) UpsertContent(cd models.ContentDescriptor) error {
	_, err := db.Exec(`
        INSERT INTO content (content_id, certification_type, category, difficulty_level, content_kind)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(content_id) DO UPDATE SET
            certification_type = excluded.certification_type,
            category = excluded.category,
            difficulty_level = excluded.difficulty_level,
            content_kind = excluded.content_kind
    `, cd.ContentID, cd.CertificationType, utils.NormalizeCategory(cd.Category),
		cd.DifficultyLevel, cd.ContentKind)

	if err != nil {
		utils.LogError("UpsertContent(%s) failed: %v", cd.ContentID, err)
	}
	return err
}
