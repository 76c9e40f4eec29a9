package models

import "time"

// Achievement types, one per threshold ladder
const (
	AchievementStreak     = "streak"
	AchievementScore      = "score"
	AchievementCompletion = "completion"
	AchievementTime       = "time"
)

// Achievement is a milestone record. Its ID is derived deterministically from
// (user_id, achievement_type, threshold), so re-evaluating the same state
// yields the same ids and persistence can de-duplicate on primary key.
type Achievement struct {
	ID          string    `json:"id"`
	UserID      int       `json:"user_id"`
	Type        string    `json:"achievement_type"`
	Threshold   int       `json:"threshold"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	EarnedAt    time.Time `json:"earned_at"`
}

// AchievementList is the response shape for the achievements endpoint
type AchievementList struct {
	Achievements []Achievement `json:"achievements"`
	TotalPoints  int           `json:"total_points"`
}
