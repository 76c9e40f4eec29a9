package models

import "time"

// Interaction kinds accepted by the recording endpoint
const (
	KindViewed    = "viewed"
	KindAnswered  = "answered"
	KindCompleted = "completed"
)

// InteractionEvent is one logical record per (user, content, certification).
// Re-recording the same triple merges: time accumulates, score is overwritten
// with the latest value, timestamp advances.
type InteractionEvent struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	ContentID         string    `json:"content_id"`
	CertificationType string    `json:"certification_type"`
	InteractionKind   string    `json:"interaction_kind"`
	Score             *float64  `json:"score,omitempty"`
	TimeSpentSeconds  int       `json:"time_spent_seconds"`
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id,omitempty"`
}

// RecordRequest for recording an interaction
type RecordRequest struct {
	ContentID         string   `json:"content_id"`
	CertificationType string   `json:"certification_type"`
	InteractionKind   string   `json:"interaction_kind"`
	Score             *float64 `json:"score,omitempty"`
	TimeSpentSeconds  int      `json:"time_spent_seconds"`
	SessionID         string   `json:"session_id,omitempty"`
}

// RecordResult is returned after recording an interaction
type RecordResult struct {
	Interaction          *InteractionEvent `json:"interaction"`
	Merged               bool              `json:"merged"`
	AchievementsUnlocked []Achievement     `json:"achievements_unlocked"`
}

// ContentDescriptor is read-only catalog metadata for a content item.
// An interaction may reference content the catalog does not know about;
// that interaction still counts, it just loses category/difficulty attribution.
type ContentDescriptor struct {
	ContentID         string `json:"content_id"`
	CertificationType string `json:"certification_type"`
	Category          string `json:"category"`
	DifficultyLevel   string `json:"difficulty_level"`
	ContentKind       string `json:"content_kind"`
}

// PerformanceSummary aggregates a user's interactions, optionally scoped to
// one certification. Always recomputed from the event log, never stored.
type PerformanceSummary struct {
	TotalViewed    int     `json:"total_viewed"`
	TotalAnswered  int     `json:"total_answered"`
	AverageScore   float64 `json:"average_score"`
	CompletionRate float64 `json:"completion_rate"`
	TotalTimeSpent int     `json:"total_time_spent"`
}

// TrendMetrics are the per-day numbers inside a PerformanceTrend
type TrendMetrics struct {
	AvgScore         float64 `json:"avg_score"`
	TotalTime        int     `json:"total_time"`
	CompletedCount   int     `json:"completed_count"`
	InteractionCount int     `json:"interaction_count"`
}

// PerformanceTrend is one calendar-day bucket, dates ascending
type PerformanceTrend struct {
	Date                string             `json:"date"`
	Metrics             TrendMetrics       `json:"metrics"`
	CategoryBreakdown   map[string]float64 `json:"category_breakdown"`
	DifficultyBreakdown map[string]float64 `json:"difficulty_breakdown"`
}

// ActivitySummary describes recent study habits within a lookback window
type ActivitySummary struct {
	InteractionCount        int            `json:"interaction_count"`
	DailyActivity           map[string]int `json:"daily_activity"`
	StreakDays              int            `json:"streak_days"`
	WeeklyAvgTimeSeconds    float64        `json:"weekly_avg_time_seconds"`
	WeeklyAvgInteractions   float64        `json:"weekly_avg_interactions"`
	MostActiveCertification string         `json:"most_active_certification"`
	MostActiveCategory      string         `json:"most_active_category"`
}
