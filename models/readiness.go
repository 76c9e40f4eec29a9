package models

// CategoryPerformance is the per-category slice of a user's performance that
// feeds readiness scoring
type CategoryPerformance struct {
	Category       string  `json:"category"`
	AverageScore   float64 `json:"average_score"`
	CompletionRate float64 `json:"completion_rate"`
	Answered       int     `json:"answered"`
	Completed      int     `json:"completed"`
}

// Confidence levels for a readiness assessment
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ReadinessAssessment is a recomputed-on-demand exam preparedness estimate.
// It is surfaced to the caller, never persisted.
type ReadinessAssessment struct {
	CertificationType        string   `json:"certification_type"`
	ReadinessScore           float64  `json:"readiness_score"`
	ConfidenceLevel          string   `json:"confidence_level"`
	PredictedPassProbability float64  `json:"predicted_pass_probability"`
	EstimatedStudyTimeHours  float64  `json:"estimated_study_time_hours"`
	WeakAreas                []string `json:"weak_areas"`
	StrongAreas              []string `json:"strong_areas"`
	RecommendedActions       []string `json:"recommended_actions"`
}
