package models

// CertificationOverview pairs a certification-scoped summary with its
// readiness assessment for the dashboard
type CertificationOverview struct {
	Summary   PerformanceSummary  `json:"summary"`
	Readiness ReadinessAssessment `json:"readiness"`
}

// Dashboard is the aggregate view composed per user
type Dashboard struct {
	Overall         PerformanceSummary               `json:"overall"`
	Certifications  map[string]CertificationOverview `json:"certifications"`
	Trends          []PerformanceTrend               `json:"trends"`
	Achievements    []Achievement                    `json:"achievements"`
	TotalPoints     int                              `json:"total_points"`
	StreakDays      int                              `json:"streak_days"`
	Recommendations []string                         `json:"recommendations"`
}
