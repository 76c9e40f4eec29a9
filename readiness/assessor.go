package readiness

import (
	"fmt"
	"sort"

	"github.com/certforge/CertPrepApi/models"
)

// Weights and thresholds for combined category scoring
const (
	scoreWeight      = 0.7
	completionWeight = 0.3
	weakThreshold    = 60.0
	strongThreshold  = 80.0

	defaultBaseHours = 80.0
	minStudyFraction = 0.2
)

// Certification tiers drive base study hours and recommendation templates
const (
	TierFoundational = "foundational"
	TierAssociate    = "associate"
	TierProfessional = "professional"
	TierSpecialty    = "specialty"
)

type certificationProfile struct {
	tier      string
	baseHours float64
}

// Assessor produces readiness assessments from category performance. The
// base-hour table and templates live on the struct so the component is a
// pure function of its inputs and its construction-time configuration.
type Assessor struct {
	profiles map[string]certificationProfile
}

func NewAssessor() *Assessor {
	return &Assessor{
		profiles: map[string]certificationProfile{
			"cloud-practitioner":               {TierFoundational, 30},
			"ai-practitioner":                  {TierFoundational, 30},
			"solutions-architect-associate":    {TierAssociate, 90},
			"developer-associate":              {TierAssociate, 90},
			"sysops-administrator-associate":   {TierAssociate, 115},
			"data-engineer-associate":          {TierAssociate, 100},
			"solutions-architect-professional": {TierProfessional, 160},
			"devops-engineer-professional":     {TierProfessional, 160},
			"security-specialty":               {TierSpecialty, 140},
			"advanced-networking-specialty":    {TierSpecialty, 160},
			"machine-learning-specialty":       {TierSpecialty, 160},
		},
	}
}

func (a *Assessor) profile(certificationType string) certificationProfile {
	if p, ok := a.profiles[certificationType]; ok {
		return p
	}
	return certificationProfile{TierAssociate, defaultBaseHours}
}

// CombinedScore blends average score and completion rate for one category
func CombinedScore(cp models.CategoryPerformance) float64 {
	return cp.AverageScore*scoreWeight + cp.CompletionRate*completionWeight
}

// Assess computes a certification readiness assessment from per-category
// performance. An empty perf map produces the bootstrap assessment for a
// user who has not started yet; it is well-defined output, not an error.
func (a *Assessor) Assess(certificationType string, perf map[string]models.CategoryPerformance) *models.ReadinessAssessment {
	profile := a.profile(certificationType)

	if len(perf) == 0 {
		return a.bootstrap(certificationType, profile)
	}

	assessment := &models.ReadinessAssessment{
		CertificationType: certificationType,
		WeakAreas:         []string{},
		StrongAreas:       []string{},
	}

	categories := make([]string, 0, len(perf))
	for category := range perf {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var combinedSum float64
	weakestFirst := make([]string, 0, len(categories))

	for _, category := range categories {
		combined := CombinedScore(perf[category])
		combinedSum += combined

		switch {
		case combined < weakThreshold:
			assessment.WeakAreas = append(assessment.WeakAreas, category)
		case combined > strongThreshold:
			assessment.StrongAreas = append(assessment.StrongAreas, category)
		}
	}

	// Weakest categories first for the call-outs
	weakestFirst = append(weakestFirst, assessment.WeakAreas...)
	sort.Slice(weakestFirst, func(i, j int) bool {
		return CombinedScore(perf[weakestFirst[i]]) < CombinedScore(perf[weakestFirst[j]])
	})

	assessment.ReadinessScore = combinedSum / float64(len(perf))

	switch {
	case assessment.ReadinessScore >= 80:
		assessment.ConfidenceLevel = models.ConfidenceHigh
		assessment.PredictedPassProbability = min(95, assessment.ReadinessScore+10)
	case assessment.ReadinessScore >= 60:
		assessment.ConfidenceLevel = models.ConfidenceMedium
		assessment.PredictedPassProbability = assessment.ReadinessScore + 5
	default:
		assessment.ConfidenceLevel = models.ConfidenceLow
		assessment.PredictedPassProbability = max(10, assessment.ReadinessScore-10)
	}

	remaining := (100 - assessment.ReadinessScore) / 100
	assessment.EstimatedStudyTimeHours = profile.baseHours * max(minStudyFraction, remaining)

	assessment.RecommendedActions = a.recommendActions(assessment.ReadinessScore, profile, weakestFirst)

	return assessment
}

func (a *Assessor) bootstrap(certificationType string, profile certificationProfile) *models.ReadinessAssessment {
	return &models.ReadinessAssessment{
		CertificationType:        certificationType,
		ReadinessScore:           0,
		ConfidenceLevel:          models.ConfidenceLow,
		PredictedPassProbability: 10,
		EstimatedStudyTimeHours:  profile.baseHours,
		WeakAreas:                []string{"All areas need attention"},
		StrongAreas:              []string{},
		RecommendedActions: []string{
			"Start with the fundamentals and work through each topic area in order",
			"Take a practice quiz to establish a baseline for each category",
			fmt.Sprintf("Plan for roughly %.0f hours of study time", profile.baseHours),
		},
	}
}

func (a *Assessor) recommendActions(readiness float64, profile certificationProfile, weakestFirst []string) []string {
	var actions []string

	switch {
	case readiness < 40:
		actions = append(actions, "Focus on building core knowledge before attempting practice exams")
	case readiness < 70:
		actions = append(actions, "Alternate topic review with practice quizzes to close the remaining gaps")
	default:
		actions = append(actions, "Schedule your exam and keep sharp with timed practice sessions")
	}

	for i, category := range weakestFirst {
		if i >= 2 {
			break
		}
		actions = append(actions, fmt.Sprintf("Strengthen your weakest area: %s", category))
	}

	switch profile.tier {
	case TierFoundational:
		actions = append(actions, "Review the exam guide; foundational exams reward breadth over depth")
	case TierAssociate:
		actions = append(actions, "Work through hands-on labs; associate exams test applied scenarios")
	case TierProfessional:
		actions = append(actions, "Drill multi-service architecture scenarios; professional exams assume deep integration knowledge")
	case TierSpecialty:
		actions = append(actions, "Go deep on the specialty domain whitepapers and service limits")
	}

	return actions
}
