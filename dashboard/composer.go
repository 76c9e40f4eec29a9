package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/readiness"
	"github.com/certforge/CertPrepApi/utils"
)

// Store is what the composer needs beyond the aggregator: the raw event log
// to discover a user's certifications, and earned achievements.
type Store interface {
	QueryInteractions(userID int, certificationType string) ([]models.InteractionEvent, error)
	GetAchievements(userID int) ([]models.Achievement, error)
}

// Composer fans out to the aggregator and assessor per certification and
// assembles the one aggregate view the dashboard endpoint serves.
type Composer struct {
	store    Store
	agg      *analytics.Aggregator
	assessor *readiness.Assessor
}

func NewComposer(store Store, agg *analytics.Aggregator, assessor *readiness.Assessor) *Composer {
	return &Composer{store: store, agg: agg, assessor: assessor}
}

func (c *Composer) Compose(userID int) (*models.Dashboard, error) {
	start := time.Now()

	overall, err := c.agg.Summarize(userID, "")
	if err != nil {
		return nil, err
	}

	events, err := c.store.QueryInteractions(userID, "")
	if err != nil {
		return nil, err
	}

	certifications := make(map[string]bool)
	for i := range events {
		certifications[events[i].CertificationType] = true
	}

	dash := &models.Dashboard{
		Overall:        *overall,
		Certifications: make(map[string]models.CertificationOverview, len(certifications)),
	}

	for cert := range certifications {
		summary, err := c.agg.Summarize(userID, cert)
		if err != nil {
			return nil, err
		}

		perf, err := c.agg.CategoryPerformance(userID, cert)
		if err != nil {
			return nil, err
		}

		dash.Certifications[cert] = models.CertificationOverview{
			Summary:   *summary,
			Readiness: *c.assessor.Assess(cert, perf),
		}
	}

	trends, err := c.agg.Trends(userID, "", 7)
	if err != nil {
		return nil, err
	}
	dash.Trends = trends

	activity, err := c.agg.ActivitySummary(userID, 30)
	if err != nil {
		return nil, err
	}
	dash.StreakDays = activity.StreakDays

	achievements, err := c.store.GetAchievements(userID)
	if err != nil {
		return nil, err
	}
	dash.Achievements = achievements
	for _, a := range achievements {
		dash.TotalPoints += a.Points
	}

	dash.Recommendations = c.recommend(dash, activity)

	utils.LogDebug("Dashboard composed for user %d: %d certifications in %v",
		userID, len(dash.Certifications), time.Since(start))
	return dash, nil
}

// recommend assembles the free-text guidance shown at the top of the
// dashboard. Advisory only; nothing parses these strings.
func (c *Composer) recommend(dash *models.Dashboard, activity *models.ActivitySummary) []string {
	var recommendations []string

	switch {
	case activity.StreakDays == 0 && dash.Overall.TotalViewed > 0:
		recommendations = append(recommendations, "Your study streak has lapsed; even a short session today restarts it")
	case activity.StreakDays >= 3:
		recommendations = append(recommendations,
			fmt.Sprintf("You are on a %d-day streak, keep it going", activity.StreakDays))
	}

	if dash.Overall.TotalViewed == 0 {
		recommendations = append(recommendations, "Pick a certification and record your first study session to get personalized guidance")
		return recommendations
	}

	// Lowest-readiness certification gets the spotlight
	certs := make([]string, 0, len(dash.Certifications))
	for cert := range dash.Certifications {
		certs = append(certs, cert)
	}
	sort.Slice(certs, func(i, j int) bool {
		ri := dash.Certifications[certs[i]].Readiness.ReadinessScore
		rj := dash.Certifications[certs[j]].Readiness.ReadinessScore
		if ri == rj {
			return certs[i] < certs[j]
		}
		return ri < rj
	})

	if len(certs) > 0 {
		weakest := certs[0]
		overview := dash.Certifications[weakest]
		recommendations = append(recommendations,
			fmt.Sprintf("Prioritize %s: readiness is at %.0f%%", weakest, overview.Readiness.ReadinessScore))

		if overview.Readiness.ReadinessScore > 0 {
			for i, area := range overview.Readiness.WeakAreas {
				if i >= 2 {
					break
				}
				recommendations = append(recommendations,
					fmt.Sprintf("Generate a quiz focused on %s to close the gap", area))
			}
		}
	}

	return recommendations
}
