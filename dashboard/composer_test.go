package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/readiness"
)

type fakeStore struct {
	events       []models.InteractionEvent
	catalog      []models.ContentDescriptor
	achievements []models.Achievement
}

func (f *fakeStore) QueryInteractions(userID int, certificationType string) ([]models.InteractionEvent, error) {
	if certificationType == "" {
		return f.events, nil
	}
	var out []models.InteractionEvent
	for _, ev := range f.events {
		if ev.CertificationType == certificationType {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) ListContent(certificationType string) ([]models.ContentDescriptor, error) {
	if certificationType == "" {
		return f.catalog, nil
	}
	var out []models.ContentDescriptor
	for _, cd := range f.catalog {
		if cd.CertificationType == certificationType {
			out = append(out, cd)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAchievements(userID int) ([]models.Achievement, error) {
	return f.achievements, nil
}

func ptr(v float64) *float64 { return &v }

func newTestComposer(store *fakeStore) *Composer {
	agg := analytics.NewAggregator(store)
	return NewComposer(store, agg, readiness.NewAssessor())
}

func hasRecommendation(recommendations []string, fragment string) bool {
	for _, r := range recommendations {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}

func TestComposeFreshUser(t *testing.T) {
	composer := newTestComposer(&fakeStore{})

	dash, err := composer.Compose(1)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if dash.Overall.TotalViewed != 0 {
		t.Errorf("Overall.TotalViewed = %d, want 0", dash.Overall.TotalViewed)
	}
	if len(dash.Certifications) != 0 {
		t.Errorf("got %d certifications for a fresh user, want 0", len(dash.Certifications))
	}
	if dash.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", dash.TotalPoints)
	}
	if !hasRecommendation(dash.Recommendations, "first study session") {
		t.Errorf("fresh user should be prompted to start, got %v", dash.Recommendations)
	}
}

func TestComposePerCertification(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		events: []models.InteractionEvent{
			{ContentID: "s1", CertificationType: "security-specialty", InteractionKind: models.KindAnswered, Score: ptr(85), TimeSpentSeconds: 60, Timestamp: now},
			{ContentID: "d1", CertificationType: "developer-associate", InteractionKind: models.KindAnswered, Score: ptr(40), TimeSpentSeconds: 120, Timestamp: now},
		},
		catalog: []models.ContentDescriptor{
			{ContentID: "s1", CertificationType: "security-specialty", Category: "iam"},
			{ContentID: "d1", CertificationType: "developer-associate", Category: "lambda"},
		},
		achievements: []models.Achievement{
			{ID: "a1", UserID: 1, Type: models.AchievementStreak, Threshold: 3, Points: 30, EarnedAt: now},
			{ID: "a2", UserID: 1, Type: models.AchievementScore, Threshold: 70, Points: 100, EarnedAt: now},
		},
	}

	dash, err := newTestComposer(store).Compose(1)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(dash.Certifications) != 2 {
		t.Fatalf("got %d certifications, want 2", len(dash.Certifications))
	}

	sec, ok := dash.Certifications["security-specialty"]
	if !ok {
		t.Fatal("missing security-specialty overview")
	}
	if sec.Summary.TotalAnswered != 1 {
		t.Errorf("security-specialty TotalAnswered = %d, want 1", sec.Summary.TotalAnswered)
	}
	if sec.Readiness.CertificationType != "security-specialty" {
		t.Errorf("readiness tagged %q, want security-specialty", sec.Readiness.CertificationType)
	}

	if dash.TotalPoints != 130 {
		t.Errorf("TotalPoints = %d, want 130", dash.TotalPoints)
	}
	if dash.Overall.TotalViewed != 2 {
		t.Errorf("Overall.TotalViewed = %d, want 2", dash.Overall.TotalViewed)
	}

	// The lower-readiness certification gets the spotlight
	if !hasRecommendation(dash.Recommendations, "Prioritize developer-associate") {
		t.Errorf("expected developer-associate spotlight, got %v", dash.Recommendations)
	}
}

func TestComposeStreakRecommendations(t *testing.T) {
	now := time.Now()

	// Active today and yesterday: a live streak worth keeping
	store := &fakeStore{
		events: []models.InteractionEvent{
			{ContentID: "a", CertificationType: "c", InteractionKind: models.KindViewed, Timestamp: now},
			{ContentID: "b", CertificationType: "c", InteractionKind: models.KindViewed, Timestamp: now.AddDate(0, 0, -1)},
			{ContentID: "c", CertificationType: "c", InteractionKind: models.KindViewed, Timestamp: now.AddDate(0, 0, -2)},
		},
	}
	dash, err := newTestComposer(store).Compose(1)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if dash.StreakDays != 3 {
		t.Errorf("StreakDays = %d, want 3", dash.StreakDays)
	}
	if !hasRecommendation(dash.Recommendations, "3-day streak") {
		t.Errorf("expected keep-going nudge, got %v", dash.Recommendations)
	}

	// Last activity a week ago: the streak lapsed
	store = &fakeStore{
		events: []models.InteractionEvent{
			{ContentID: "a", CertificationType: "c", InteractionKind: models.KindViewed, Timestamp: now.AddDate(0, 0, -7)},
		},
	}
	dash, err = newTestComposer(store).Compose(1)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if dash.StreakDays != 0 {
		t.Errorf("StreakDays = %d, want 0", dash.StreakDays)
	}
	if !hasRecommendation(dash.Recommendations, "lapsed") {
		t.Errorf("expected lapsed-streak nudge, got %v", dash.Recommendations)
	}
}

func TestComposeWeakAreaQuizPrompt(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		events: []models.InteractionEvent{
			{ContentID: "n1", CertificationType: "saa", InteractionKind: models.KindAnswered, Score: ptr(30), Timestamp: now},
			{ContentID: "s1", CertificationType: "saa", InteractionKind: models.KindAnswered, Score: ptr(95), Timestamp: now},
		},
		catalog: []models.ContentDescriptor{
			{ContentID: "n1", CertificationType: "saa", Category: "networking"},
			{ContentID: "s1", CertificationType: "saa", Category: "storage"},
		},
	}

	dash, err := newTestComposer(store).Compose(1)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !hasRecommendation(dash.Recommendations, "quiz focused on networking") {
		t.Errorf("expected a networking quiz prompt, got %v", dash.Recommendations)
	}
	if hasRecommendation(dash.Recommendations, "All areas need attention") {
		t.Errorf("bootstrap placeholder leaked into recommendations: %v", dash.Recommendations)
	}
}
