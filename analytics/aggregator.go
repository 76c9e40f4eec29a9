package analytics

import (
	"sort"
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/utils"
)

const dayFormat = "2006-01-02"

// Source is what the aggregator needs from the store: the interaction log
// and the content catalog. *db.DB satisfies it.
type Source interface {
	QueryInteractions(userID int, certificationType string) ([]models.InteractionEvent, error)
	ListContent(certificationType string) ([]models.ContentDescriptor, error)
}

// Aggregator turns raw interactions into performance summaries, trends and
// activity summaries. It holds no state of its own; every call recomputes
// from the event log, so repeated calls with unchanged state are identical.
type Aggregator struct {
	source Source
	now    func() time.Time
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

func isAnswered(ev *models.InteractionEvent) bool {
	// Score only ever gets set by answering, so a score-bearing record counts
	// as answered even after a later completion overwrote its kind.
	return ev.InteractionKind == models.KindAnswered || ev.Score != nil
}

// Summarize computes a user's PerformanceSummary, optionally scoped to one
// certification. A user with no events gets all zeros, not an error.
func (a *Aggregator) Summarize(userID int, certificationType string) (*models.PerformanceSummary, error) {
	start := time.Now()

	events, err := a.source.QueryInteractions(userID, certificationType)
	if err != nil {
		return nil, err
	}

	catalog, err := a.source.ListContent(certificationType)
	if err != nil {
		return nil, err
	}

	summary := summarize(events, len(catalog))

	utils.LogDebug("Summarize for user %d (cert %q): %d events in %v",
		userID, certificationType, len(events), time.Since(start))
	return summary, nil
}

func summarize(events []models.InteractionEvent, catalogSize int) *models.PerformanceSummary {
	summary := &models.PerformanceSummary{}

	var scoreSum float64
	var scoreCount int
	completed := make(map[string]bool)

	for i := range events {
		ev := &events[i]
		summary.TotalViewed++
		summary.TotalTimeSpent += ev.TimeSpentSeconds

		if isAnswered(ev) {
			summary.TotalAnswered++
			if ev.Score != nil {
				scoreSum += *ev.Score
				scoreCount++
			}
		}

		if ev.InteractionKind == models.KindCompleted {
			completed[ev.ContentID] = true
		}
	}

	if scoreCount > 0 {
		summary.AverageScore = scoreSum / float64(scoreCount)
	}

	if catalogSize > 0 {
		summary.CompletionRate = float64(len(completed)) / float64(catalogSize) * 100
	}

	return summary
}

// CategoryPerformance breaks a user's performance down per category for one
// certification. Events whose content the catalog cannot resolve keep their
// place in the overall summary but are excluded from category attribution.
func (a *Aggregator) CategoryPerformance(userID int, certificationType string) (map[string]models.CategoryPerformance, error) {
	events, err := a.source.QueryInteractions(userID, certificationType)
	if err != nil {
		return nil, err
	}

	catalog, err := a.source.ListContent(certificationType)
	if err != nil {
		return nil, err
	}

	descriptors := make(map[string]models.ContentDescriptor, len(catalog))
	categoryTotals := make(map[string]int)
	for _, cd := range catalog {
		descriptors[cd.ContentID] = cd
		categoryTotals[cd.Category]++
	}

	scoreSums := make(map[string]float64)
	scoreCounts := make(map[string]int)
	answered := make(map[string]int)
	completed := make(map[string]map[string]bool)
	unresolved := 0

	for i := range events {
		ev := &events[i]
		cd, ok := descriptors[ev.ContentID]
		if !ok {
			unresolved++
			continue
		}

		if isAnswered(ev) {
			answered[cd.Category]++
			if ev.Score != nil {
				scoreSums[cd.Category] += *ev.Score
				scoreCounts[cd.Category]++
			}
		}

		if ev.InteractionKind == models.KindCompleted {
			if completed[cd.Category] == nil {
				completed[cd.Category] = make(map[string]bool)
			}
			completed[cd.Category][ev.ContentID] = true
		}
	}

	if unresolved > 0 {
		utils.LogDebug("CategoryPerformance for user %d: %d events without catalog entry skipped", userID, unresolved)
	}

	perf := make(map[string]models.CategoryPerformance)
	for category := range categoryTotals {
		if answered[category] == 0 && len(completed[category]) == 0 {
			// No signal for this category yet
			continue
		}

		cp := models.CategoryPerformance{
			Category:  category,
			Answered:  answered[category],
			Completed: len(completed[category]),
		}

		if scoreCounts[category] > 0 {
			cp.AverageScore = scoreSums[category] / float64(scoreCounts[category])
		}

		if total := categoryTotals[category]; total > 0 {
			cp.CompletionRate = float64(len(completed[category])) / float64(total) * 100
		}

		perf[category] = cp
	}

	return perf, nil
}

// Trends buckets a user's interactions by calendar date over a lookback
// window. Buckets are ordered ascending by date and each recomputes its own
// averages and breakdowns independently.
func (a *Aggregator) Trends(userID int, certificationType string, days int) ([]models.PerformanceTrend, error) {
	if days <= 0 {
		days = 7
	}

	events, err := a.source.QueryInteractions(userID, certificationType)
	if err != nil {
		return nil, err
	}

	catalog, err := a.source.ListContent(certificationType)
	if err != nil {
		return nil, err
	}

	descriptors := make(map[string]models.ContentDescriptor, len(catalog))
	for _, cd := range catalog {
		descriptors[cd.ContentID] = cd
	}

	cutoff := a.now().AddDate(0, 0, -days)
	buckets := make(map[string]*models.PerformanceTrend)
	scoreSums := make(map[string]float64)
	scoreCounts := make(map[string]int)
	categoryCounts := make(map[string]map[string]int)
	difficultyCounts := make(map[string]map[string]int)

	for i := range events {
		ev := &events[i]
		if ev.Timestamp.Before(cutoff) {
			continue
		}

		day := ev.Timestamp.UTC().Format(dayFormat)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &models.PerformanceTrend{
				Date:                day,
				CategoryBreakdown:   make(map[string]float64),
				DifficultyBreakdown: make(map[string]float64),
			}
			buckets[day] = bucket
			categoryCounts[day] = make(map[string]int)
			difficultyCounts[day] = make(map[string]int)
		}

		bucket.Metrics.InteractionCount++
		bucket.Metrics.TotalTime += ev.TimeSpentSeconds

		if ev.InteractionKind == models.KindCompleted {
			bucket.Metrics.CompletedCount++
		}

		if ev.Score == nil {
			continue
		}

		scoreSums[day] += *ev.Score
		scoreCounts[day]++

		if cd, ok := descriptors[ev.ContentID]; ok {
			updateMean(bucket.CategoryBreakdown, categoryCounts[day], cd.Category, *ev.Score)
			updateMean(bucket.DifficultyBreakdown, difficultyCounts[day], cd.DifficultyLevel, *ev.Score)
		}
	}

	trends := make([]models.PerformanceTrend, 0, len(buckets))
	for day, bucket := range buckets {
		if scoreCounts[day] > 0 {
			bucket.Metrics.AvgScore = scoreSums[day] / float64(scoreCounts[day])
		}
		trends = append(trends, *bucket)
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].Date < trends[j].Date })
	return trends, nil
}

// updateMean folds one value into a running mean without keeping the samples
func updateMean(means map[string]float64, counts map[string]int, key string, value float64) {
	counts[key]++
	n := float64(counts[key])
	means[key] = (means[key]*(n-1) + value) / n
}

// ActivitySummary describes a user's recent study rhythm across all
// certifications: per-day counts, weekly averages and the current streak.
func (a *Aggregator) ActivitySummary(userID int, days int) (*models.ActivitySummary, error) {
	if days <= 0 {
		days = 30
	}

	events, err := a.source.QueryInteractions(userID, "")
	if err != nil {
		return nil, err
	}

	catalog, err := a.source.ListContent("")
	if err != nil {
		return nil, err
	}

	descriptors := make(map[string]models.ContentDescriptor, len(catalog))
	for _, cd := range catalog {
		descriptors[cd.ContentID] = cd
	}

	// Day bucketing happens in UTC because that is how timestamps are stored
	now := a.now().UTC()
	cutoff := now.AddDate(0, 0, -days)

	summary := &models.ActivitySummary{
		DailyActivity: make(map[string]int),
	}

	allDates := make(map[string]bool)
	certCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	totalTime := 0

	for i := range events {
		ev := &events[i]
		allDates[ev.Timestamp.UTC().Format(dayFormat)] = true

		if ev.Timestamp.Before(cutoff) {
			continue
		}

		summary.InteractionCount++
		summary.DailyActivity[ev.Timestamp.UTC().Format(dayFormat)]++
		totalTime += ev.TimeSpentSeconds
		certCounts[ev.CertificationType]++

		if cd, ok := descriptors[ev.ContentID]; ok {
			categoryCounts[cd.Category]++
		}
	}

	// The streak walks the full history, not just the window; an old streak
	// does not disappear because the lookback shrank.
	summary.StreakDays = computeStreak(allDates, now)

	weeks := float64(days) / 7
	if weeks < 1 {
		weeks = 1
	}
	summary.WeeklyAvgTimeSeconds = float64(totalTime) / weeks
	summary.WeeklyAvgInteractions = float64(summary.InteractionCount) / weeks

	summary.MostActiveCertification = maxKey(certCounts)
	summary.MostActiveCategory = maxKey(categoryCounts)

	return summary, nil
}

// computeStreak counts consecutive active calendar days ending at today.
// When today has no activity yet, a streak may still start from yesterday;
// that grace applies only to the first step of the walk.
func computeStreak(activeDates map[string]bool, today time.Time) int {
	if len(activeDates) == 0 {
		return 0
	}

	cursor := today
	if !activeDates[cursor.Format(dayFormat)] {
		cursor = cursor.AddDate(0, 0, -1)
		if !activeDates[cursor.Format(dayFormat)] {
			return 0
		}
	}

	streak := 0
	for activeDates[cursor.Format(dayFormat)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak
}

func maxKey(counts map[string]int) string {
	best := ""
	bestCount := 0
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
		}
	}
	return best
}
