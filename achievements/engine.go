package achievements

import (
	"fmt"
	"time"

	"github.com/certforge/CertPrepApi/models"
	"github.com/google/uuid"
)

// Namespace for deterministic achievement ids. Never change this: ids derive
// from it, and changing it would re-award every achievement.
var achievementNamespace = uuid.MustParse("8f3c2a64-1d5b-4e9a-b7c1-d2f0a9e65c48")

type scoreRung struct {
	threshold int
	title     string
	points    int
}

// Engine evaluates milestone ladders against a user's current aggregates.
// Evaluation is a pure function of that state: all thresholds met so far are
// emitted on every call, with byte-stable ids, and persistence de-duplicates.
type Engine struct {
	streakLadder     []int
	scoreLadder      []scoreRung
	completionLadder []scoreRung
	timeLadder       []scoreRung
	now              func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		streakLadder: []int{3, 7, 14, 30, 60, 100},
		scoreLadder: []scoreRung{
			{70, "Solid Performer", 100},
			{80, "High Achiever", 200},
			{90, "Excellence", 500},
			{95, "Near Perfect", 1000},
		},
		completionLadder: []scoreRung{
			{10, "Getting Started", 50},
			{50, "Dedicated Learner", 250},
			{100, "Century Club", 500},
			{250, "Content Master", 1000},
		},
		timeLadder: []scoreRung{
			{10, "Committed", 100},
			{50, "Invested", 300},
			{100, "Marathon Learner", 600},
			{200, "Scholar", 1200},
		},
		now: time.Now,
	}
}

// AchievementID derives the deterministic id for one (user, type, threshold)
func AchievementID(userID int, achievementType string, threshold int) string {
	name := fmt.Sprintf("%d|%s|%d", userID, achievementType, threshold)
	return uuid.NewSHA1(achievementNamespace, []byte(name)).String()
}

// Evaluate scans the four ladders against the user's interactions and
// current streak and returns every achievement the state supports.
func (e *Engine) Evaluate(userID int, events []models.InteractionEvent, streakDays int) []models.Achievement {
	var scoreSum float64
	var scoreCount int
	completedCount := 0
	totalSeconds := 0

	for i := range events {
		ev := &events[i]
		totalSeconds += ev.TimeSpentSeconds

		if ev.Score != nil {
			scoreSum += *ev.Score
			scoreCount++
		}

		if ev.InteractionKind == models.KindCompleted {
			completedCount++
		}
	}

	avgScore := 0.0
	if scoreCount > 0 {
		avgScore = scoreSum / float64(scoreCount)
	}
	totalHours := totalSeconds / 3600

	var earned []models.Achievement

	for _, threshold := range e.streakLadder {
		if streakDays >= threshold {
			earned = append(earned, e.build(userID, models.AchievementStreak, threshold,
				fmt.Sprintf("%d-Day Streak", threshold),
				fmt.Sprintf("Studied %d days in a row", threshold),
				threshold*10))
		}
	}

	for _, rung := range e.scoreLadder {
		if scoreCount > 0 && avgScore >= float64(rung.threshold) {
			earned = append(earned, e.build(userID, models.AchievementScore, rung.threshold,
				rung.title,
				fmt.Sprintf("Maintained an average score of %d%% or better", rung.threshold),
				rung.points))
		}
	}

	for _, rung := range e.completionLadder {
		if completedCount >= rung.threshold {
			earned = append(earned, e.build(userID, models.AchievementCompletion, rung.threshold,
				rung.title,
				fmt.Sprintf("Completed %d content items", rung.threshold),
				rung.points))
		}
	}

	for _, rung := range e.timeLadder {
		if totalHours >= rung.threshold {
			earned = append(earned, e.build(userID, models.AchievementTime, rung.threshold,
				rung.title,
				fmt.Sprintf("Spent %d hours studying", rung.threshold),
				rung.points))
		}
	}

	return earned
}

func (e *Engine) build(userID int, achievementType string, threshold int, title, description string, points int) models.Achievement {
	return models.Achievement{
		ID:          AchievementID(userID, achievementType, threshold),
		UserID:      userID,
		Type:        achievementType,
		Threshold:   threshold,
		Title:       title,
		Description: description,
		Points:      points,
		EarnedAt:    e.now(),
	}
}
