package quiz

import (
	"fmt"
	"testing"

	"github.com/certforge/CertPrepApi/models"
)

func question(id, category, difficulty string) models.QuizQuestion {
	return models.QuizQuestion{
		ID:              id,
		Category:        category,
		DifficultyLevel: difficulty,
		Question:        "q-" + id,
		Options:         []string{"a", "b", "c", "d"},
		CorrectAnswer:   "a",
	}
}

func buildPool(perCategory map[string]int, difficulty string) []models.QuizQuestion {
	var pool []models.QuizQuestion
	for category, n := range perCategory {
		for i := 0; i < n; i++ {
			pool = append(pool, question(fmt.Sprintf("%s-%d", category, i), category, difficulty))
		}
	}
	return pool
}

func categoryCounts(questions []models.QuizQuestion) map[string]int {
	counts := make(map[string]int)
	for _, q := range questions {
		counts[q.Category]++
	}
	return counts
}

func TestSelectEmptyPool(t *testing.T) {
	selector := NewSelector()

	result := selector.Select(nil, nil, nil, nil, 10, "")
	if len(result.Questions) != 0 {
		t.Errorf("got %d questions from an empty pool, want 0", len(result.Questions))
	}
	if !result.Shortfall {
		t.Error("empty pool with count > 0 should report a shortfall")
	}
}

func TestSelectZeroCount(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"iam": 5}, "easy")
	result := selector.Select(pool, nil, nil, nil, 0, "")
	if len(result.Questions) != 0 {
		t.Errorf("got %d questions for count 0, want 0", len(result.Questions))
	}
	if result.Shortfall {
		t.Error("count 0 is satisfied trivially, not a shortfall")
	}
}

func TestSelectNeverExceedsCount(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"iam": 20, "kms": 20}, "medium")
	result := selector.Select(pool, []string{"iam"}, nil, nil, 10, "")
	if len(result.Questions) != 10 {
		t.Errorf("got %d questions, want exactly 10", len(result.Questions))
	}
	if result.Shortfall {
		t.Error("a pool of 40 should fill a quiz of 10 without shortfall")
	}
}

func TestSelectWeakCategoriesFillHalf(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"networking": 10, "storage": 10, "compute": 10}, "medium")
	result := selector.Select(pool, []string{"networking"}, nil, nil, 10, "")

	counts := categoryCounts(result.Questions)
	if counts["networking"] < 5 {
		t.Errorf("weak category got %d of 10 slots, want at least half", counts["networking"])
	}

	if len(result.PrioritizedCategories) != 1 || result.PrioritizedCategories[0] != "networking" {
		t.Errorf("PrioritizedCategories = %v, want [networking]", result.PrioritizedCategories)
	}
}

func TestSelectOddCountRoundsWeakTargetUp(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"weakcat": 10, "other": 10}, "medium")
	result := selector.Select(pool, []string{"weakcat"}, nil, nil, 5, "")

	counts := categoryCounts(result.Questions)
	if counts["weakcat"] != 3 {
		t.Errorf("weak category got %d of 5 slots, want 3", counts["weakcat"])
	}
}

func TestSelectCoversCategories(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"a": 10, "b": 10, "c": 10, "d": 10}, "medium")
	result := selector.Select(pool, nil, nil, nil, 8, "")

	counts := categoryCounts(result.Questions)
	if len(counts) < 4 {
		t.Errorf("coverage pass should touch all 4 categories, got %v", counts)
	}
}

func TestSelectDeprioritizesStrongCategories(t *testing.T) {
	selector := NewSelector()

	// 2 items per category, 4 slots: the non-strong categories must be
	// covered before any strong question is picked
	pool := buildPool(map[string]int{"strongcat": 2, "x": 2, "y": 2, "z": 2}, "medium")
	result := selector.Select(pool, nil, []string{"strongcat"}, nil, 3, "")

	counts := categoryCounts(result.Questions)
	if counts["strongcat"] != 0 {
		t.Errorf("strong category took %d of 3 slots with non-strong candidates available", counts["strongcat"])
	}
	if len(counts) != 3 {
		t.Errorf("expected one question from each non-strong category, got %v", counts)
	}
}

func TestSelectAvoidsRecentlyAnswered(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"iam": 10}, "medium")
	recent := map[string]bool{"iam-0": true, "iam-1": true, "iam-2": true}

	result := selector.Select(pool, nil, nil, recent, 5, "")
	if len(result.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(result.Questions))
	}
	for _, q := range result.Questions {
		if recent[q.ID] {
			t.Errorf("question %s was recently answered and fresh candidates remained", q.ID)
		}
	}
	if result.RepetitionRelaxed {
		t.Error("RepetitionRelaxed should be false when fresh candidates sufficed")
	}
}

func TestSelectBackfillsFromRecentlyAnswered(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"iam": 6}, "medium")
	recent := map[string]bool{"iam-0": true, "iam-1": true, "iam-2": true}

	result := selector.Select(pool, nil, nil, recent, 5, "")
	if len(result.Questions) != 5 {
		t.Fatalf("got %d questions, want 5 (backfill should have relaxed anti-repetition)", len(result.Questions))
	}
	if !result.RepetitionRelaxed {
		t.Error("RepetitionRelaxed should be true after backfilling")
	}
	if result.Shortfall {
		t.Error("backfill filled the quiz, Shortfall should be false")
	}
}

func TestSelectShortfall(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"iam": 3}, "medium")
	result := selector.Select(pool, nil, nil, nil, 10, "")
	if len(result.Questions) != 3 {
		t.Errorf("got %d questions, want all 3 available", len(result.Questions))
	}
	if !result.Shortfall {
		t.Error("3 of 10 requested should report a shortfall")
	}
}

func TestSelectPrefersDifficulty(t *testing.T) {
	selector := NewSelector()

	pool := []models.QuizQuestion{
		question("e1", "iam", models.DifficultyEasy),
		question("e2", "iam", models.DifficultyEasy),
		question("h1", "iam", models.DifficultyHard),
		question("h2", "iam", models.DifficultyHard),
		question("h3", "iam", models.DifficultyHard),
	}

	result := selector.Select(pool, nil, nil, nil, 3, models.DifficultyHard)
	for _, q := range result.Questions {
		if q.DifficultyLevel != models.DifficultyHard {
			t.Errorf("question %s is %s, want hard while enough hard questions exist", q.ID, q.DifficultyLevel)
		}
	}
}

func TestSelectMixedDifficultyKeepsEverything(t *testing.T) {
	selector := NewSelector()

	pool := []models.QuizQuestion{
		question("e1", "iam", models.DifficultyEasy),
		question("h1", "iam", models.DifficultyHard),
	}

	result := selector.Select(pool, nil, nil, nil, 2, models.DifficultyMixed)
	if len(result.Questions) != 2 {
		t.Errorf("mixed difficulty got %d questions, want 2", len(result.Questions))
	}
}

func TestSelectStripsCorrectAnswers(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"iam": 5}, "medium")
	result := selector.Select(pool, nil, nil, nil, 5, "")
	for _, q := range result.Questions {
		if q.CorrectAnswer != "" {
			t.Errorf("question %s still carries its correct answer", q.ID)
		}
	}

	// The caller's pool must be untouched
	for _, q := range pool {
		if q.CorrectAnswer == "" {
			t.Errorf("pool question %s was mutated", q.ID)
		}
	}
}

func TestSelectNoDuplicates(t *testing.T) {
	selector := NewSelector()

	pool := buildPool(map[string]int{"a": 3, "b": 3}, "medium")
	recent := map[string]bool{"a-0": true}

	result := selector.Select(pool, []string{"a"}, nil, recent, 6, "")
	seen := make(map[string]bool)
	for _, q := range result.Questions {
		if seen[q.ID] {
			t.Errorf("question %s selected twice", q.ID)
		}
		seen[q.ID] = true
	}
}
