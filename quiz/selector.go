package quiz

import (
	"sort"

	"github.com/certforge/CertPrepApi/models"
)

// Selector picks a bounded, balanced question set from a candidate pool.
// Weak-area remediation competes with repetition avoidance: roughly half the
// quiz targets weak categories, recently answered questions are avoided but
// never at the cost of an under-filled quiz, and the remainder maximizes
// category coverage. The selector is a pure function of its inputs.
type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

// Select builds a quiz of up to count questions. Correct answers are
// stripped from every question before the result is returned.
func (s *Selector) Select(pool []models.QuizQuestion, weakCategories, strongCategories []string,
	recentlyAnswered map[string]bool, count int, difficulty string) *models.QuizSelectionResult {

	result := &models.QuizSelectionResult{
		Questions:             []models.QuizQuestion{},
		PrioritizedCategories: []string{},
	}

	if count <= 0 || len(pool) == 0 {
		result.Shortfall = count > 0
		return result
	}

	weak := toSet(weakCategories)
	strong := toSet(strongCategories)

	// Anti-repetition is soft: exclude recently answered questions unless
	// that would leave too few candidates to fill the quiz.
	var eligible, excluded []models.QuizQuestion
	for _, q := range pool {
		if recentlyAnswered[q.ID] {
			excluded = append(excluded, q)
		} else {
			eligible = append(eligible, q)
		}
	}

	var weakPool, otherPool []models.QuizQuestion
	for _, q := range eligible {
		if weak[q.Category] {
			weakPool = append(weakPool, q)
		} else {
			otherPool = append(otherPool, q)
		}
	}

	if difficulty != "" && difficulty != models.DifficultyMixed {
		weakPool = preferDifficulty(weakPool, difficulty)
		otherPool = preferDifficulty(otherPool, difficulty)
	}

	selected := make([]models.QuizQuestion, 0, count)
	picked := make(map[string]bool)
	prioritized := make(map[string]bool)

	// Weak-category questions fill roughly half the quiz first
	weakTarget := (count + 1) / 2
	for _, q := range weakPool {
		if len(selected) >= weakTarget {
			break
		}
		selected = append(selected, q)
		picked[q.ID] = true
		prioritized[q.Category] = true
	}

	// Fill the remainder preferring unrepresented, non-strong categories to
	// maximize coverage, then unrepresented, then anything left.
	remainder := append(otherPool, weakPool...)
	covered := func(q models.QuizQuestion) bool {
		for _, sel := range selected {
			if sel.Category == q.Category {
				return true
			}
		}
		return false
	}

	passes := []func(q models.QuizQuestion) bool{
		func(q models.QuizQuestion) bool { return !covered(q) && !strong[q.Category] },
		func(q models.QuizQuestion) bool { return !covered(q) },
		func(q models.QuizQuestion) bool { return true },
	}

	for _, pass := range passes {
		if len(selected) >= count {
			break
		}
		for _, q := range remainder {
			if len(selected) >= count {
				break
			}
			if picked[q.ID] || !pass(q) {
				continue
			}
			selected = append(selected, q)
			picked[q.ID] = true
		}
	}

	// Backfill from recently answered questions rather than return an
	// under-filled quiz
	if len(selected) < count {
		for _, q := range excluded {
			if len(selected) >= count {
				break
			}
			if picked[q.ID] {
				continue
			}
			selected = append(selected, q)
			picked[q.ID] = true
			result.RepetitionRelaxed = true
		}
	}

	result.Shortfall = len(selected) < count

	for _, q := range selected {
		q.CorrectAnswer = ""
		result.Questions = append(result.Questions, q)
	}

	for category := range prioritized {
		result.PrioritizedCategories = append(result.PrioritizedCategories, category)
	}
	sort.Strings(result.PrioritizedCategories)

	return result
}

// preferDifficulty stably moves questions matching the preferred difficulty
// to the front without dropping the rest
func preferDifficulty(questions []models.QuizQuestion, difficulty string) []models.QuizQuestion {
	ordered := make([]models.QuizQuestion, 0, len(questions))
	var rest []models.QuizQuestion

	for _, q := range questions {
		if q.DifficultyLevel == difficulty {
			ordered = append(ordered, q)
		} else {
			rest = append(rest, q)
		}
	}

	return append(ordered, rest...)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
