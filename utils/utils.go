package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/certforge/CertPrepApi/models"
)

// ErrValidation marks malformed input. Handlers map it to 400; everything
// else falls through as 500.
var ErrValidation = errors.New("validation failed")

// Environment utilities
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func validInteractionKind(kind string) bool {
	switch kind {
	case models.KindViewed, models.KindAnswered, models.KindCompleted:
		return true
	}
	return false
}

// ValidateRecordRequest rejects malformed interactions before anything is
// written. A rejected request is never partially applied.
func ValidateRecordRequest(req *models.RecordRequest) error {
	if strings.TrimSpace(req.ContentID) == "" {
		return fmt.Errorf("%w: content_id is required", ErrValidation)
	}

	if strings.TrimSpace(req.CertificationType) == "" {
		return fmt.Errorf("%w: certification_type is required", ErrValidation)
	}

	if !validInteractionKind(req.InteractionKind) {
		return fmt.Errorf("%w: unknown interaction_kind '%s', must be one of: viewed, answered, completed",
			ErrValidation, req.InteractionKind)
	}

	if req.Score != nil && (*req.Score < 0 || *req.Score > 100) {
		return fmt.Errorf("%w: score must be between 0 and 100, got %.1f", ErrValidation, *req.Score)
	}

	if req.TimeSpentSeconds < 0 {
		return fmt.Errorf("%w: time_spent_seconds cannot be negative", ErrValidation)
	}

	return nil
}

// ValidateUserRequest checks registration input
func ValidateUserRequest(req *models.UserRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}

	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	if len(req.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	return nil
}

// ValidateQuizQuestion checks a corpus question before import: at least two
// unique options and the correct answer must be one of them.
func ValidateQuizQuestion(q *models.QuizQuestion) error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: question id is required", ErrValidation)
	}

	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: question text is required", ErrValidation)
	}

	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question must have at least 2 options", ErrValidation)
	}

	seen := make(map[string]bool)
	for _, opt := range q.Options {
		key := NormalizeCategory(opt)
		if seen[key] {
			return fmt.Errorf("%w: duplicate option '%s'", ErrValidation, opt)
		}
		seen[key] = true
	}

	if !seen[NormalizeCategory(q.CorrectAnswer)] {
		return fmt.Errorf("%w: correct answer '%s' not found in options", ErrValidation, q.CorrectAnswer)
	}

	return nil
}

// NormalizeCategory is the single place free-text labels get cleaned up, so
// the aggregator and selector never see two spellings of the same category.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
