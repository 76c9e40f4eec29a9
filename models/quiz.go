package models

// Difficulty preferences for quiz generation
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyMixed  = "mixed"
)

// QuizQuestion is read-only input from the question corpus. CorrectAnswer is
// stripped before a selection leaves the engine.
type QuizQuestion struct {
	ID                string   `json:"id"`
	CertificationType string   `json:"certification_type"`
	Category          string   `json:"category"`
	DifficultyLevel   string   `json:"difficulty_level"`
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     string   `json:"correct_answer,omitempty"`
}

// QuizRequest for generating an adaptive quiz
type QuizRequest struct {
	CertificationType string `json:"certification_type"`
	Count             int    `json:"count"`
	Difficulty        string `json:"difficulty"`
}

// QuizSelectionResult is the ordered question set plus selection metadata
type QuizSelectionResult struct {
	Questions             []QuizQuestion `json:"questions"`
	PrioritizedCategories []string       `json:"prioritized_categories"`
	RepetitionRelaxed     bool           `json:"repetition_relaxed"`
	Shortfall             bool           `json:"shortfall"`
}

// Import types for seeding the catalog and question corpus
type ImportRequest struct {
	Content   []ContentDescriptor `json:"content,omitempty"`
	Questions []QuizQuestion      `json:"questions,omitempty"`
}

type ImportResult struct {
	TotalItems    int      `json:"total_items"`
	ImportedItems int      `json:"imported_items"`
	SkippedItems  int      `json:"skipped_items"`
	Errors        []string `json:"errors"`
	TimeTaken     string   `json:"time_taken"`
}
