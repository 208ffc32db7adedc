package models

import "time"

// ── Educational Content ───────────────────────────────────

type Topic struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	Order         int       `json:"order"`
	TotalLessons  int       `json:"total_lessons"`
	EstimatedTime int       `json:"estimated_time"`
	Difficulty    int       `json:"difficulty"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

type Lesson struct {
	ID          string    `json:"id"`
	TopicID     string    `json:"topic_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Duration    int       `json:"duration"`
	XPReward    int64     `json:"xp_reward"`
	Order       int       `json:"order"`
	Difficulty  int       `json:"difficulty"`
	LessonType  string    `json:"lesson_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionFillBlank      QuestionType = "fill-blank"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionScenario       QuestionType = "scenario"
	QuestionCalculation    QuestionType = "calculation"
)

// ValidQuestionTypes is the closed set accepted by the AI generation API.
var ValidQuestionTypes = map[QuestionType]bool{
	QuestionMultipleChoice: true,
	QuestionFillBlank:      true,
	QuestionTrueFalse:      true,
	QuestionScenario:       true,
	QuestionCalculation:    true,
}

type Question struct {
	ID            string       `json:"id"`
	LessonID      string       `json:"lesson_id"`
	TopicID       string       `json:"topic_id"`
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Difficulty    int          `json:"difficulty"`
	XPReward      int64        `json:"xp_reward"`
	Hints         []string     `json:"hints,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	IsAIGenerated bool         `json:"is_ai_generated"`
	CreatedAt     time.Time    `json:"created_at"`
}

type UserProgress struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	LessonID           string    `json:"lesson_id"`
	TopicID            string    `json:"topic_id"`
	Status             string    `json:"status"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Score              int       `json:"score"`
	TimeSpent          int       `json:"time_spent"`
	Attempts           int       `json:"attempts"`
	LastAccessed       time.Time `json:"last_accessed"`
}

// ── Requests ──────────────────────────────────────────────

type QuestionResponse struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	TimeTaken  int    `json:"time_taken"`
}

type LessonCompletionRequest struct {
	TopicID           string             `json:"topic_id"`
	QuestionResponses []QuestionResponse `json:"question_responses"`
	TotalTime         int                `json:"total_time"`
}

type AIQuestionRequest struct {
	TopicID      string       `json:"topic_id"`
	LessonID     string       `json:"lesson_id,omitempty"`
	Difficulty   int          `json:"difficulty"`
	QuestionType QuestionType `json:"question_type"`
	Count        int          `json:"count"`
	Context      string       `json:"context,omitempty"`
}

type LearningPathRequest struct {
	Goals         []string `json:"goals"`
	AvailableTime int      `json:"available_time"`
}
