package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/finlingo/backend/internal/models"
)

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// generatedQuestion is the shape the model returns, before enrichment.
type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Hints         []string `json:"hints"`
	Tags          []string `json:"tags"`
}

// generatedRecommendation mirrors one element of the coaching response.
type generatedRecommendation struct {
	Type            string  `json:"type"`
	ContentID       string  `json:"content_id"`
	Title           string  `json:"title"`
	Reason          string  `json:"reason"`
	Priority        int     `json:"priority"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ParseQuestions validates the model output and enriches each question with
// an id, the request's placement fields, and the difficulty-scaled reward.
func ParseQuestions(responseBody string, req models.AIQuestionRequest) ([]models.Question, error) {
	cleaned := stripCodeFences(responseBody)

	var raw []generatedQuestion
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	var errs []string
	questions := make([]models.Question, 0, len(raw))
	for i, q := range raw {
		if strings.TrimSpace(q.Question) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question text", i))
			continue
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			errs = append(errs, fmt.Sprintf("question %d: missing correct answer", i))
			continue
		}
		if req.QuestionType == models.QuestionMultipleChoice && len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: multiple choice needs 4 options, got %d", i, len(q.Options)))
			continue
		}

		options := q.Options
		if req.QuestionType != models.QuestionMultipleChoice {
			options = nil
		}

		questions = append(questions, models.Question{
			ID:            uuid.NewString(),
			LessonID:      req.LessonID,
			TopicID:       req.TopicID,
			Question:      q.Question,
			Type:          req.QuestionType,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    req.Difficulty,
			XPReward:      int64(req.Difficulty) * 5,
			Hints:         q.Hints,
			Tags:          q.Tags,
			IsAIGenerated: true,
		})
	}

	if len(questions) == 0 {
		if len(errs) > 0 {
			return nil, &ValidationError{Errors: errs}
		}
		return nil, fmt.Errorf("response contained no questions")
	}
	return questions, nil
}

// ParseRecommendations validates the coaching response, dropping entries
// without a title and clamping priority and confidence into range.
func ParseRecommendations(responseBody string, userID int64) ([]models.AIRecommendation, error) {
	cleaned := stripCodeFences(responseBody)

	var raw []generatedRecommendation
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	recs := make([]models.AIRecommendation, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		if r.Type == "" {
			r.Type = "lesson"
		}
		if r.Priority < 1 || r.Priority > 5 {
			r.Priority = 3
		}
		if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
			r.ConfidenceScore = 0.5
		}
		recs = append(recs, models.AIRecommendation{
			UserID:          userID,
			Type:            r.Type,
			ContentID:       r.ContentID,
			Title:           r.Title,
			Reason:          r.Reason,
			Priority:        r.Priority,
			ConfidenceScore: r.ConfidenceScore,
		})
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("response contained no recommendations")
	}
	return recs, nil
}

// ParseLearningPath validates the path response. The structure beyond the
// named fields is stored verbatim.
func ParseLearningPath(responseBody string, userID int64) (*models.LearningPath, error) {
	cleaned := stripCodeFences(responseBody)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	name, _ := raw["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("learning path has no name")
	}
	description, _ := raw["description"].(string)
	estimated := 0
	if v, ok := raw["estimated_completion"].(float64); ok {
		estimated = int(v)
	}

	return &models.LearningPath{
		UserID:              userID,
		Name:                name,
		Description:         description,
		Path:                raw,
		EstimatedCompletion: estimated,
		IsActive:            true,
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
