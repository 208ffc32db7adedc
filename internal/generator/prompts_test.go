package generator

import (
	"strings"
	"testing"

	"github.com/finlingo/backend/internal/models"
)

func TestTopicContext(t *testing.T) {
	tests := []struct {
		topicID string
		want    string
	}{
		{"saving", "Saving Strategies"},
		{"investing", "Investment Basics"},
		{"credit", "Credit and Debt Management"},
		{"unknown-topic", defaultTopicContext},
		{"", defaultTopicContext},
	}
	for _, tt := range tests {
		got := TopicContext(tt.topicID)
		if !strings.Contains(got, tt.want) {
			t.Errorf("TopicContext(%q) = %q, want contains %q", tt.topicID, got, tt.want)
		}
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	req := models.AIQuestionRequest{
		TopicID:      "budgeting",
		LessonID:     "budgeting-1",
		Difficulty:   4,
		QuestionType: models.QuestionScenario,
		Count:        3,
		Context:      "50/30/20 rule",
	}

	prompt := BuildQuestionPrompt(req)

	for _, want := range []string{
		"Generate 3 scenario questions",
		"Budgeting and Money Management",
		"Difficulty level: 4/5",
		"scenario-based questions with real-world financial situations",
		"50/30/20 rule",
		"Return as JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildQuestionPromptDefaults(t *testing.T) {
	req := models.AIQuestionRequest{
		TopicID:      "mystery",
		Difficulty:   1,
		QuestionType: models.QuestionMultipleChoice,
		Count:        5,
	}
	prompt := BuildQuestionPrompt(req)

	if !strings.Contains(prompt, defaultTopicContext) {
		t.Error("unknown topic should use the general finance context")
	}
	if !strings.Contains(prompt, "General lesson content") {
		t.Error("empty context should fall back to general lesson content")
	}
}

func TestBuildRecommendationPrompt(t *testing.T) {
	profile := &models.UserProfile{
		UserID:           9,
		TotalXP:          1200,
		CurrentStreak:    4,
		Level:            2,
		LessonsCompleted: []string{"basics-1", "basics-2"},
		TopicsCompleted:  []string{},
	}
	history := make([]models.UserActivity, 15)
	for i := range history {
		history[i] = models.UserActivity{ActivityType: "lesson_completed"}
	}

	prompt := BuildRecommendationPrompt(profile, history)

	if !strings.Contains(prompt, `"total_xp":1200`) {
		t.Error("prompt missing serialized progress")
	}
	if !strings.Contains(prompt, "Return as JSON array") {
		t.Error("prompt missing output format instruction")
	}
	// Only the ten most recent activities go into the prompt.
	if got := strings.Count(prompt, `"activity_type":"lesson_completed"`); got != 10 {
		t.Errorf("prompt contains %d history entries, want 10", got)
	}
}

func TestBuildLearningPathPrompt(t *testing.T) {
	prompt := BuildLearningPathPrompt([]string{"retire early", "buy a house"}, 3, 20)

	for _, want := range []string{
		"retire early",
		"Current Level: 3/5",
		"Available Time: 20 minutes per day",
		"Return as JSON object",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
