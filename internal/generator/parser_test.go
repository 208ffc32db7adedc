package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/finlingo/backend/internal/models"
)

const sampleQuestionsJSON = `[
  {
    "question": "What is the recommended size of an emergency fund?",
    "options": ["1 week of expenses", "3-6 months of expenses", "10 years of expenses", "No fund is needed"],
    "correct_answer": "3-6 months of expenses",
    "explanation": "An emergency fund of three to six months of living expenses covers most income disruptions without forcing debt.",
    "hints": ["Think about how long a job search takes"],
    "tags": ["saving", "emergency-fund"]
  },
  {
    "question": "Which account type typically pays the highest interest on savings?",
    "options": ["Checking account", "High-yield savings account", "Cash under the mattress", "Prepaid card"],
    "correct_answer": "High-yield savings account",
    "explanation": "High-yield savings accounts pay substantially more interest than checking accounts while staying liquid.",
    "hints": [],
    "tags": ["saving"]
  }
]`

func sampleRequest() models.AIQuestionRequest {
	return models.AIQuestionRequest{
		TopicID:      "saving",
		LessonID:     "saving-101",
		Difficulty:   3,
		QuestionType: models.QuestionMultipleChoice,
		Count:        2,
	}
}

func TestParseQuestions(t *testing.T) {
	questions, err := ParseQuestions(sampleQuestionsJSON, sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	q := questions[0]
	if q.ID == "" {
		t.Error("question has no generated id")
	}
	if q.TopicID != "saving" || q.LessonID != "saving-101" {
		t.Errorf("placement fields not carried: topic=%q lesson=%q", q.TopicID, q.LessonID)
	}
	if q.Difficulty != 3 {
		t.Errorf("difficulty = %d, want 3", q.Difficulty)
	}
	if q.XPReward != 15 {
		t.Errorf("xp reward = %d, want difficulty*5 = 15", q.XPReward)
	}
	if !q.IsAIGenerated {
		t.Error("question not flagged as AI generated")
	}
	if len(q.Options) != 4 {
		t.Errorf("got %d options, want 4", len(q.Options))
	}
}

func TestParseQuestionsStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + sampleQuestionsJSON + "\n```"
	questions, err := ParseQuestions(fenced, sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("got %d questions, want 2", len(questions))
	}
}

func TestParseQuestionsRejectsBadJSON(t *testing.T) {
	if _, err := ParseQuestions("not json at all", sampleRequest()); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseQuestionsDropsInvalidEntries(t *testing.T) {
	mixed := `[
	  {"question": "", "correct_answer": "x", "options": ["a","b","c","d"]},
	  {"question": "Valid?", "correct_answer": "Yes", "options": ["Yes","No","Maybe","Never"], "explanation": "ok"}
	]`
	questions, err := ParseQuestions(mixed, sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
}

func TestParseQuestionsMultipleChoiceNeedsFourOptions(t *testing.T) {
	short := `[{"question": "Q?", "correct_answer": "A", "options": ["A", "B"]}]`
	_, err := ParseQuestions(short, sampleRequest())
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "4 options") {
		t.Errorf("error does not mention option count: %v", err)
	}
}

func TestParseQuestionsNonMultipleChoiceDropsOptions(t *testing.T) {
	req := sampleRequest()
	req.QuestionType = models.QuestionTrueFalse

	tf := `[{"question": "Compound interest grows linearly.", "correct_answer": "false", "options": ["true","false"], "explanation": "It grows exponentially."}]`
	questions, err := ParseQuestions(tf, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if questions[0].Options != nil {
		t.Errorf("options should be dropped for %s questions", req.QuestionType)
	}
}

func TestParseRecommendations(t *testing.T) {
	body := `[
	  {"type": "lesson", "content_id": "budgeting-2", "title": "Continue budgeting", "reason": "You are mid-topic.", "priority": 4, "confidence_score": 0.9},
	  {"type": "", "content_id": "", "title": "Review basics", "reason": "Low scores recently.", "priority": 9, "confidence_score": 2.0},
	  {"title": ""}
	]`
	recs, err := ParseRecommendations(body, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].UserID != 42 {
		t.Errorf("user id not stamped: %d", recs[0].UserID)
	}
	if recs[1].Type != "lesson" {
		t.Errorf("empty type should default to lesson, got %q", recs[1].Type)
	}
	if recs[1].Priority != 3 {
		t.Errorf("out-of-range priority should clamp to 3, got %d", recs[1].Priority)
	}
	if recs[1].ConfidenceScore != 0.5 {
		t.Errorf("out-of-range confidence should clamp to 0.5, got %v", recs[1].ConfidenceScore)
	}
}

func TestParseLearningPath(t *testing.T) {
	body := `{"name": "Investing Fast Track", "description": "Six weeks to portfolio basics", "estimated_completion": 42, "milestones": [{"week": 1}]}`
	path, err := ParseLearningPath(body, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path.Name != "Investing Fast Track" {
		t.Errorf("name = %q", path.Name)
	}
	if path.EstimatedCompletion != 42 {
		t.Errorf("estimated_completion = %d, want 42", path.EstimatedCompletion)
	}
	if !path.IsActive {
		t.Error("new path should be active")
	}
	if _, ok := path.Path["milestones"]; !ok {
		t.Error("raw structure not preserved")
	}
}

func TestParseLearningPathRequiresName(t *testing.T) {
	if _, err := ParseLearningPath(`{"description": "no name"}`, 7); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockClientProducesParseableQuestions(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	questions, err := ParseQuestions(resp.Content, sampleRequest())
	if err != nil {
		t.Fatalf("mock output does not parse: %v", err)
	}
	if len(questions) == 0 {
		t.Error("mock output produced no questions")
	}
}
