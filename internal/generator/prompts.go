package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finlingo/backend/internal/models"
)

// topicContexts maps topic ids to the subject framing given to the model.
// Unknown topics fall back to general personal finance.
var topicContexts = map[string]string{
	"basics":    "Personal Finance Fundamentals - budgeting, income, expenses, assets, liabilities, net worth",
	"budgeting": "Budgeting and Money Management - creating budgets, tracking expenses, budget categories",
	"saving":    "Saving Strategies - emergency funds, savings goals, high-yield accounts, compound interest",
	"investing": "Investment Basics - stocks, bonds, mutual funds, ETFs, risk management, portfolio diversification",
	"credit":    "Credit and Debt Management - credit scores, credit cards, loans, debt payoff strategies",
	"taxes":     "Tax Planning and Preparation - tax basics, deductions, tax-advantaged accounts",
}

const defaultTopicContext = "General personal finance"

var questionTypeInstructions = map[models.QuestionType]string{
	models.QuestionMultipleChoice: "Create multiple choice questions with 4 options, one correct answer",
	models.QuestionFillBlank:      "Create fill-in-the-blank questions with single word or short phrase answers",
	models.QuestionTrueFalse:      "Create true/false questions with detailed explanations",
	models.QuestionScenario:       "Create scenario-based questions with real-world financial situations",
	models.QuestionCalculation:    "Create calculation questions involving financial math",
}

// TopicContext resolves the prompt framing for a topic id.
func TopicContext(topicID string) string {
	if ctx, ok := topicContexts[topicID]; ok {
		return ctx
	}
	return defaultTopicContext
}

func QuestionSystemPrompt() string {
	return `You are an expert financial education content creator. Your task is to generate high-quality, educational questions that help users learn personal finance concepts effectively.

Guidelines:
1. Questions should be practical and relevant to real-world financial situations
2. Provide clear, accurate explanations that teach concepts
3. Use appropriate difficulty levels (1=beginner, 5=advanced)
4. Include helpful hints when appropriate
5. Make questions engaging and scenario-based when possible
6. Ensure all financial information is accurate and up-to-date

Return responses in valid JSON format only.`
}

// BuildQuestionPrompt assembles the user prompt for a generation request.
func BuildQuestionPrompt(req models.AIQuestionRequest) string {
	instruction, ok := questionTypeInstructions[req.QuestionType]
	if !ok {
		instruction = "Standard questions"
	}
	lessonContext := req.Context
	if lessonContext == "" {
		lessonContext = "General lesson content"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d %s questions for the topic %q.\n\n", req.Count, req.QuestionType, TopicContext(req.TopicID))
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Difficulty level: %d/5\n", req.Difficulty)
	fmt.Fprintf(&b, "- Question type: %s\n", instruction)
	fmt.Fprintf(&b, "- Context: %s\n\n", lessonContext)
	fmt.Fprintf(&b, "For each question, provide:\n")
	fmt.Fprintf(&b, "1. question: The main question text\n")
	fmt.Fprintf(&b, "2. type: %q\n", req.QuestionType)
	fmt.Fprintf(&b, "3. options: Array of 4 options (for multiple choice only)\n")
	fmt.Fprintf(&b, "4. correct_answer: The correct answer\n")
	fmt.Fprintf(&b, "5. explanation: Detailed explanation (2-3 sentences)\n")
	fmt.Fprintf(&b, "6. hints: Array of 1-2 helpful hints\n")
	fmt.Fprintf(&b, "7. difficulty: %d\n", req.Difficulty)
	fmt.Fprintf(&b, "8. tags: Array of relevant keywords\n\n")
	fmt.Fprintf(&b, "Return as JSON array of question objects.")
	return b.String()
}

func RecommendationSystemPrompt() string {
	return `You are an AI learning coach specializing in personalized financial education. Analyze user progress and learning patterns to provide tailored recommendations that optimize their learning journey.

Consider:
1. User's current skill level and progress
2. Learning patterns and preferences
3. Areas that need improvement
4. Optimal learning pace and difficulty progression
5. Motivation and engagement factors

Provide actionable, personalized recommendations.`
}

// BuildRecommendationPrompt serializes the user's profile and recent history
// into the analysis prompt.
func BuildRecommendationPrompt(profile *models.UserProfile, history []models.UserActivity) string {
	progressJSON, _ := json.Marshal(map[string]any{
		"total_xp":          profile.TotalXP,
		"current_streak":    profile.CurrentStreak,
		"level":             profile.Level,
		"lessons_completed": profile.LessonsCompleted,
		"topics_completed":  profile.TopicsCompleted,
	})
	if len(history) > 10 {
		history = history[:10]
	}
	historyJSON, _ := json.Marshal(history)

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this user's learning data and provide personalized recommendations:\n\n")
	fmt.Fprintf(&b, "User Progress: %s\n", progressJSON)
	fmt.Fprintf(&b, "Learning History: %s\n\n", historyJSON)
	fmt.Fprintf(&b, "Provide 5-8 recommendations in the following categories:\n")
	fmt.Fprintf(&b, "1. Next lessons to focus on\n2. Topics to review\n3. Practice exercises\n4. Challenge opportunities\n5. Community engagement\n\n")
	fmt.Fprintf(&b, "For each recommendation, provide:\n")
	fmt.Fprintf(&b, "- type: \"lesson\", \"topic\", \"practice\", \"review\", \"challenge\", or \"community\"\n")
	fmt.Fprintf(&b, "- content_id: relevant ID\n")
	fmt.Fprintf(&b, "- title: recommendation title\n")
	fmt.Fprintf(&b, "- reason: why this is recommended (1-2 sentences)\n")
	fmt.Fprintf(&b, "- priority: 1-5 (5 = highest priority)\n")
	fmt.Fprintf(&b, "- confidence_score: 0.0-1.0\n\n")
	fmt.Fprintf(&b, "Return as JSON array.")
	return b.String()
}

func LearningPathSystemPrompt() string {
	return `You are an expert curriculum designer for financial education. Create personalized learning paths that efficiently guide users toward their financial literacy goals while respecting their time constraints and current knowledge level.`
}

func BuildLearningPathPrompt(goals []string, currentLevel, availableTime int) string {
	goalsJSON, _ := json.Marshal(goals)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a personalized learning path for:\n\n")
	fmt.Fprintf(&b, "Goals: %s\n", goalsJSON)
	fmt.Fprintf(&b, "Current Level: %d/5\n", currentLevel)
	fmt.Fprintf(&b, "Available Time: %d minutes per day\n\n", availableTime)
	fmt.Fprintf(&b, "Design a learning path that includes:\n")
	fmt.Fprintf(&b, "1. Recommended sequence of topics and lessons\n")
	fmt.Fprintf(&b, "2. Estimated timeline for completion\n")
	fmt.Fprintf(&b, "3. Difficulty progression strategy\n")
	fmt.Fprintf(&b, "4. Checkpoint assessments\n")
	fmt.Fprintf(&b, "5. Practice opportunities\n\n")
	fmt.Fprintf(&b, "Provide the path structure with:\n")
	fmt.Fprintf(&b, "- name: descriptive path name\n")
	fmt.Fprintf(&b, "- description: overview of the path\n")
	fmt.Fprintf(&b, "- estimated_completion: days to complete\n")
	fmt.Fprintf(&b, "- recommended_lessons: array of lesson objects with order, priority, and rationale\n")
	fmt.Fprintf(&b, "- milestones: key checkpoints with goals\n")
	fmt.Fprintf(&b, "- difficulty_adjustment: factor for personalizing question difficulty\n\n")
	fmt.Fprintf(&b, "Return as JSON object.")
	return b.String()
}
