package generator

import (
	"context"
	"fmt"
	"log"

	"github.com/finlingo/backend/internal/content"
	"github.com/finlingo/backend/internal/gamification"
	"github.com/finlingo/backend/internal/models"
)

// Service drives AI content generation. LLM failures in the coaching flows
// degrade to empty results at this boundary: a broken model call should never
// fail a user-facing request that can render without it. Question generation
// is the exception, since the caller asked for the content itself.
type Service struct {
	gen       *Generator
	store     *Store
	questions *content.Store
	game      *gamification.Service
}

func NewService(gen *Generator, store *Store, questions *content.Store, game *gamification.Service) *Service {
	return &Service{gen: gen, store: store, questions: questions, game: game}
}

// GenerateQuestions produces and persists AI questions for a topic or lesson.
func (s *Service) GenerateQuestions(ctx context.Context, req models.AIQuestionRequest) ([]models.Question, error) {
	if req.TopicID == "" {
		return nil, fmt.Errorf("%w: topic_id is required", models.ErrInvalidArgument)
	}
	if !models.ValidQuestionTypes[req.QuestionType] {
		return nil, fmt.Errorf("%w: unknown question type %q", models.ErrInvalidArgument, req.QuestionType)
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	if req.Count > 10 {
		req.Count = 10
	}
	if req.Difficulty < 1 {
		req.Difficulty = 1
	}
	if req.Difficulty > 5 {
		req.Difficulty = 5
	}

	resp, err := s.gen.llm.Generate(ctx, QuestionSystemPrompt(), BuildQuestionPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions, err := ParseQuestions(resp.Content, req)
	if err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}

	for _, q := range questions {
		if err := s.questions.InsertQuestion(q); err != nil {
			return nil, err
		}
	}

	log.Printf("[generator] generated %d questions for topic %s (tokens: %d in, %d out)",
		len(questions), req.TopicID, resp.PromptTokens, resp.OutputTokens)
	return questions, nil
}

// Recommendations returns coaching suggestions built from the user's profile
// and recent activity. On any model failure it logs and returns the empty
// list.
func (s *Service) Recommendations(ctx context.Context, userID int64) ([]models.AIRecommendation, error) {
	profile, err := s.game.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	history, err := s.game.RecentActivities(userID, 10)
	if err != nil {
		return nil, err
	}

	resp, err := s.gen.llm.Generate(ctx, RecommendationSystemPrompt(), BuildRecommendationPrompt(profile, history))
	if err != nil {
		log.Printf("[generator] recommendations for user %d failed: %v", userID, err)
		return []models.AIRecommendation{}, nil
	}

	recs, err := ParseRecommendations(resp.Content, userID)
	if err != nil {
		log.Printf("[generator] recommendations for user %d unparseable: %v", userID, err)
		return []models.AIRecommendation{}, nil
	}

	if err := s.store.InsertRecommendations(recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Service) StoredRecommendations(userID int64, limit int) ([]models.AIRecommendation, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.store.ListRecommendations(userID, limit)
}

func (s *Service) MarkRecommendationViewed(userID, recommendationID int64) error {
	return s.store.MarkRecommendationViewed(userID, recommendationID)
}

// LearningPath generates and activates a personalized study plan.
func (s *Service) LearningPath(ctx context.Context, userID int64, req models.LearningPathRequest) (*models.LearningPath, error) {
	if len(req.Goals) == 0 {
		return nil, fmt.Errorf("%w: goals are required", models.ErrInvalidArgument)
	}
	if req.AvailableTime <= 0 {
		req.AvailableTime = 15
	}

	profile, err := s.game.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.gen.llm.Generate(ctx, LearningPathSystemPrompt(), BuildLearningPathPrompt(req.Goals, profile.Level, req.AvailableTime))
	if err != nil {
		return nil, fmt.Errorf("generate learning path: %w", err)
	}

	path, err := ParseLearningPath(resp.Content, userID)
	if err != nil {
		return nil, fmt.Errorf("parse learning path: %w", err)
	}

	if err := s.store.SaveLearningPath(path); err != nil {
		return nil, err
	}
	return path, nil
}

func (s *Service) ActiveLearningPath(userID int64) (*models.LearningPath, error) {
	return s.store.ActiveLearningPath(userID)
}
