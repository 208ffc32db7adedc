package content

import (
	"fmt"
	"log"

	"github.com/finlingo/backend/internal/gamification"
	"github.com/finlingo/backend/internal/models"
)

// Service serves the course catalog and drives the lesson completion flow,
// handing rewards off to the gamification service.
type Service struct {
	store *Store
	game  *gamification.Service
}

func NewService(store *Store, game *gamification.Service) *Service {
	return &Service{store: store, game: game}
}

func (s *Service) ListTopics() ([]models.Topic, error) {
	return s.store.ListTopics()
}

func (s *Service) TopicLessons(topicID string) ([]models.Lesson, error) {
	if _, err := s.store.GetTopic(topicID); err != nil {
		return nil, err
	}
	return s.store.ListLessons(topicID)
}

func (s *Service) LessonQuestions(lessonID string) ([]models.Question, error) {
	if _, err := s.store.GetLesson(lessonID); err != nil {
		return nil, err
	}
	return s.store.ListQuestions(lessonID)
}

func (s *Service) ListProgress(userID int64) ([]models.UserProgress, error) {
	return s.store.ListProgress(userID)
}

// CompleteLesson grades a submission and applies every downstream effect:
// progress, the completed-lesson set, XP and gems, the activity log, the
// streak, topic completion, and achievement evaluation. Repeat completions
// earn rewards again but never re-enter the completed set.
func (s *Service) CompleteLesson(userID int64, lessonID string, req models.LessonCompletionRequest) (*models.LessonCompleteResponse, error) {
	lesson, err := s.store.GetLesson(lessonID)
	if err != nil {
		return nil, fmt.Errorf("complete lesson: %w", err)
	}

	total := len(req.QuestionResponses)
	if total == 0 {
		return nil, fmt.Errorf("%w: question_responses is required", models.ErrInvalidArgument)
	}

	correct := countCorrect(req.QuestionResponses)
	score := lessonScore(correct, total)
	xp := xpForScore(lesson.XPReward, score)
	gems := gemsForXP(xp)

	if err := s.store.RecordCompletion(userID, lesson.ID, lesson.TopicID, score, req.TotalTime); err != nil {
		return nil, err
	}

	firstTime, err := s.store.MarkLessonCompleted(userID, lesson.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.game.RecordActivity(models.UserActivity{
		UserID:       userID,
		ActivityType: "lesson_completed",
		ContentID:    lesson.ID,
		XPEarned:     xp,
		GemsEarned:   gems,
		Metadata: map[string]any{
			"score":      score,
			"topic_id":   lesson.TopicID,
			"first_time": firstTime,
		},
	}); err != nil {
		return nil, err
	}

	if _, err := s.store.CompleteTopicIfDone(userID, lesson.TopicID); err != nil {
		return nil, err
	}

	newly, err := s.game.Evaluate(userID, models.ActivityEvent{LessonScore: score})
	if err != nil {
		return nil, err
	}

	log.Printf("[content] user %d completed lesson %s: score=%d xp=%d gems=%d new_achievements=%d",
		userID, lesson.ID, score, xp, gems, len(newly))

	return &models.LessonCompleteResponse{
		Score:           score,
		XPEarned:        xp,
		GemsEarned:      gems,
		NewAchievements: newly,
	}, nil
}
