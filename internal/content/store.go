package content

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/finlingo/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Topics ────────────────────────────────────────────────

func (s *Store) ListTopics() ([]models.Topic, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, COALESCE(icon, ''), COALESCE(color, ''),
		       sort_order, total_lessons, estimated_time, difficulty, category, created_at
		FROM topics
		ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Icon, &t.Color,
			&t.Order, &t.TotalLessons, &t.EstimatedTime, &t.Difficulty, &t.Category, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (s *Store) GetTopic(topicID string) (*models.Topic, error) {
	var t models.Topic
	err := s.db.QueryRow(`
		SELECT id, title, description, COALESCE(icon, ''), COALESCE(color, ''),
		       sort_order, total_lessons, estimated_time, difficulty, category, created_at
		FROM topics
		WHERE id = $1`,
		topicID,
	).Scan(
		&t.ID, &t.Title, &t.Description, &t.Icon, &t.Color,
		&t.Order, &t.TotalLessons, &t.EstimatedTime, &t.Difficulty, &t.Category, &t.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &t, nil
}

// ── Lessons ───────────────────────────────────────────────

func (s *Store) ListLessons(topicID string) ([]models.Lesson, error) {
	rows, err := s.db.Query(`
		SELECT id, topic_id, title, description, COALESCE(content, ''),
		       duration, xp_reward, sort_order, difficulty, lesson_type, created_at
		FROM lessons
		WHERE topic_id = $1
		ORDER BY sort_order, id`,
		topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(
			&l.ID, &l.TopicID, &l.Title, &l.Description, &l.Content,
			&l.Duration, &l.XPReward, &l.Order, &l.Difficulty, &l.LessonType, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (s *Store) GetLesson(lessonID string) (*models.Lesson, error) {
	var l models.Lesson
	err := s.db.QueryRow(`
		SELECT id, topic_id, title, description, COALESCE(content, ''),
		       duration, xp_reward, sort_order, difficulty, lesson_type, created_at
		FROM lessons
		WHERE id = $1`,
		lessonID,
	).Scan(
		&l.ID, &l.TopicID, &l.Title, &l.Description, &l.Content,
		&l.Duration, &l.XPReward, &l.Order, &l.Difficulty, &l.LessonType, &l.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return &l, nil
}

// ── Questions ─────────────────────────────────────────────

func (s *Store) ListQuestions(lessonID string) ([]models.Question, error) {
	rows, err := s.db.Query(`
		SELECT id, lesson_id, topic_id, question, type, options, correct_answer,
		       explanation, difficulty, xp_reward, hints, tags, is_ai_generated, created_at
		FROM questions
		WHERE lesson_id = $1
		ORDER BY created_at, id`,
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func scanQuestion(rows *sql.Rows) (*models.Question, error) {
	var q models.Question
	var options, hints, tags []byte
	if err := rows.Scan(
		&q.ID, &q.LessonID, &q.TopicID, &q.Question, &q.Type, &options, &q.CorrectAnswer,
		&q.Explanation, &q.Difficulty, &q.XPReward, &hints, &tags, &q.IsAIGenerated, &q.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{{options, &q.Options}, {hints, &q.Hints}, {tags, &q.Tags}} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return nil, fmt.Errorf("failed to decode question field: %w", err)
			}
		}
	}
	return &q, nil
}

// InsertQuestion stores a question, typically one produced by the AI
// generator.
func (s *Store) InsertQuestion(q models.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	hints, err := json.Marshal(q.Hints)
	if err != nil {
		return fmt.Errorf("failed to encode hints: %w", err)
	}
	tags, err := json.Marshal(q.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO questions (id, lesson_id, topic_id, question, type, options, correct_answer,
		                       explanation, difficulty, xp_reward, hints, tags, is_ai_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		q.ID, q.LessonID, q.TopicID, q.Question, q.Type, options, q.CorrectAnswer,
		q.Explanation, q.Difficulty, q.XPReward, hints, tags, q.IsAIGenerated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

// ── Progress ──────────────────────────────────────────────

// RecordCompletion upserts the progress row for a finished lesson. Attempts
// and time spent accumulate; the stored score is the latest one.
func (s *Store) RecordCompletion(userID int64, lessonID, topicID string, score, timeSpent int) error {
	_, err := s.db.Exec(`
		INSERT INTO user_progress (user_id, lesson_id, topic_id, status, progress_percentage, score, time_spent, attempts)
		VALUES ($1, $2, $3, 'completed', 100, $4, $5, 1)
		ON CONFLICT (user_id, lesson_id) DO UPDATE
		SET status = 'completed', progress_percentage = 100, score = EXCLUDED.score,
		    time_spent = user_progress.time_spent + EXCLUDED.time_spent,
		    attempts = user_progress.attempts + 1, last_accessed = NOW()`,
		userID, lessonID, topicID, score, timeSpent,
	)
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	return nil
}

func (s *Store) ListProgress(userID int64) ([]models.UserProgress, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, lesson_id, topic_id, status, progress_percentage,
		       COALESCE(score, 0), time_spent, attempts, last_accessed
		FROM user_progress
		WHERE user_id = $1
		ORDER BY last_accessed DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	defer rows.Close()

	progress := []models.UserProgress{}
	for rows.Next() {
		var p models.UserProgress
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.LessonID, &p.TopicID, &p.Status, &p.ProgressPercentage,
			&p.Score, &p.TimeSpent, &p.Attempts, &p.LastAccessed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// MarkLessonCompleted adds the lesson to the user's completed set. Returns
// true only on the first completion.
func (s *Store) MarkLessonCompleted(userID int64, lessonID string) (bool, error) {
	result, err := s.db.Exec(`
		INSERT INTO user_lessons (user_id, lesson_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		userID, lessonID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark lesson completed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark lesson completed: %w", err)
	}
	return n > 0, nil
}

// CompleteTopicIfDone inserts the topic into the user's completed set once
// every lesson in it is completed. Returns true when the topic flipped to
// completed in this call.
func (s *Store) CompleteTopicIfDone(userID int64, topicID string) (bool, error) {
	result, err := s.db.Exec(`
		INSERT INTO user_topics (user_id, topic_id)
		SELECT $1, $2
		WHERE (SELECT COUNT(*) FROM lessons WHERE topic_id = $2) > 0
		  AND (SELECT COUNT(*) FROM lessons WHERE topic_id = $2) =
		      (SELECT COUNT(*) FROM user_lessons ul
		       JOIN lessons l ON l.id = ul.lesson_id
		       WHERE ul.user_id = $1 AND l.topic_id = $2)
		ON CONFLICT (user_id, topic_id) DO NOTHING`,
		userID, topicID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete topic: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to complete topic: %w", err)
	}
	return n > 0, nil
}
