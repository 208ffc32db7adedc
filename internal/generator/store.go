package generator

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/finlingo/backend/internal/models"
)

// Store persists generated recommendations and learning paths.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertRecommendations(recs []models.AIRecommendation) error {
	for i := range recs {
		err := s.db.QueryRow(`
			INSERT INTO ai_recommendations (user_id, type, content_id, title, reason, priority, confidence_score)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
			RETURNING id, created_at`,
			recs[i].UserID, recs[i].Type, recs[i].ContentID, recs[i].Title,
			recs[i].Reason, recs[i].Priority, recs[i].ConfidenceScore,
		).Scan(&recs[i].ID, &recs[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}
	return nil
}

func (s *Store) ListRecommendations(userID int64, limit int) ([]models.AIRecommendation, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, type, COALESCE(content_id, ''), COALESCE(title, ''), COALESCE(reason, ''),
		       priority, confidence_score, is_viewed, is_accepted, created_at
		FROM ai_recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC, priority DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	defer rows.Close()

	recs := []models.AIRecommendation{}
	for rows.Next() {
		var r models.AIRecommendation
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Type, &r.ContentID, &r.Title, &r.Reason,
			&r.Priority, &r.ConfidenceScore, &r.IsViewed, &r.IsAccepted, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *Store) MarkRecommendationViewed(userID, recommendationID int64) error {
	result, err := s.db.Exec(`
		UPDATE ai_recommendations SET is_viewed = TRUE
		WHERE id = $1 AND user_id = $2`,
		recommendationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark recommendation viewed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark recommendation viewed: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SaveLearningPath stores a new path and deactivates any previous active one
// so a user has at most one active path.
func (s *Store) SaveLearningPath(path *models.LearningPath) error {
	pathJSON, err := json.Marshal(path.Path)
	if err != nil {
		return fmt.Errorf("failed to encode learning path: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin learning path transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE learning_paths SET is_active = FALSE WHERE user_id = $1 AND is_active`, path.UserID); err != nil {
		return fmt.Errorf("failed to deactivate learning paths: %w", err)
	}

	err = tx.QueryRow(`
		INSERT INTO learning_paths (user_id, name, description, path, estimated_completion, is_active, progress)
		VALUES ($1, $2, $3, $4, $5, TRUE, 0)
		RETURNING id, created_at`,
		path.UserID, path.Name, path.Description, pathJSON, path.EstimatedCompletion,
	).Scan(&path.ID, &path.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert learning path: %w", err)
	}

	return tx.Commit()
}

func (s *Store) ActiveLearningPath(userID int64) (*models.LearningPath, error) {
	var p models.LearningPath
	var pathJSON []byte
	err := s.db.QueryRow(`
		SELECT id, user_id, name, description, path, estimated_completion, is_active, progress, created_at
		FROM learning_paths
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC
		LIMIT 1`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &pathJSON, &p.EstimatedCompletion, &p.IsActive, &p.Progress, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning path: %w", err)
	}
	if err := json.Unmarshal(pathJSON, &p.Path); err != nil {
		return nil, fmt.Errorf("failed to decode learning path: %w", err)
	}
	return &p, nil
}
