package models

import "time"

// AIRecommendation is one coaching suggestion produced for a user from their
// recent progress.
type AIRecommendation struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Type            string    `json:"type"`
	ContentID       string    `json:"content_id,omitempty"`
	Title           string    `json:"title"`
	Reason          string    `json:"reason"`
	Priority        int       `json:"priority"`
	ConfidenceScore float64   `json:"confidence_score"`
	IsViewed        bool      `json:"is_viewed"`
	IsAccepted      bool      `json:"is_accepted"`
	CreatedAt       time.Time `json:"created_at"`
}

// LearningPath is a generated study plan. Path holds the model's structure
// verbatim; the backend only tracks activation and progress.
type LearningPath struct {
	ID                  int64          `json:"id"`
	UserID              int64          `json:"user_id"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	Path                map[string]any `json:"path"`
	EstimatedCompletion int            `json:"estimated_completion"`
	IsActive            bool           `json:"is_active"`
	Progress            float64        `json:"progress"`
	CreatedAt           time.Time      `json:"created_at"`
}
