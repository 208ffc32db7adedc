package models

import "time"

// UserProfile is the per-user learning state. Accumulated fields (XP, gems,
// completed sets, community counters) only ever grow via additive increments
// or set-union inserts, never full overwrites.
type UserProfile struct {
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	TotalXP       int64     `json:"total_xp"`
	TotalGems     int64     `json:"total_gems"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	Hearts        int       `json:"hearts"`
	MaxHearts     int       `json:"max_hearts"`
	Level         int       `json:"level"`
	IsPremium     bool      `json:"is_premium"`
	LastActivity  time.Time `json:"last_activity"`

	// Authoritative running counters for community and challenge
	// achievements, incremented by their owning services.
	HelpfulRepliesTotal     int `json:"helpful_replies_total"`
	DiscussionsStartedTotal int `json:"discussions_started_total"`
	ChallengesWonTotal      int `json:"challenges_won_total"`

	LessonsCompleted []string `json:"lessons_completed"`
	TopicsCompleted  []string `json:"topics_completed"`
	Achievements     []int64  `json:"achievements"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// ProfileStats is the snapshot the achievement evaluator reads: cumulative
// counters plus the completed-set sizes and membership it needs to test
// requirements without loading full entity lists.
type ProfileStats struct {
	UserID                  int64
	TotalXP                 int64
	CurrentStreak           int
	LessonsCompleted        int
	TopicsCompleted         map[string]bool
	HelpfulRepliesTotal     int
	DiscussionsStartedTotal int
	ChallengesWonTotal      int
}
