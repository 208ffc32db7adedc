package models

import "time"

// ── Achievement Catalog ───────────────────────────────────

// AchievementKind is the closed set of achievement categories. Requirement
// evaluation switches exhaustively over these; an unrecognized kind is an
// error, never a silent "not earned".
type AchievementKind string

const (
	KindStreak    AchievementKind = "streak"
	KindLessons   AchievementKind = "lessons"
	KindXP        AchievementKind = "xp"
	KindTopics    AchievementKind = "topics"
	KindCommunity AchievementKind = "community"
	KindSpecial   AchievementKind = "special"
)

// Requirement is the typed payload behind an achievement definition. Only
// the fields for the definition's Kind are meaningful; the rest stay zero.
type Requirement struct {
	StreakDays         int      `json:"streak_days,omitempty"`
	LessonsCompleted   int      `json:"lessons_completed,omitempty"`
	TotalXP            int64    `json:"total_xp,omitempty"`
	Topics             []string `json:"topics_completed,omitempty"`
	HelpfulReplies     int      `json:"helpful_replies,omitempty"`
	DiscussionsStarted int      `json:"discussions_started,omitempty"`
	PerfectLesson      bool     `json:"perfect_lesson,omitempty"`
	ChallengesWon      int      `json:"challenges_won,omitempty"`
}

// AchievementDef is a static catalog entry. The catalog is seeded once at
// bootstrap and treated as read-mostly reference data.
type AchievementDef struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Kind        AchievementKind `json:"type"`
	Requirement Requirement     `json:"requirement"`
	RewardXP    int64           `json:"reward_xp"`
	RewardGems  int64           `json:"reward_gems"`
	Rarity      string          `json:"rarity"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UserAchievement records that a user earned a definition. At most one row
// exists per (user, achievement) pair; awards are never repeated or revoked.
type UserAchievement struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	AchievementID int64     `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// EarnedAchievement is a catalog entry joined with its earn timestamp.
type EarnedAchievement struct {
	AchievementDef
	EarnedAt time.Time `json:"earned_at"`
}

// ── Streaks ───────────────────────────────────────────────

// StreakState is a user's daily-activity streak. LastActivityDate carries
// date granularity only (UTC midnight). Invariant: Longest >= Current.
type StreakState struct {
	UserID           int64     `json:"user_id"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	LastActivityDate time.Time `json:"last_activity_date"`
}

// ── Activity Log ──────────────────────────────────────────

// UserActivity is one row of the append-only activity log. It is the source
// of truth for windowed leaderboard aggregation and is never mutated.
type UserActivity struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	ContentID    string         `json:"content_id,omitempty"`
	XPEarned     int64          `json:"xp_earned"`
	GemsEarned   int64          `json:"gems_earned"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ActivityEvent carries event-scoped values the evaluator cannot derive from
// the profile, such as the score of the lesson that triggered evaluation.
type ActivityEvent struct {
	LessonScore int `json:"lesson_score,omitempty"`
}

// ── Leaderboards ──────────────────────────────────────────

type LeaderboardKind string

const (
	LeaderboardGlobal  LeaderboardKind = "global"
	LeaderboardWeekly  LeaderboardKind = "weekly"
	LeaderboardMonthly LeaderboardKind = "monthly"
)

// LeaderboardEntry is computed on demand and never persisted.
type LeaderboardEntry struct {
	Rank        int             `json:"rank"`
	UserID      int64           `json:"user_id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name,omitempty"`
	AvatarURL   string          `json:"avatar_url,omitempty"`
	Score       int64           `json:"score"`
	Kind        LeaderboardKind `json:"leaderboard_type"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	TopicID     string          `json:"topic_id,omitempty"`
}

// ── Responses ─────────────────────────────────────────────

type LeaderboardResponse struct {
	Kind    LeaderboardKind    `json:"type"`
	Entries []LeaderboardEntry `json:"leaderboard"`
}

type LessonCompleteResponse struct {
	Score           int              `json:"score"`
	XPEarned        int64            `json:"xp_earned"`
	GemsEarned      int64            `json:"gems_earned"`
	NewAchievements []AchievementDef `json:"new_achievements"`
}
