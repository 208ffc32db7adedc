package gamification

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finlingo/backend/internal/models"
)

// Store wraps all gamification persistence. Mutations that race (awards,
// streak updates, reward totals) are written as conditional or additive SQL
// so concurrent requests for the same user stay consistent without locks.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Profiles ──────────────────────────────────────────────

func (s *Store) CreateProfile(userID int64, username string) error {
	_, err := s.db.Exec(`
		INSERT INTO user_profiles (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, username,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	var displayName, avatarURL sql.NullString
	var lastActivity sql.NullTime

	err := s.db.QueryRow(`
		SELECT user_id, username, display_name, avatar_url,
		       total_xp, total_gems, current_streak, longest_streak,
		       hearts, max_hearts, level, is_premium, last_activity,
		       helpful_replies_total, discussions_started_total, challenges_won_total,
		       created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1`,
		userID,
	).Scan(
		&p.UserID, &p.Username, &displayName, &avatarURL,
		&p.TotalXP, &p.TotalGems, &p.CurrentStreak, &p.LongestStreak,
		&p.Hearts, &p.MaxHearts, &p.Level, &p.IsPremium, &lastActivity,
		&p.HelpfulRepliesTotal, &p.DiscussionsStartedTotal, &p.ChallengesWonTotal,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.DisplayName = displayName.String
	p.AvatarURL = avatarURL.String
	if lastActivity.Valid {
		p.LastActivity = lastActivity.Time
	}

	if p.LessonsCompleted, err = s.stringSet(`SELECT lesson_id FROM user_lessons WHERE user_id = $1 ORDER BY completed_at`, userID); err != nil {
		return nil, err
	}
	if p.TopicsCompleted, err = s.stringSet(`SELECT topic_id FROM user_topics WHERE user_id = $1 ORDER BY completed_at`, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT achievement_id FROM user_achievements WHERE user_id = $1 ORDER BY earned_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned achievements: %w", err)
	}
	defer rows.Close()
	p.Achievements = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement id: %w", err)
		}
		p.Achievements = append(p.Achievements, id)
	}
	return &p, rows.Err()
}

func (s *Store) stringSet(query string, userID int64) ([]string, error) {
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed set: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan completed set: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProfile(userID int64, req models.UpdateProfileRequest) error {
	result, err := s.db.Exec(`
		UPDATE user_profiles
		SET display_name = COALESCE($2, display_name),
		    avatar_url   = COALESCE($3, avatar_url),
		    updated_at   = NOW()
		WHERE user_id = $1`,
		userID, req.DisplayName, req.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetProfileStats loads the evaluator's snapshot in two queries: the counter
// row plus the completed-set memberships.
func (s *Store) GetProfileStats(userID int64) (*models.ProfileStats, error) {
	stats := models.ProfileStats{UserID: userID, TopicsCompleted: map[string]bool{}}

	err := s.db.QueryRow(`
		SELECT p.total_xp, p.current_streak,
		       p.helpful_replies_total, p.discussions_started_total, p.challenges_won_total,
		       (SELECT COUNT(*) FROM user_lessons l WHERE l.user_id = p.user_id)
		FROM user_profiles p
		WHERE p.user_id = $1`,
		userID,
	).Scan(
		&stats.TotalXP, &stats.CurrentStreak,
		&stats.HelpfulRepliesTotal, &stats.DiscussionsStartedTotal, &stats.ChallengesWonTotal,
		&stats.LessonsCompleted,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile stats: %w", err)
	}

	rows, err := s.db.Query(`SELECT topic_id FROM user_topics WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completed topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var topicID string
		if err := rows.Scan(&topicID); err != nil {
			return nil, fmt.Errorf("failed to scan topic id: %w", err)
		}
		stats.TopicsCompleted[topicID] = true
	}
	return &stats, rows.Err()
}

// ── Achievement Catalog ───────────────────────────────────

// SeedCatalog upserts the default definitions keyed on name. Descriptions,
// requirements and rewards follow the code; earned rows are untouched.
func (s *Store) SeedCatalog(defs []models.AchievementDef) error {
	for _, def := range defs {
		req, err := json.Marshal(def.Requirement)
		if err != nil {
			return fmt.Errorf("failed to encode requirement for %q: %w", def.Name, err)
		}
		_, err = s.db.Exec(`
			INSERT INTO achievement_defs (name, description, icon, kind, requirement, reward_xp, reward_gems, rarity, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description,
			    icon        = EXCLUDED.icon,
			    kind        = EXCLUDED.kind,
			    requirement = EXCLUDED.requirement,
			    reward_xp   = EXCLUDED.reward_xp,
			    reward_gems = EXCLUDED.reward_gems,
			    rarity      = EXCLUDED.rarity,
			    is_active   = TRUE`,
			def.Name, def.Description, def.Icon, def.Kind, req, def.RewardXP, def.RewardGems, def.Rarity,
		)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", def.Name, err)
		}
	}
	return nil
}

func (s *Store) ActiveDefinitions() ([]models.AchievementDef, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, icon, kind, requirement, reward_xp, reward_gems, rarity, is_active, created_at
		FROM achievement_defs
		WHERE is_active = TRUE
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement definitions: %w", err)
	}
	defer rows.Close()
	return scanDefinitions(rows)
}

func scanDefinitions(rows *sql.Rows) ([]models.AchievementDef, error) {
	defs := []models.AchievementDef{}
	for rows.Next() {
		var def models.AchievementDef
		var req []byte
		if err := rows.Scan(
			&def.ID, &def.Name, &def.Description, &def.Icon, &def.Kind,
			&req, &def.RewardXP, &def.RewardGems, &def.Rarity, &def.IsActive, &def.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement definition: %w", err)
		}
		if err := json.Unmarshal(req, &def.Requirement); err != nil {
			return nil, fmt.Errorf("failed to decode requirement for %q: %w", def.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// ── Awards ────────────────────────────────────────────────

func (s *Store) EarnedIDs(userID int64) (map[int64]bool, error) {
	rows, err := s.db.Query(`SELECT achievement_id FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned achievement ids: %w", err)
	}
	defer rows.Close()

	earned := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement id: %w", err)
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

// AwardAchievement inserts the earned row and credits the reward in one
// transaction. The unique constraint on (user_id, achievement_id) makes
// concurrent awards collapse to one winner; only the request that actually
// inserted applies the reward, and the returned bool is true only for it.
func (s *Store) AwardAchievement(userID, achievementID, rewardXP, rewardGems int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin award transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to award achievement: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to award achievement: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`
		UPDATE user_profiles
		SET total_xp   = total_xp + $2,
		    total_gems = total_gems + $3,
		    updated_at = NOW()
		WHERE user_id = $1`,
		userID, rewardXP, rewardGems,
	); err != nil {
		return false, fmt.Errorf("failed to apply reward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit award: %w", err)
	}
	return true, nil
}

func (s *Store) ListEarned(userID int64) ([]models.EarnedAchievement, error) {
	rows, err := s.db.Query(`
		SELECT d.id, d.name, d.description, d.icon, d.kind, d.requirement,
		       d.reward_xp, d.reward_gems, d.rarity, d.is_active, d.created_at,
		       ua.earned_at
		FROM user_achievements ua
		JOIN achievement_defs d ON d.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.earned_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned achievements: %w", err)
	}
	defer rows.Close()

	earned := []models.EarnedAchievement{}
	for rows.Next() {
		var ea models.EarnedAchievement
		var req []byte
		if err := rows.Scan(
			&ea.ID, &ea.Name, &ea.Description, &ea.Icon, &ea.Kind, &req,
			&ea.RewardXP, &ea.RewardGems, &ea.Rarity, &ea.IsActive, &ea.CreatedAt,
			&ea.EarnedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan earned achievement: %w", err)
		}
		if err := json.Unmarshal(req, &ea.Requirement); err != nil {
			return nil, fmt.Errorf("failed to decode requirement for %q: %w", ea.Name, err)
		}
		earned = append(earned, ea)
	}
	return earned, rows.Err()
}

// ── Streaks ───────────────────────────────────────────────

func (s *Store) GetStreak(userID int64) (*models.StreakState, error) {
	var st models.StreakState
	err := s.db.QueryRow(`
		SELECT user_id, current_streak, longest_streak, last_activity_date
		FROM streaks
		WHERE user_id = $1`,
		userID,
	).Scan(&st.UserID, &st.CurrentStreak, &st.LongestStreak, &st.LastActivityDate)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	st.LastActivityDate = dateOnly(st.LastActivityDate)
	return &st, nil
}

// CreateStreak starts a fresh 1/1 streak for today. Returns false when a
// concurrent request created the row first.
func (s *Store) CreateStreak(userID int64, day time.Time) (bool, error) {
	result, err := s.db.Exec(`
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_activity_date)
		VALUES ($1, 1, 1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, day,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create streak: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create streak: %w", err)
	}
	return n > 0, nil
}

// UpdateStreakIfUnchanged writes next only if last_activity_date still equals
// the value the caller read. A false return means another request advanced
// the streak in between and the caller should re-read.
func (s *Store) UpdateStreakIfUnchanged(userID int64, prevDate time.Time, next models.StreakState) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE streaks
		SET current_streak = $3, longest_streak = $4, last_activity_date = $5, updated_at = NOW()
		WHERE user_id = $1 AND last_activity_date = $2`,
		userID, prevDate, next.CurrentStreak, next.LongestStreak, next.LastActivityDate,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update streak: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update streak: %w", err)
	}
	return n > 0, nil
}

// SyncProfileStreak mirrors streak counters onto the profile row for reads
// that only load the profile.
func (s *Store) SyncProfileStreak(userID int64, current, longest int) error {
	_, err := s.db.Exec(`
		UPDATE user_profiles
		SET current_streak = $2,
		    longest_streak = GREATEST(longest_streak, $3),
		    updated_at     = NOW()
		WHERE user_id = $1`,
		userID, current, longest,
	)
	if err != nil {
		return fmt.Errorf("failed to sync profile streak: %w", err)
	}
	return nil
}

func (s *Store) ProfileExists(userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return exists, nil
}

// ── Activity Log ──────────────────────────────────────────

// RecordActivity appends one log row and folds its XP and gems into the
// profile totals in a single transaction.
func (s *Store) RecordActivity(a models.UserActivity) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode activity metadata: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin activity transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO user_activities (user_id, activity_type, content_id, xp_earned, gems_earned, metadata)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)`,
		a.UserID, a.ActivityType, a.ContentID, a.XPEarned, a.GemsEarned, metadata,
	); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE user_profiles
		SET total_xp      = total_xp + $2,
		    total_gems    = total_gems + $3,
		    last_activity = NOW(),
		    updated_at    = NOW()
		WHERE user_id = $1`,
		a.UserID, a.XPEarned, a.GemsEarned,
	); err != nil {
		return fmt.Errorf("failed to update profile totals: %w", err)
	}

	return tx.Commit()
}

func (s *Store) RecentActivities(userID int64, limit int) ([]models.UserActivity, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, activity_type, COALESCE(content_id, ''), xp_earned, gems_earned, metadata, created_at
		FROM user_activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activities: %w", err)
	}
	defer rows.Close()

	activities := []models.UserActivity{}
	for rows.Next() {
		var a models.UserActivity
		var metadata []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityType, &a.ContentID, &a.XPEarned, &a.GemsEarned, &metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode activity metadata: %w", err)
			}
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ── Leaderboards ──────────────────────────────────────────

func (s *Store) GlobalLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(`
		SELECT user_id, username, COALESCE(display_name, ''), COALESCE(avatar_url, ''), total_xp
		FROM user_profiles
		ORDER BY total_xp DESC, user_id ASC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get global leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboard(rows)
}

func (s *Store) WindowedLeaderboard(start time.Time, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(`
		SELECT p.user_id, p.username, COALESCE(p.display_name, ''), COALESCE(p.avatar_url, ''),
		       COALESCE(SUM(a.xp_earned), 0) AS window_xp
		FROM user_activities a
		JOIN user_profiles p ON p.user_id = a.user_id
		WHERE a.created_at >= $1
		GROUP BY p.user_id, p.username, p.display_name, p.avatar_url
		ORDER BY window_xp DESC, p.user_id ASC
		LIMIT $2`,
		start, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get windowed leaderboard: %w", err)
	}
	defer rows.Close()
	return scanLeaderboard(rows)
}

func scanLeaderboard(rows *sql.Rows) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.DisplayName, &e.AvatarURL, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
