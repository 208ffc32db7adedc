package gamification

import (
	"errors"
	"fmt"
	"time"

	"github.com/finlingo/backend/internal/models"
)

// Storage is the persistence surface the service needs. *Store implements it
// against Postgres; tests substitute an in-memory fake.
type Storage interface {
	GetProfile(userID int64) (*models.UserProfile, error)
	UpdateProfile(userID int64, req models.UpdateProfileRequest) error
	GetProfileStats(userID int64) (*models.ProfileStats, error)
	ProfileExists(userID int64) (bool, error)

	SeedCatalog(defs []models.AchievementDef) error
	ActiveDefinitions() ([]models.AchievementDef, error)
	EarnedIDs(userID int64) (map[int64]bool, error)
	AwardAchievement(userID, achievementID, rewardXP, rewardGems int64) (bool, error)
	ListEarned(userID int64) ([]models.EarnedAchievement, error)

	GetStreak(userID int64) (*models.StreakState, error)
	CreateStreak(userID int64, day time.Time) (bool, error)
	UpdateStreakIfUnchanged(userID int64, prevDate time.Time, next models.StreakState) (bool, error)
	SyncProfileStreak(userID int64, current, longest int) error

	RecordActivity(a models.UserActivity) error
	RecentActivities(userID int64, limit int) ([]models.UserActivity, error)

	GlobalLeaderboard(limit int) ([]models.LeaderboardEntry, error)
	WindowedLeaderboard(start time.Time, limit int) ([]models.LeaderboardEntry, error)
}

// Service owns streaks, achievements, activity recording and leaderboards.
// Other packages (content, community) call into it after their own writes so
// every reward flows through one place.
type Service struct {
	store Storage
	now   func() time.Time
}

func NewService(store Storage) *Service {
	return &Service{store: store, now: time.Now}
}

// SeedCatalog installs the built-in achievement definitions. Called once at
// startup, before the server accepts traffic.
func (s *Service) SeedCatalog() error {
	return s.store.SeedCatalog(DefaultCatalog)
}

// ── Profiles ──────────────────────────────────────────────

func (s *Service) GetProfile(userID int64) (*models.UserProfile, error) {
	return s.store.GetProfile(userID)
}

func (s *Service) UpdateProfile(userID int64, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := s.store.UpdateProfile(userID, req); err != nil {
		return nil, err
	}
	return s.store.GetProfile(userID)
}

// ── Streaks ───────────────────────────────────────────────

// TouchStreak advances the user's daily streak for activity happening now.
// Concurrent touches race through conditional writes: the insert and the
// compare-and-swap update both no-op when another request got there first,
// in which case we re-read and retry. Touching twice on the same day is a
// no-op by construction.
func (s *Service) TouchStreak(userID int64) (*models.StreakState, error) {
	exists, err := s.store.ProfileExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("touch streak: %w", models.ErrNotFound)
	}

	for attempt := 0; attempt < 3; attempt++ {
		now := s.now()

		st, err := s.store.GetStreak(userID)
		if errors.Is(err, models.ErrNotFound) {
			created, err := s.store.CreateStreak(userID, dateOnly(now))
			if err != nil {
				return nil, err
			}
			if !created {
				continue // lost the insert race, re-read
			}
			st = &models.StreakState{
				UserID:           userID,
				CurrentStreak:    1,
				LongestStreak:    1,
				LastActivityDate: dateOnly(now),
			}
			if err := s.store.SyncProfileStreak(userID, st.CurrentStreak, st.LongestStreak); err != nil {
				return nil, err
			}
			return st, nil
		}
		if err != nil {
			return nil, err
		}

		next := advanceStreak(*st, now)
		if next.LastActivityDate.Equal(dateOnly(st.LastActivityDate)) && next.CurrentStreak == st.CurrentStreak {
			return st, nil
		}

		updated, err := s.store.UpdateStreakIfUnchanged(userID, st.LastActivityDate, next)
		if err != nil {
			return nil, err
		}
		if !updated {
			continue // another request advanced the streak, re-read
		}
		if err := s.store.SyncProfileStreak(userID, next.CurrentStreak, next.LongestStreak); err != nil {
			return nil, err
		}
		return &next, nil
	}

	// Every retry lost the race, so someone else already recorded today.
	return s.store.GetStreak(userID)
}

func (s *Service) GetStreak(userID int64) (*models.StreakState, error) {
	exists, err := s.store.ProfileExists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("get streak: %w", models.ErrNotFound)
	}

	st, err := s.store.GetStreak(userID)
	if errors.Is(err, models.ErrNotFound) {
		// Profile exists but has no activity yet; that reads as an empty
		// streak, not an error.
		return &models.StreakState{UserID: userID}, nil
	}
	return st, err
}

// ── Activity ──────────────────────────────────────────────

// RecordActivity appends to the activity log, folds rewards into the profile
// and touches the streak.
func (s *Service) RecordActivity(a models.UserActivity) (*models.StreakState, error) {
	if a.ActivityType == "" {
		return nil, fmt.Errorf("%w: activity_type is required", models.ErrInvalidArgument)
	}
	if a.XPEarned < 0 || a.GemsEarned < 0 {
		return nil, fmt.Errorf("%w: rewards must be non-negative", models.ErrInvalidArgument)
	}
	if err := s.store.RecordActivity(a); err != nil {
		return nil, err
	}
	return s.TouchStreak(a.UserID)
}

func (s *Service) RecentActivities(userID int64, limit int) ([]models.UserActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.RecentActivities(userID, limit)
}

// ── Achievements ──────────────────────────────────────────

// Evaluate checks every active definition the user has not earned against a
// snapshot of their stats and awards the ones now satisfied. Awards are
// exactly-once: the conditional insert decides the winner under concurrency,
// and the insert and its reward commit together. Multiple definitions can be
// awarded in one call when a single event crosses several thresholds.
func (s *Service) Evaluate(userID int64, ev models.ActivityEvent) ([]models.AchievementDef, error) {
	stats, err := s.store.GetProfileStats(userID)
	if err != nil {
		return nil, err
	}
	earned, err := s.store.EarnedIDs(userID)
	if err != nil {
		return nil, err
	}
	defs, err := s.store.ActiveDefinitions()
	if err != nil {
		return nil, err
	}

	newly := []models.AchievementDef{}
	for _, def := range defs {
		if earned[def.ID] {
			continue
		}
		ok, err := MeetsRequirement(def, stats, ev)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		inserted, err := s.store.AwardAchievement(userID, def.ID, def.RewardXP, def.RewardGems)
		if err != nil {
			return nil, fmt.Errorf("award %q: %w", def.Name, err)
		}
		if !inserted {
			continue
		}
		newly = append(newly, def)
	}
	return newly, nil
}

func (s *Service) ListEarned(userID int64) ([]models.EarnedAchievement, error) {
	return s.store.ListEarned(userID)
}

func (s *Service) ListDefinitions() ([]models.AchievementDef, error) {
	return s.store.ActiveDefinitions()
}
