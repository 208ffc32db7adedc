package gamification

import (
	"fmt"
	"time"

	"github.com/finlingo/backend/internal/models"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
)

// windowStart returns the UTC start of the aggregation window for kind at
// now. Weekly and monthly are rolling windows of the last 7 and 30 days.
// Global has no window and returns the zero time.
func windowStart(kind models.LeaderboardKind, now time.Time) (time.Time, error) {
	switch kind {
	case models.LeaderboardGlobal:
		return time.Time{}, nil
	case models.LeaderboardWeekly:
		return now.UTC().AddDate(0, 0, -7), nil
	case models.LeaderboardMonthly:
		return now.UTC().AddDate(0, 0, -30), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown leaderboard kind %q", models.ErrInvalidArgument, kind)
	}
}

// clampLimit normalizes a caller-supplied page size. Zero means "use the
// default"; negative limits are rejected.
func clampLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit must be non-negative", models.ErrInvalidArgument)
	}
	if limit == 0 {
		return defaultLeaderboardLimit, nil
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit, nil
	}
	return limit, nil
}

// rankEntries assigns contiguous 1-based ranks and stamps the shared fields
// onto every entry. Entries must already be sorted by score descending with
// user id as the tie-break.
func rankEntries(entries []models.LeaderboardEntry, kind models.LeaderboardKind, topicID string, start, end time.Time) []models.LeaderboardEntry {
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Kind = kind
		entries[i].TopicID = topicID
		entries[i].PeriodStart = start
		entries[i].PeriodEnd = end
	}
	return entries
}

// BuildLeaderboard computes a leaderboard on demand. Global ranks by lifetime
// XP from profiles; weekly and monthly aggregate the activity log over the
// current window. topicID is carried through as a tag on each entry.
func (s *Service) BuildLeaderboard(kind models.LeaderboardKind, topicID string, limit int) ([]models.LeaderboardEntry, error) {
	limit, err := clampLimit(limit)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	start, err := windowStart(kind, now)
	if err != nil {
		return nil, err
	}

	var entries []models.LeaderboardEntry
	if kind == models.LeaderboardGlobal {
		entries, err = s.store.GlobalLeaderboard(limit)
	} else {
		entries, err = s.store.WindowedLeaderboard(start, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s leaderboard: %w", kind, err)
	}

	return rankEntries(entries, kind, topicID, start, now), nil
}
