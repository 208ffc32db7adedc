package gamification

import (
	"time"

	"github.com/finlingo/backend/internal/models"
)

// dateOnly truncates t to UTC midnight. Streaks compare calendar days, never
// clock times.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// advanceStreak returns the streak state after activity at now. Same calendar
// day is a no-op, the next consecutive day extends, any larger gap resets to 1.
// LongestStreak never decreases.
func advanceStreak(prev models.StreakState, now time.Time) models.StreakState {
	today := dateOnly(now)
	last := dateOnly(prev.LastActivityDate)

	if last.Equal(today) {
		return prev
	}

	next := prev
	if last.Equal(today.AddDate(0, 0, -1)) {
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 1
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActivityDate = today
	return next
}
