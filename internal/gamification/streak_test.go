package gamification

import (
	"testing"
	"time"

	"github.com/finlingo/backend/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceStreak(t *testing.T) {
	tests := []struct {
		name        string
		prev        models.StreakState
		now         time.Time
		wantCurrent int
		wantLongest int
		wantDate    time.Time
	}{
		{
			name:        "same day is a no-op",
			prev:        models.StreakState{CurrentStreak: 5, LongestStreak: 9, LastActivityDate: day(2026, 3, 10)},
			now:         time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			wantCurrent: 5,
			wantLongest: 9,
			wantDate:    day(2026, 3, 10),
		},
		{
			name:        "next day extends",
			prev:        models.StreakState{CurrentStreak: 5, LongestStreak: 9, LastActivityDate: day(2026, 3, 10)},
			now:         day(2026, 3, 11),
			wantCurrent: 6,
			wantLongest: 9,
			wantDate:    day(2026, 3, 11),
		},
		{
			name:        "extension past longest raises longest",
			prev:        models.StreakState{CurrentStreak: 9, LongestStreak: 9, LastActivityDate: day(2026, 3, 10)},
			now:         day(2026, 3, 11),
			wantCurrent: 10,
			wantLongest: 10,
			wantDate:    day(2026, 3, 11),
		},
		{
			name:        "two day gap resets to one",
			prev:        models.StreakState{CurrentStreak: 14, LongestStreak: 14, LastActivityDate: day(2026, 3, 10)},
			now:         day(2026, 3, 12),
			wantCurrent: 1,
			wantLongest: 14,
			wantDate:    day(2026, 3, 12),
		},
		{
			name:        "long gap resets to one and keeps longest",
			prev:        models.StreakState{CurrentStreak: 3, LongestStreak: 30, LastActivityDate: day(2026, 1, 1)},
			now:         day(2026, 3, 1),
			wantCurrent: 1,
			wantLongest: 30,
			wantDate:    day(2026, 3, 1),
		},
		{
			name:        "clock time within the day is ignored",
			prev:        models.StreakState{CurrentStreak: 2, LongestStreak: 2, LastActivityDate: day(2026, 3, 10)},
			now:         time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC),
			wantCurrent: 3,
			wantLongest: 3,
			wantDate:    day(2026, 3, 11),
		},
		{
			name:        "month boundary is still consecutive",
			prev:        models.StreakState{CurrentStreak: 7, LongestStreak: 7, LastActivityDate: day(2026, 2, 28)},
			now:         day(2026, 3, 1),
			wantCurrent: 8,
			wantLongest: 8,
			wantDate:    day(2026, 3, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := advanceStreak(tt.prev, tt.now)
			if got.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantCurrent)
			}
			if got.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", got.LongestStreak, tt.wantLongest)
			}
			if !got.LastActivityDate.Equal(tt.wantDate) {
				t.Errorf("LastActivityDate = %v, want %v", got.LastActivityDate, tt.wantDate)
			}
		})
	}
}

func TestAdvanceStreakIdempotentSameDay(t *testing.T) {
	st := models.StreakState{CurrentStreak: 4, LongestStreak: 6, LastActivityDate: day(2026, 5, 20)}
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

	once := advanceStreak(st, now)
	twice := advanceStreak(once, now)

	if once != twice {
		t.Errorf("second advance on the same day changed state: %+v vs %+v", once, twice)
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 02:00 on the 11th in UTC+9 is still the 10th in UTC.
	got := dateOnly(time.Date(2026, 3, 11, 2, 0, 0, 0, loc))
	want := day(2026, 3, 10)
	if !got.Equal(want) {
		t.Errorf("dateOnly = %v, want %v", got, want)
	}
}
