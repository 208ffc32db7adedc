package gamification

import (
	"errors"
	"testing"
	"time"

	"github.com/finlingo/backend/internal/models"
)

func TestWindowStart(t *testing.T) {
	tests := []struct {
		name string
		kind models.LeaderboardKind
		now  time.Time
		want time.Time
	}{
		{
			name: "global has no window",
			kind: models.LeaderboardGlobal,
			now:  day(2026, 3, 11),
			want: time.Time{},
		},
		{
			name: "weekly reaches back seven days",
			kind: models.LeaderboardWeekly,
			now:  day(2026, 3, 11),
			want: day(2026, 3, 4),
		},
		{
			name: "weekly keeps the clock time",
			kind: models.LeaderboardWeekly,
			now:  time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC),
			want: time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC),
		},
		{
			name: "monthly reaches back thirty days",
			kind: models.LeaderboardMonthly,
			now:  day(2026, 3, 31),
			want: day(2026, 3, 1),
		},
		{
			name: "monthly crosses month boundary",
			kind: models.LeaderboardMonthly,
			now:  day(2026, 1, 15),
			want: day(2025, 12, 16),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := windowStart(tt.kind, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("windowStart = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowStartUnknownKind(t *testing.T) {
	_, err := windowStart("hourly", day(2026, 3, 11))
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestRankEntries(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{UserID: 7, Score: 900},
		{UserID: 2, Score: 500},
		{UserID: 4, Score: 500},
		{UserID: 9, Score: 10},
	}
	start := day(2026, 3, 9)
	end := day(2026, 3, 11)

	ranked := rankEntries(entries, models.LeaderboardWeekly, "investing", start, end)

	for i, e := range ranked {
		if e.Rank != i+1 {
			t.Errorf("entry %d has rank %d, want %d", i, e.Rank, i+1)
		}
		if e.Kind != models.LeaderboardWeekly {
			t.Errorf("entry %d has kind %q", i, e.Kind)
		}
		if e.TopicID != "investing" {
			t.Errorf("entry %d has topic %q", i, e.TopicID)
		}
		if !e.PeriodStart.Equal(start) || !e.PeriodEnd.Equal(end) {
			t.Errorf("entry %d has window %v..%v", i, e.PeriodStart, e.PeriodEnd)
		}
	}
}

func TestRankEntriesEmpty(t *testing.T) {
	ranked := rankEntries(nil, models.LeaderboardGlobal, "", time.Time{}, day(2026, 3, 11))
	if len(ranked) != 0 {
		t.Errorf("got %d entries, want 0", len(ranked))
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, defaultLeaderboardLimit},
		{10, 10},
		{maxLeaderboardLimit, maxLeaderboardLimit},
		{maxLeaderboardLimit + 1, maxLeaderboardLimit},
	}
	for _, tt := range tests {
		got, err := clampLimit(tt.in)
		if err != nil {
			t.Errorf("clampLimit(%d) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampLimitRejectsNegative(t *testing.T) {
	if _, err := clampLimit(-5); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}
