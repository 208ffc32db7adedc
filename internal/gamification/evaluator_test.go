package gamification

import (
	"errors"
	"testing"

	"github.com/finlingo/backend/internal/models"
)

func TestMeetsRequirement(t *testing.T) {
	stats := &models.ProfileStats{
		TotalXP:                 2500,
		CurrentStreak:           7,
		LessonsCompleted:        12,
		TopicsCompleted:         map[string]bool{"basics": true, "budgeting": true},
		HelpfulRepliesTotal:     10,
		DiscussionsStartedTotal: 4,
		ChallengesWonTotal:      1,
	}

	tests := []struct {
		name string
		def  models.AchievementDef
		ev   models.ActivityEvent
		want bool
	}{
		{
			name: "streak met at exact threshold",
			def:  models.AchievementDef{Kind: models.KindStreak, Requirement: models.Requirement{StreakDays: 7}},
			want: true,
		},
		{
			name: "streak below threshold",
			def:  models.AchievementDef{Kind: models.KindStreak, Requirement: models.Requirement{StreakDays: 30}},
			want: false,
		},
		{
			name: "lessons met",
			def:  models.AchievementDef{Kind: models.KindLessons, Requirement: models.Requirement{LessonsCompleted: 1}},
			want: true,
		},
		{
			name: "xp met at exact threshold",
			def:  models.AchievementDef{Kind: models.KindXP, Requirement: models.Requirement{TotalXP: 2500}},
			want: true,
		},
		{
			name: "xp below threshold",
			def:  models.AchievementDef{Kind: models.KindXP, Requirement: models.Requirement{TotalXP: 10000}},
			want: false,
		},
		{
			name: "single topic completed",
			def:  models.AchievementDef{Kind: models.KindTopics, Requirement: models.Requirement{Topics: []string{"basics"}}},
			want: true,
		},
		{
			name: "all listed topics required",
			def:  models.AchievementDef{Kind: models.KindTopics, Requirement: models.Requirement{Topics: []string{"basics", "investing"}}},
			want: false,
		},
		{
			name: "topics requirement with empty list never matches",
			def:  models.AchievementDef{Kind: models.KindTopics},
			want: false,
		},
		{
			name: "helpful replies met",
			def:  models.AchievementDef{Kind: models.KindCommunity, Requirement: models.Requirement{HelpfulReplies: 10}},
			want: true,
		},
		{
			name: "discussions started below threshold",
			def:  models.AchievementDef{Kind: models.KindCommunity, Requirement: models.Requirement{DiscussionsStarted: 5}},
			want: false,
		},
		{
			name: "perfect lesson uses the event not the profile",
			def:  models.AchievementDef{Kind: models.KindSpecial, Requirement: models.Requirement{PerfectLesson: true}},
			ev:   models.ActivityEvent{LessonScore: 100},
			want: true,
		},
		{
			name: "near perfect lesson does not count",
			def:  models.AchievementDef{Kind: models.KindSpecial, Requirement: models.Requirement{PerfectLesson: true}},
			ev:   models.ActivityEvent{LessonScore: 99},
			want: false,
		},
		{
			name: "challenge win met",
			def:  models.AchievementDef{Kind: models.KindSpecial, Requirement: models.Requirement{ChallengesWon: 1}},
			want: true,
		},
		{
			name: "empty special requirement never matches",
			def:  models.AchievementDef{Kind: models.KindSpecial},
			want: false,
		},
		{
			name: "zero thresholds never match",
			def:  models.AchievementDef{Kind: models.KindXP},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MeetsRequirement(tt.def, stats, tt.ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MeetsRequirement = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeetsRequirementUnknownKind(t *testing.T) {
	def := models.AchievementDef{Kind: "mystery"}
	_, err := MeetsRequirement(def, &models.ProfileStats{}, models.ActivityEvent{})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestDefaultCatalogIsWellFormed(t *testing.T) {
	stats := &models.ProfileStats{TopicsCompleted: map[string]bool{}}
	seen := map[string]bool{}

	for _, def := range DefaultCatalog {
		if def.Name == "" {
			t.Error("catalog entry with empty name")
		}
		if seen[def.Name] {
			t.Errorf("duplicate catalog name %q", def.Name)
		}
		seen[def.Name] = true

		if def.RewardXP <= 0 || def.RewardGems <= 0 {
			t.Errorf("%q has non-positive rewards", def.Name)
		}

		// Every built-in definition must evaluate without error.
		if _, err := MeetsRequirement(def, stats, models.ActivityEvent{}); err != nil {
			t.Errorf("%q does not evaluate: %v", def.Name, err)
		}
	}

	if len(DefaultCatalog) != 13 {
		t.Errorf("catalog has %d entries, want 13", len(DefaultCatalog))
	}
}
