package gamification

import (
	"fmt"

	"github.com/finlingo/backend/internal/models"
)

// MeetsRequirement reports whether the user's stats satisfy def's requirement.
// Event-scoped conditions (perfect lesson) come from ev rather than the
// profile. An unknown kind is an error so that a bad catalog row surfaces
// instead of silently never awarding.
func MeetsRequirement(def models.AchievementDef, stats *models.ProfileStats, ev models.ActivityEvent) (bool, error) {
	req := def.Requirement

	switch def.Kind {
	case models.KindStreak:
		return req.StreakDays > 0 && stats.CurrentStreak >= req.StreakDays, nil

	case models.KindLessons:
		return req.LessonsCompleted > 0 && stats.LessonsCompleted >= req.LessonsCompleted, nil

	case models.KindXP:
		return req.TotalXP > 0 && stats.TotalXP >= req.TotalXP, nil

	case models.KindTopics:
		if len(req.Topics) == 0 {
			return false, nil
		}
		for _, topic := range req.Topics {
			if !stats.TopicsCompleted[topic] {
				return false, nil
			}
		}
		return true, nil

	case models.KindCommunity:
		if req.HelpfulReplies > 0 {
			return stats.HelpfulRepliesTotal >= req.HelpfulReplies, nil
		}
		if req.DiscussionsStarted > 0 {
			return stats.DiscussionsStartedTotal >= req.DiscussionsStarted, nil
		}
		return false, nil

	case models.KindSpecial:
		if req.PerfectLesson {
			return ev.LessonScore == 100, nil
		}
		if req.ChallengesWon > 0 {
			return stats.ChallengesWonTotal >= req.ChallengesWon, nil
		}
		return false, nil

	default:
		return false, fmt.Errorf("%w: unknown achievement kind %q", models.ErrInvalidArgument, def.Kind)
	}
}
