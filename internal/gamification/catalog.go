package gamification

import "github.com/finlingo/backend/internal/models"

// DefaultCatalog is the built-in achievement set. It is seeded into
// achievement_defs at bootstrap with an upsert keyed on name, so restarting
// the process never duplicates entries.
var DefaultCatalog = []models.AchievementDef{
	{
		Name:        "Getting Started",
		Description: "Complete your first lesson",
		Icon:        "🌟",
		Kind:        models.KindLessons,
		Requirement: models.Requirement{LessonsCompleted: 1},
		RewardXP:    50,
		RewardGems:  10,
		Rarity:      "common",
	},
	{
		Name:        "Week Warrior",
		Description: "Maintain a 7-day learning streak",
		Icon:        "🔥",
		Kind:        models.KindStreak,
		Requirement: models.Requirement{StreakDays: 7},
		RewardXP:    200,
		RewardGems:  50,
		Rarity:      "rare",
	},
	{
		Name:        "Month Master",
		Description: "Maintain a 30-day learning streak",
		Icon:        "🏆",
		Kind:        models.KindStreak,
		Requirement: models.Requirement{StreakDays: 30},
		RewardXP:    1000,
		RewardGems:  200,
		Rarity:      "epic",
	},
	{
		Name:        "Knowledge Seeker",
		Description: "Earn 500 total XP",
		Icon:        "🧠",
		Kind:        models.KindXP,
		Requirement: models.Requirement{TotalXP: 500},
		RewardXP:    100,
		RewardGems:  25,
		Rarity:      "common",
	},
	{
		Name:        "Wisdom Collector",
		Description: "Earn 2,500 total XP",
		Icon:        "📚",
		Kind:        models.KindXP,
		Requirement: models.Requirement{TotalXP: 2500},
		RewardXP:    300,
		RewardGems:  75,
		Rarity:      "rare",
	},
	{
		Name:        "Finance Guru",
		Description: "Earn 10,000 total XP",
		Icon:        "💎",
		Kind:        models.KindXP,
		Requirement: models.Requirement{TotalXP: 10000},
		RewardXP:    1000,
		RewardGems:  300,
		Rarity:      "legendary",
	},
	{
		Name:        "Basic Foundations",
		Description: "Complete the Finance Basics topic",
		Icon:        "🏗️",
		Kind:        models.KindTopics,
		Requirement: models.Requirement{Topics: []string{"basics"}},
		RewardXP:    300,
		RewardGems:  50,
		Rarity:      "common",
	},
	{
		Name:        "Budget Boss",
		Description: "Complete the Budgeting topic",
		Icon:        "💰",
		Kind:        models.KindTopics,
		Requirement: models.Requirement{Topics: []string{"budgeting"}},
		RewardXP:    400,
		RewardGems:  75,
		Rarity:      "rare",
	},
	{
		Name:        "Investment Wizard",
		Description: "Complete the Investing topic",
		Icon:        "📈",
		Kind:        models.KindTopics,
		Requirement: models.Requirement{Topics: []string{"investing"}},
		RewardXP:    600,
		RewardGems:  100,
		Rarity:      "epic",
	},
	{
		Name:        "Helpful Helper",
		Description: "Help 10 people in community discussions",
		Icon:        "🤝",
		Kind:        models.KindCommunity,
		Requirement: models.Requirement{HelpfulReplies: 10},
		RewardXP:    250,
		RewardGems:  50,
		Rarity:      "rare",
	},
	{
		Name:        "Discussion Leader",
		Description: "Start 5 community discussions",
		Icon:        "💬",
		Kind:        models.KindCommunity,
		Requirement: models.Requirement{DiscussionsStarted: 5},
		RewardXP:    300,
		RewardGems:  60,
		Rarity:      "rare",
	},
	{
		Name:        "Perfect Score",
		Description: "Get 100% on any lesson",
		Icon:        "⭐",
		Kind:        models.KindSpecial,
		Requirement: models.Requirement{PerfectLesson: true},
		RewardXP:    150,
		RewardGems:  30,
		Rarity:      "rare",
	},
	{
		Name:        "Challenge Champion",
		Description: "Win your first peer challenge",
		Icon:        "🥇",
		Kind:        models.KindSpecial,
		Requirement: models.Requirement{ChallengesWon: 1},
		RewardXP:    500,
		RewardGems:  100,
		Rarity:      "epic",
	},
}
