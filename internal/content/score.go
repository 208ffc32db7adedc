package content

import "github.com/finlingo/backend/internal/models"

// countCorrect tallies the correct answers in a completion submission.
func countCorrect(responses []models.QuestionResponse) int {
	correct := 0
	for _, r := range responses {
		if r.IsCorrect {
			correct++
		}
	}
	return correct
}

// lessonScore is the percentage of correct answers, truncated to an int.
func lessonScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return correct * 100 / total
}

// xpForScore scales the lesson's base reward by the score percentage.
// A perfect lesson pays the full reward, half right pays half.
func xpForScore(baseXP int64, score int) int64 {
	return baseXP * int64(score) / 100
}

// gemsForXP derives the gem reward from earned XP.
func gemsForXP(xp int64) int64 {
	return xp / 10
}
