package content

import (
	"testing"

	"github.com/finlingo/backend/internal/models"
)

func TestLessonScore(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{"all correct", 10, 10, 100},
		{"none correct", 0, 10, 0},
		{"half correct", 5, 10, 50},
		{"truncates down", 2, 3, 66},
		{"zero total", 0, 0, 0},
		{"single question correct", 1, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lessonScore(tt.correct, tt.total); got != tt.want {
				t.Errorf("lessonScore(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}

func TestXPForScore(t *testing.T) {
	tests := []struct {
		name   string
		baseXP int64
		score  int
		want   int64
	}{
		{"perfect pays full reward", 100, 100, 100},
		{"half score pays half", 100, 50, 50},
		{"zero score pays nothing", 100, 0, 0},
		{"truncates down", 150, 66, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := xpForScore(tt.baseXP, tt.score); got != tt.want {
				t.Errorf("xpForScore(%d, %d) = %d, want %d", tt.baseXP, tt.score, got, tt.want)
			}
		})
	}
}

func TestGemsForXP(t *testing.T) {
	tests := []struct {
		xp   int64
		want int64
	}{
		{100, 10},
		{99, 9},
		{9, 0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := gemsForXP(tt.xp); got != tt.want {
			t.Errorf("gemsForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestCountCorrect(t *testing.T) {
	responses := []models.QuestionResponse{
		{QuestionID: "q1", IsCorrect: true},
		{QuestionID: "q2", IsCorrect: false},
		{QuestionID: "q3", IsCorrect: true},
	}
	if got := countCorrect(responses); got != 2 {
		t.Errorf("countCorrect = %d, want 2", got)
	}
	if got := countCorrect(nil); got != 0 {
		t.Errorf("countCorrect(nil) = %d, want 0", got)
	}
}
