package community

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/finlingo/backend/internal/models"
)

func TestValidateDiscussion(t *testing.T) {
	valid := models.CreateDiscussionRequest{
		Title:          "How big should an emergency fund be?",
		Content:        "I keep seeing different numbers.",
		DiscussionType: models.DiscussionGeneral,
	}

	tests := []struct {
		name    string
		mutate  func(*models.CreateDiscussionRequest)
		wantErr bool
	}{
		{"valid request", func(r *models.CreateDiscussionRequest) {}, false},
		{"empty title", func(r *models.CreateDiscussionRequest) { r.Title = "  " }, true},
		{"title too long", func(r *models.CreateDiscussionRequest) { r.Title = strings.Repeat("x", maxTitleLength+1) }, true},
		{"empty content", func(r *models.CreateDiscussionRequest) { r.Content = "" }, true},
		{"unknown type", func(r *models.CreateDiscussionRequest) { r.DiscussionType = "rant" }, true},
		{"lesson help type", func(r *models.CreateDiscussionRequest) { r.DiscussionType = models.DiscussionLessonHelp }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := validateDiscussion(req)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr && !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("error should wrap ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestValidateChallenge(t *testing.T) {
	valid := models.CreateChallengeRequest{
		Title:         "7-day budgeting sprint",
		ChallengeType: models.ChallengeWeekly,
		DurationDays:  7,
	}

	tests := []struct {
		name    string
		mutate  func(*models.CreateChallengeRequest)
		wantErr bool
	}{
		{"valid request", func(r *models.CreateChallengeRequest) {}, false},
		{"empty title", func(r *models.CreateChallengeRequest) { r.Title = "" }, true},
		{"unknown type", func(r *models.CreateChallengeRequest) { r.ChallengeType = "marathon" }, true},
		{"negative duration", func(r *models.CreateChallengeRequest) { r.DurationDays = -1 }, true},
		{"duration too long", func(r *models.CreateChallengeRequest) { r.DurationDays = maxChallengeDays + 1 }, true},
		{"zero duration gets defaulted later", func(r *models.CreateChallengeRequest) { r.DurationDays = 0 }, false},
		{"peer challenge", func(r *models.CreateChallengeRequest) { r.ChallengeType = models.ChallengePeer }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := validateChallenge(req)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStudyGroup(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateStudyGroupRequest
		wantErr bool
	}{
		{"valid", models.CreateStudyGroupRequest{Name: "Investing club", MaxMembers: 10}, false},
		{"empty name", models.CreateStudyGroupRequest{MaxMembers: 10}, true},
		{"zero members defaults later", models.CreateStudyGroupRequest{Name: "g"}, false},
		{"too many members", models.CreateStudyGroupRequest{Name: "g", MaxMembers: maxGroupMembers + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStudyGroup(tt.req)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewInvitationCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{8}$`)
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		code := newInvitationCode()
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match expected format", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q within 100 draws", code)
		}
		seen[code] = true
	}
}
