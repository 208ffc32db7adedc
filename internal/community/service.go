package community

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finlingo/backend/internal/gamification"
	"github.com/finlingo/backend/internal/models"
)

const (
	maxTitleLength       = 255
	defaultChallengeDays = 7
	maxChallengeDays     = 30
	defaultMaxMembers    = 20
	maxGroupMembers      = 100
)

// Service owns discussions, challenges and study groups. Community actions
// that feed achievements (starting discussions, helpful replies, challenge
// wins) go through the profile counters and re-evaluate afterwards.
type Service struct {
	store *Store
	game  *gamification.Service
	now   func() time.Time
}

func NewService(store *Store, game *gamification.Service) *Service {
	return &Service{store: store, game: game, now: time.Now}
}

// ── Discussions ───────────────────────────────────────────

func validateDiscussion(req models.CreateDiscussionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
	}
	if len(req.Title) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", models.ErrInvalidArgument, maxTitleLength)
	}
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content is required", models.ErrInvalidArgument)
	}
	if !models.ValidDiscussionTypes[req.DiscussionType] {
		return fmt.Errorf("%w: unknown discussion type %q", models.ErrInvalidArgument, req.DiscussionType)
	}
	return nil
}

func (s *Service) CreateDiscussion(authorID int64, req models.CreateDiscussionRequest) (*models.Discussion, error) {
	if err := validateDiscussion(req); err != nil {
		return nil, err
	}

	discussion, err := s.store.CreateDiscussion(authorID, req)
	if err != nil {
		return nil, err
	}

	// Starting a discussion can push the author over a community threshold.
	if _, err := s.game.Evaluate(authorID, models.ActivityEvent{}); err != nil {
		log.Printf("[community] achievement check after discussion %d: %v", discussion.ID, err)
	}
	return discussion, nil
}

func (s *Service) ListDiscussions(discussionType models.DiscussionType, topicID string, limit, offset int) ([]models.Discussion, error) {
	if discussionType != "" && !models.ValidDiscussionTypes[discussionType] {
		return nil, fmt.Errorf("%w: unknown discussion type %q", models.ErrInvalidArgument, discussionType)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListDiscussions(discussionType, topicID, limit, offset)
}

func (s *Service) GetDiscussion(discussionID int64) (*models.Discussion, []models.DiscussionReply, error) {
	discussion, err := s.store.GetDiscussion(discussionID)
	if err != nil {
		return nil, nil, err
	}
	replies, err := s.store.ListReplies(discussionID)
	if err != nil {
		return nil, nil, err
	}
	return discussion, replies, nil
}

func (s *Service) Reply(discussionID, authorID int64, req models.ReplyRequest) (*models.DiscussionReply, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", models.ErrInvalidArgument)
	}
	if _, err := s.store.GetDiscussion(discussionID); err != nil {
		return nil, err
	}
	return s.store.CreateReply(discussionID, authorID, req)
}

func (s *Service) Vote(discussionID int64, req models.VoteRequest) error {
	switch req.VoteType {
	case "upvote":
		return s.store.VoteDiscussion(discussionID, true)
	case "downvote":
		return s.store.VoteDiscussion(discussionID, false)
	default:
		return fmt.Errorf("%w: vote_type must be 'upvote' or 'downvote'", models.ErrInvalidArgument)
	}
}

// MarkReplyHelpful lets the discussion author single out a reply. Only the
// first mark credits the reply author; repeats are accepted and ignored.
func (s *Service) MarkReplyHelpful(discussionID, replyID, callerID int64) error {
	discussion, err := s.store.GetDiscussion(discussionID)
	if err != nil {
		return err
	}
	if discussion.AuthorID != callerID {
		return fmt.Errorf("%w: only the discussion author can mark replies helpful", models.ErrInvalidArgument)
	}

	authorID, flipped, err := s.store.MarkReplyHelpful(discussionID, replyID)
	if err != nil {
		return err
	}
	if flipped {
		if _, err := s.game.Evaluate(authorID, models.ActivityEvent{}); err != nil {
			log.Printf("[community] achievement check after helpful reply %d: %v", replyID, err)
		}
	}
	return nil
}

// ── Challenges ────────────────────────────────────────────

func validateChallenge(req models.CreateChallengeRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrInvalidArgument)
	}
	if !models.ValidChallengeTypes[req.ChallengeType] {
		return fmt.Errorf("%w: unknown challenge type %q", models.ErrInvalidArgument, req.ChallengeType)
	}
	if req.DurationDays < 0 || req.DurationDays > maxChallengeDays {
		return fmt.Errorf("%w: duration_days must be between 1 and %d", models.ErrInvalidArgument, maxChallengeDays)
	}
	return nil
}

func (s *Service) CreateChallenge(creatorID int64, req models.CreateChallengeRequest) (*models.Challenge, error) {
	if err := validateChallenge(req); err != nil {
		return nil, err
	}
	if req.DurationDays == 0 {
		req.DurationDays = defaultChallengeDays
	}
	if req.MaxParticipants <= 0 {
		req.MaxParticipants = 100
	}

	start := s.now().UTC()
	end := start.AddDate(0, 0, req.DurationDays)

	challenge, err := s.store.CreateChallenge(creatorID, req, start, end)
	if err != nil {
		return nil, err
	}

	// The creator is always the first participant.
	if _, err := s.store.JoinChallenge(challenge.ID, creatorID); err != nil {
		return nil, err
	}
	challenge.ParticipantCount = 1
	challenge.UserParticipating = true
	return challenge, nil
}

func (s *Service) ListChallenges(userID int64, limit int) ([]models.Challenge, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListActiveChallenges(userID, limit)
}

func (s *Service) JoinChallenge(challengeID, userID int64) error {
	challenge, err := s.store.GetChallenge(challengeID)
	if err != nil {
		return err
	}
	if !challenge.IsActive || challenge.EndDate.Before(s.now()) {
		return fmt.Errorf("%w: challenge is no longer active", models.ErrConflict)
	}

	joined, err := s.store.JoinChallenge(challengeID, userID)
	if err != nil {
		return err
	}
	if !joined {
		already, err := s.store.IsParticipant(challengeID, userID)
		if err != nil {
			return err
		}
		if already {
			return fmt.Errorf("%w: already participating", models.ErrConflict)
		}
		return fmt.Errorf("%w: challenge is full", models.ErrConflict)
	}
	return nil
}

func (s *Service) UpdateProgress(challengeID, userID int64, req models.ChallengeProgressRequest) error {
	if req.Score < 0 {
		return fmt.Errorf("%w: score must be non-negative", models.ErrInvalidArgument)
	}
	return s.store.UpdateChallengeProgress(challengeID, userID, req)
}

func (s *Service) Participants(challengeID int64) ([]models.ChallengeParticipant, error) {
	if _, err := s.store.GetChallenge(challengeID); err != nil {
		return nil, err
	}
	return s.store.ListParticipants(challengeID)
}

// CompleteChallenge closes a challenge and crowns the top scorer. Only the
// creator can complete one. The winner's counter feeds the Challenge Champion
// achievement, so the winner is re-evaluated afterwards.
func (s *Service) CompleteChallenge(challengeID, callerID int64) (*models.ChallengeParticipant, error) {
	challenge, err := s.store.GetChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.CreatorID != callerID {
		return nil, fmt.Errorf("%w: only the creator can complete a challenge", models.ErrInvalidArgument)
	}

	winnerID, hasWinner, err := s.store.CompleteChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	if !hasWinner {
		return nil, nil
	}

	if _, err := s.game.Evaluate(winnerID, models.ActivityEvent{}); err != nil {
		log.Printf("[community] achievement check after challenge %d win: %v", challengeID, err)
	}

	participants, err := s.store.ListParticipants(challengeID)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		if participants[i].UserID == winnerID {
			return &participants[i], nil
		}
	}
	return nil, nil
}

// ── Study Groups ──────────────────────────────────────────

func validateStudyGroup(req models.CreateStudyGroupRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidArgument)
	}
	if req.MaxMembers < 0 || req.MaxMembers > maxGroupMembers {
		return fmt.Errorf("%w: max_members must be between 1 and %d", models.ErrInvalidArgument, maxGroupMembers)
	}
	return nil
}

// newInvitationCode derives a short shareable code. Eight hex characters of a
// UUID keep collisions rare; the unique constraint catches the rest.
func newInvitationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Service) CreateStudyGroup(creatorID int64, req models.CreateStudyGroupRequest) (*models.StudyGroup, error) {
	if err := validateStudyGroup(req); err != nil {
		return nil, err
	}
	if req.MaxMembers == 0 {
		req.MaxMembers = defaultMaxMembers
	}

	var group *models.StudyGroup
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		group, err = s.store.CreateStudyGroup(creatorID, req, newInvitationCode())
		if err == nil {
			return group, nil
		}
		if !strings.Contains(err.Error(), "study_groups_invitation_code_key") {
			return nil, err
		}
	}
	return nil, err
}

func (s *Service) ListStudyGroups(search string, limit int) ([]models.StudyGroup, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListPublicStudyGroups(search, limit)
}

// JoinStudyGroup adds the caller to a group, either a public one by id or any
// group via its invitation code.
func (s *Service) JoinStudyGroup(groupID, userID int64, req models.JoinStudyGroupRequest) (*models.StudyGroup, error) {
	group, err := s.store.FindStudyGroup(groupID, req.InvitationCode)
	if err != nil {
		return nil, err
	}
	if !group.IsPublic && req.InvitationCode == "" {
		return nil, fmt.Errorf("%w: invitation code required for private groups", models.ErrInvalidArgument)
	}

	joined, err := s.store.AddGroupMember(group.ID, userID)
	if err != nil {
		return nil, err
	}
	if !joined {
		already, err := s.store.IsGroupMember(group.ID, userID)
		if err != nil {
			return nil, err
		}
		if already {
			return nil, fmt.Errorf("%w: already a member", models.ErrConflict)
		}
		return nil, fmt.Errorf("%w: study group is full", models.ErrConflict)
	}

	group.MemberCount++
	return group, nil
}
