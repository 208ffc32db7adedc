package models

import "time"

// ── Discussions ───────────────────────────────────────────

type DiscussionType string

const (
	DiscussionGeneral       DiscussionType = "general"
	DiscussionTopicSpecific DiscussionType = "topic_specific"
	DiscussionLessonHelp    DiscussionType = "lesson_help"
	DiscussionChallenge     DiscussionType = "challenge"
)

var ValidDiscussionTypes = map[DiscussionType]bool{
	DiscussionGeneral:       true,
	DiscussionTopicSpecific: true,
	DiscussionLessonHelp:    true,
	DiscussionChallenge:     true,
}

type Discussion struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	AuthorID       int64          `json:"author_id"`
	AuthorUsername string         `json:"author_username"`
	TopicID        string         `json:"topic_id,omitempty"`
	LessonID       string         `json:"lesson_id,omitempty"`
	DiscussionType DiscussionType `json:"discussion_type"`
	Tags           []string       `json:"tags,omitempty"`
	Upvotes        int            `json:"upvotes"`
	Downvotes      int            `json:"downvotes"`
	ReplyCount     int            `json:"reply_count"`
	IsPinned       bool           `json:"is_pinned"`
	IsResolved     bool           `json:"is_resolved"`
	CreatedAt      time.Time      `json:"created_at"`
}

type DiscussionReply struct {
	ID             int64     `json:"id"`
	DiscussionID   int64     `json:"discussion_id"`
	Content        string    `json:"content"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	ParentReplyID  *int64    `json:"parent_reply_id,omitempty"`
	Upvotes        int       `json:"upvotes"`
	Downvotes      int       `json:"downvotes"`
	IsHelpful      bool      `json:"is_helpful"`
	CreatedAt      time.Time `json:"created_at"`
}

// ── Challenges ────────────────────────────────────────────

type ChallengeType string

const (
	ChallengeDaily        ChallengeType = "daily"
	ChallengeWeekly       ChallengeType = "weekly"
	ChallengePeer         ChallengeType = "peer"
	ChallengeTopicMastery ChallengeType = "topic_mastery"
)

var ValidChallengeTypes = map[ChallengeType]bool{
	ChallengeDaily:        true,
	ChallengeWeekly:       true,
	ChallengePeer:         true,
	ChallengeTopicMastery: true,
}

type Challenge struct {
	ID               int64         `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	ChallengeType    ChallengeType `json:"challenge_type"`
	CreatorID        int64         `json:"creator_id"`
	TopicID          string        `json:"topic_id,omitempty"`
	ParticipantCount int           `json:"participant_count"`
	MaxParticipants  int           `json:"max_participants"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	IsActive         bool          `json:"is_active"`
	UserParticipating bool         `json:"user_participating,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

type ChallengeParticipant struct {
	ID          int64          `json:"id"`
	ChallengeID int64          `json:"challenge_id"`
	UserID      int64          `json:"user_id"`
	Username    string         `json:"username"`
	Score       int64          `json:"score"`
	Progress    map[string]any `json:"progress,omitempty"`
	IsWinner    bool           `json:"is_winner"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	JoinedAt    time.Time      `json:"joined_at"`
}

// ── Study Groups ──────────────────────────────────────────

type StudyGroup struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatorID      int64     `json:"creator_id"`
	MemberCount    int       `json:"member_count"`
	MaxMembers     int       `json:"max_members"`
	TopicFocus     []string  `json:"topic_focus,omitempty"`
	IsPublic       bool      `json:"is_public"`
	InvitationCode string    `json:"invitation_code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ── Requests ──────────────────────────────────────────────

type CreateDiscussionRequest struct {
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	DiscussionType DiscussionType `json:"discussion_type"`
	TopicID        string         `json:"topic_id,omitempty"`
	LessonID       string         `json:"lesson_id,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

type ReplyRequest struct {
	Content       string `json:"content"`
	ParentReplyID *int64 `json:"parent_reply_id,omitempty"`
}

type VoteRequest struct {
	VoteType string `json:"vote_type"` // "upvote" or "downvote"
}

type CreateChallengeRequest struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	ChallengeType   ChallengeType `json:"challenge_type"`
	TopicID         string        `json:"topic_id,omitempty"`
	DurationDays    int           `json:"duration_days"`
	MaxParticipants int           `json:"max_participants"`
}

type ChallengeProgressRequest struct {
	Score    int64          `json:"score"`
	Progress map[string]any `json:"progress,omitempty"`
}

type CreateStudyGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TopicFocus  []string `json:"topic_focus,omitempty"`
	MaxMembers  int      `json:"max_members"`
	IsPublic    bool     `json:"is_public"`
}

type JoinStudyGroupRequest struct {
	InvitationCode string `json:"invitation_code,omitempty"`
}
