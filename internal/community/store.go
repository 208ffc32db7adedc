package community

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/finlingo/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Discussions ───────────────────────────────────────────

func (s *Store) CreateDiscussion(authorID int64, req models.CreateDiscussionRequest) (*models.Discussion, error) {
	tags, err := json.Marshal(req.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin discussion transaction: %w", err)
	}
	defer tx.Rollback()

	var d models.Discussion
	err = tx.QueryRow(`
		INSERT INTO discussions (title, content, author_id, topic_id, lesson_id, discussion_type, tags)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING id, created_at`,
		req.Title, req.Content, authorID, req.TopicID, req.LessonID, req.DiscussionType, tags,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create discussion: %w", err)
	}

	// The started-discussions counter backs community achievements.
	if _, err := tx.Exec(`
		UPDATE user_profiles
		SET discussions_started_total = discussions_started_total + 1, updated_at = NOW()
		WHERE user_id = $1`,
		authorID,
	); err != nil {
		return nil, fmt.Errorf("failed to count started discussion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit discussion: %w", err)
	}

	d.Title = req.Title
	d.Content = req.Content
	d.AuthorID = authorID
	d.TopicID = req.TopicID
	d.LessonID = req.LessonID
	d.DiscussionType = req.DiscussionType
	d.Tags = req.Tags
	return &d, nil
}

func (s *Store) ListDiscussions(discussionType models.DiscussionType, topicID string, limit, offset int) ([]models.Discussion, error) {
	query := `
		SELECT d.id, d.title, d.content, d.author_id, u.username,
		       COALESCE(d.topic_id, ''), COALESCE(d.lesson_id, ''), d.discussion_type,
		       d.tags, d.upvotes, d.downvotes, d.reply_count, d.is_pinned, d.is_resolved, d.created_at
		FROM discussions d
		JOIN users u ON u.id = d.author_id`

	var conditions []string
	var args []any
	if discussionType != "" {
		args = append(args, discussionType)
		conditions = append(conditions, fmt.Sprintf("d.discussion_type = $%d", len(args)))
	}
	if topicID != "" {
		args = append(args, topicID)
		conditions = append(conditions, fmt.Sprintf("d.topic_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY d.is_pinned DESC, d.created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get discussions: %w", err)
	}
	defer rows.Close()

	discussions := []models.Discussion{}
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, err
		}
		discussions = append(discussions, *d)
	}
	return discussions, rows.Err()
}

func (s *Store) GetDiscussion(discussionID int64) (*models.Discussion, error) {
	row := s.db.QueryRow(`
		SELECT d.id, d.title, d.content, d.author_id, u.username,
		       COALESCE(d.topic_id, ''), COALESCE(d.lesson_id, ''), d.discussion_type,
		       d.tags, d.upvotes, d.downvotes, d.reply_count, d.is_pinned, d.is_resolved, d.created_at
		FROM discussions d
		JOIN users u ON u.id = d.author_id
		WHERE d.id = $1`,
		discussionID,
	)

	var d models.Discussion
	var tags []byte
	err := row.Scan(
		&d.ID, &d.Title, &d.Content, &d.AuthorID, &d.AuthorUsername,
		&d.TopicID, &d.LessonID, &d.DiscussionType,
		&tags, &d.Upvotes, &d.Downvotes, &d.ReplyCount, &d.IsPinned, &d.IsResolved, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discussion: %w", err)
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	return &d, nil
}

func scanDiscussion(rows *sql.Rows) (*models.Discussion, error) {
	var d models.Discussion
	var tags []byte
	if err := rows.Scan(
		&d.ID, &d.Title, &d.Content, &d.AuthorID, &d.AuthorUsername,
		&d.TopicID, &d.LessonID, &d.DiscussionType,
		&tags, &d.Upvotes, &d.Downvotes, &d.ReplyCount, &d.IsPinned, &d.IsResolved, &d.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan discussion: %w", err)
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	return &d, nil
}

func (s *Store) VoteDiscussion(discussionID int64, upvote bool) error {
	column := "downvotes"
	if upvote {
		column = "upvotes"
	}
	result, err := s.db.Exec(
		fmt.Sprintf(`UPDATE discussions SET %s = %s + 1 WHERE id = $1`, column, column),
		discussionID,
	)
	if err != nil {
		return fmt.Errorf("failed to vote on discussion: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to vote on discussion: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ── Replies ───────────────────────────────────────────────

func (s *Store) CreateReply(discussionID, authorID int64, req models.ReplyRequest) (*models.DiscussionReply, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin reply transaction: %w", err)
	}
	defer tx.Rollback()

	var reply models.DiscussionReply
	err = tx.QueryRow(`
		INSERT INTO discussion_replies (discussion_id, content, author_id, parent_reply_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		discussionID, req.Content, authorID, req.ParentReplyID,
	).Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	if _, err := tx.Exec(`UPDATE discussions SET reply_count = reply_count + 1 WHERE id = $1`, discussionID); err != nil {
		return nil, fmt.Errorf("failed to bump reply count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reply: %w", err)
	}

	reply.DiscussionID = discussionID
	reply.Content = req.Content
	reply.AuthorID = authorID
	reply.ParentReplyID = req.ParentReplyID
	return &reply, nil
}

func (s *Store) ListReplies(discussionID int64) ([]models.DiscussionReply, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.discussion_id, r.content, r.author_id, u.username,
		       r.parent_reply_id, r.upvotes, r.downvotes, r.is_helpful, r.created_at
		FROM discussion_replies r
		JOIN users u ON u.id = r.author_id
		WHERE r.discussion_id = $1
		ORDER BY r.created_at`,
		discussionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get replies: %w", err)
	}
	defer rows.Close()

	replies := []models.DiscussionReply{}
	for rows.Next() {
		var r models.DiscussionReply
		if err := rows.Scan(
			&r.ID, &r.DiscussionID, &r.Content, &r.AuthorID, &r.AuthorUsername,
			&r.ParentReplyID, &r.Upvotes, &r.Downvotes, &r.IsHelpful, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

// MarkReplyHelpful flips is_helpful on and credits the reply's author. The
// conditional update makes repeat marks a no-op, so the counter moves at most
// once per reply. Returns the reply author's id when the flip happened.
func (s *Store) MarkReplyHelpful(discussionID, replyID int64) (int64, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin helpful transaction: %w", err)
	}
	defer tx.Rollback()

	var authorID int64
	err = tx.QueryRow(`
		UPDATE discussion_replies
		SET is_helpful = TRUE
		WHERE id = $1 AND discussion_id = $2 AND NOT is_helpful
		RETURNING author_id`,
		replyID, discussionID,
	).Scan(&authorID)
	if err == sql.ErrNoRows {
		// Either the reply does not exist or it was already marked.
		var exists bool
		if err := s.db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM discussion_replies WHERE id = $1 AND discussion_id = $2)`,
			replyID, discussionID,
		).Scan(&exists); err != nil {
			return 0, false, fmt.Errorf("failed to check reply: %w", err)
		}
		if !exists {
			return 0, false, models.ErrNotFound
		}
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to mark reply helpful: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE user_profiles
		SET helpful_replies_total = helpful_replies_total + 1, updated_at = NOW()
		WHERE user_id = $1`,
		authorID,
	); err != nil {
		return 0, false, fmt.Errorf("failed to count helpful reply: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit helpful mark: %w", err)
	}
	return authorID, true, nil
}

// ── Challenges ────────────────────────────────────────────

func (s *Store) CreateChallenge(creatorID int64, req models.CreateChallengeRequest, start, end time.Time) (*models.Challenge, error) {
	var c models.Challenge
	err := s.db.QueryRow(`
		INSERT INTO challenges (title, description, challenge_type, creator_id, topic_id, max_participants, start_date, end_date)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		RETURNING id, created_at`,
		req.Title, req.Description, req.ChallengeType, creatorID, req.TopicID, req.MaxParticipants, start, end,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	c.Title = req.Title
	c.Description = req.Description
	c.ChallengeType = req.ChallengeType
	c.CreatorID = creatorID
	c.TopicID = req.TopicID
	c.MaxParticipants = req.MaxParticipants
	c.StartDate = start
	c.EndDate = end
	c.IsActive = true
	return &c, nil
}

func (s *Store) ListActiveChallenges(userID int64, limit int) ([]models.Challenge, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.description, c.challenge_type, c.creator_id, COALESCE(c.topic_id, ''),
		       c.max_participants, c.start_date, c.end_date, c.is_active, c.created_at,
		       (SELECT COUNT(*) FROM challenge_participants p WHERE p.challenge_id = c.id),
		       EXISTS (SELECT 1 FROM challenge_participants p WHERE p.challenge_id = c.id AND p.user_id = $1)
		FROM challenges c
		WHERE c.is_active AND c.end_date > NOW()
		ORDER BY c.created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenges: %w", err)
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		var c models.Challenge
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.ChallengeType, &c.CreatorID, &c.TopicID,
			&c.MaxParticipants, &c.StartDate, &c.EndDate, &c.IsActive, &c.CreatedAt,
			&c.ParticipantCount, &c.UserParticipating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func (s *Store) GetChallenge(challengeID int64) (*models.Challenge, error) {
	var c models.Challenge
	err := s.db.QueryRow(`
		SELECT c.id, c.title, c.description, c.challenge_type, c.creator_id, COALESCE(c.topic_id, ''),
		       c.max_participants, c.start_date, c.end_date, c.is_active, c.created_at,
		       (SELECT COUNT(*) FROM challenge_participants p WHERE p.challenge_id = c.id)
		FROM challenges c
		WHERE c.id = $1`,
		challengeID,
	).Scan(
		&c.ID, &c.Title, &c.Description, &c.ChallengeType, &c.CreatorID, &c.TopicID,
		&c.MaxParticipants, &c.StartDate, &c.EndDate, &c.IsActive, &c.CreatedAt,
		&c.ParticipantCount,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &c, nil
}

// JoinChallenge adds the user unless they already joined or the challenge is
// full. The challenge row is locked for the capacity check, so concurrent
// joins serialize and cannot oversubscribe.
func (s *Store) JoinChallenge(challengeID, userID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin join transaction: %w", err)
	}
	defer tx.Rollback()

	var maxParticipants int
	err = tx.QueryRow(`SELECT max_participants FROM challenges WHERE id = $1 FOR UPDATE`, challengeID).Scan(&maxParticipants)
	if err == sql.ErrNoRows {
		return false, models.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock challenge: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO challenge_participants (challenge_id, user_id)
		SELECT $1, $2
		WHERE (SELECT COUNT(*) FROM challenge_participants WHERE challenge_id = $1) < $3
		ON CONFLICT (challenge_id, user_id) DO NOTHING`,
		challengeID, userID, maxParticipants,
	)
	if err != nil {
		return false, fmt.Errorf("failed to join challenge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to join challenge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit join: %w", err)
	}
	return n > 0, nil
}

func (s *Store) IsParticipant(challengeID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM challenge_participants WHERE challenge_id = $1 AND user_id = $2)`,
		challengeID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

func (s *Store) UpdateChallengeProgress(challengeID, userID int64, req models.ChallengeProgressRequest) error {
	progress, err := json.Marshal(req.Progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE challenge_participants
		SET score = $3, progress = $4
		WHERE challenge_id = $1 AND user_id = $2`,
		challengeID, userID, req.Score, progress,
	)
	if err != nil {
		return fmt.Errorf("failed to update challenge progress: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update challenge progress: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) ListParticipants(challengeID int64) ([]models.ChallengeParticipant, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.challenge_id, p.user_id, u.username, p.score, p.progress,
		       p.is_winner, p.completed_at, p.joined_at
		FROM challenge_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.challenge_id = $1
		ORDER BY p.score DESC, p.user_id ASC`,
		challengeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []models.ChallengeParticipant{}
	for rows.Next() {
		var p models.ChallengeParticipant
		var progress []byte
		if err := rows.Scan(
			&p.ID, &p.ChallengeID, &p.UserID, &p.Username, &p.Score, &progress,
			&p.IsWinner, &p.CompletedAt, &p.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if len(progress) > 0 {
			if err := json.Unmarshal(progress, &p.Progress); err != nil {
				return nil, fmt.Errorf("failed to decode progress: %w", err)
			}
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// CompleteChallenge deactivates the challenge, marks the top scorer as the
// winner, and credits their won-challenges counter. Returns the winner's id,
// or false when the challenge had no participants or was already completed.
func (s *Store) CompleteChallenge(challengeID int64) (int64, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE challenges SET is_active = FALSE WHERE id = $1 AND is_active`, challengeID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to deactivate challenge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to deactivate challenge: %w", err)
	}
	if n == 0 {
		return 0, false, models.ErrConflict
	}

	var winnerID int64
	err = tx.QueryRow(`
		UPDATE challenge_participants
		SET is_winner = TRUE, completed_at = NOW()
		WHERE id = (
			SELECT id FROM challenge_participants
			WHERE challenge_id = $1
			ORDER BY score DESC, user_id ASC
			LIMIT 1
		)
		RETURNING user_id`,
		challengeID,
	).Scan(&winnerID)
	if err == sql.ErrNoRows {
		// No participants; the challenge just closes.
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("failed to commit completion: %w", err)
		}
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to mark winner: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE user_profiles
		SET challenges_won_total = challenges_won_total + 1, updated_at = NOW()
		WHERE user_id = $1`,
		winnerID,
	); err != nil {
		return 0, false, fmt.Errorf("failed to count challenge win: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit completion: %w", err)
	}
	return winnerID, true, nil
}

// ── Study Groups ──────────────────────────────────────────

func (s *Store) CreateStudyGroup(creatorID int64, req models.CreateStudyGroupRequest, invitationCode string) (*models.StudyGroup, error) {
	topicFocus, err := json.Marshal(req.TopicFocus)
	if err != nil {
		return nil, fmt.Errorf("failed to encode topic focus: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin group transaction: %w", err)
	}
	defer tx.Rollback()

	var g models.StudyGroup
	err = tx.QueryRow(`
		INSERT INTO study_groups (name, description, creator_id, max_members, topic_focus, is_public, invitation_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		req.Name, req.Description, creatorID, req.MaxMembers, topicFocus, req.IsPublic, invitationCode,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create study group: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO study_group_members (group_id, user_id) VALUES ($1, $2)`, g.ID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to add creator to group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit study group: %w", err)
	}

	g.Name = req.Name
	g.Description = req.Description
	g.CreatorID = creatorID
	g.MaxMembers = req.MaxMembers
	g.TopicFocus = req.TopicFocus
	g.IsPublic = req.IsPublic
	g.InvitationCode = invitationCode
	g.MemberCount = 1
	return &g, nil
}

func (s *Store) ListPublicStudyGroups(search string, limit int) ([]models.StudyGroup, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.max_members, g.topic_focus,
		       g.is_public, g.created_at,
		       (SELECT COUNT(*) FROM study_group_members m WHERE m.group_id = g.id)
		FROM study_groups g
		WHERE g.is_public`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND (g.name ILIKE $%d OR g.description ILIKE $%d)", len(args), len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY g.created_at DESC LIMIT $%d", len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get study groups: %w", err)
	}
	defer rows.Close()

	groups := []models.StudyGroup{}
	for rows.Next() {
		var g models.StudyGroup
		var topicFocus []byte
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.MaxMembers, &topicFocus,
			&g.IsPublic, &g.CreatedAt, &g.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan study group: %w", err)
		}
		if len(topicFocus) > 0 {
			if err := json.Unmarshal(topicFocus, &g.TopicFocus); err != nil {
				return nil, fmt.Errorf("failed to decode topic focus: %w", err)
			}
		}
		// Invitation codes are only shown to members.
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// FindStudyGroup resolves a join target either by id (public groups) or by
// invitation code (any group).
func (s *Store) FindStudyGroup(groupID int64, invitationCode string) (*models.StudyGroup, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.max_members, g.topic_focus,
		       g.is_public, g.invitation_code, g.created_at,
		       (SELECT COUNT(*) FROM study_group_members m WHERE m.group_id = g.id)
		FROM study_groups g
		WHERE `
	var arg any
	if invitationCode != "" {
		query += "g.invitation_code = $1"
		arg = invitationCode
	} else {
		query += "g.id = $1"
		arg = groupID
	}

	var g models.StudyGroup
	var topicFocus []byte
	err := s.db.QueryRow(query, arg).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatorID, &g.MaxMembers, &topicFocus,
		&g.IsPublic, &g.InvitationCode, &g.CreatedAt, &g.MemberCount,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find study group: %w", err)
	}
	if len(topicFocus) > 0 {
		if err := json.Unmarshal(topicFocus, &g.TopicFocus); err != nil {
			return nil, fmt.Errorf("failed to decode topic focus: %w", err)
		}
	}
	return &g, nil
}

func (s *Store) IsGroupMember(groupID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM study_group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group member: %w", err)
	}
	return exists, nil
}

// AddGroupMember inserts unless the user is already in or the group is full.
// The group row is locked for the capacity check, matching JoinChallenge.
func (s *Store) AddGroupMember(groupID, userID int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin join transaction: %w", err)
	}
	defer tx.Rollback()

	var maxMembers int
	err = tx.QueryRow(`SELECT max_members FROM study_groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&maxMembers)
	if err == sql.ErrNoRows {
		return false, models.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock study group: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO study_group_members (group_id, user_id)
		SELECT $1, $2
		WHERE (SELECT COUNT(*) FROM study_group_members WHERE group_id = $1) < $3
		ON CONFLICT (group_id, user_id) DO NOTHING`,
		groupID, userID, maxMembers,
	)
	if err != nil {
		return false, fmt.Errorf("failed to join study group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to join study group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit join: %w", err)
	}
	return n > 0, nil
}
