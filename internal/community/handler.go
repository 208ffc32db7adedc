package community

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/finlingo/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

// ── Discussions ───────────────────────────────────────────

func (h *Handler) CreateDiscussion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	discussion, err := h.service.CreateDiscussion(userID, req)
	if err != nil {
		writeError(w, err, "Failed to create discussion")
		return
	}

	writeJSON(w, http.StatusCreated, discussion)
}

func (h *Handler) ListDiscussions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	discussions, err := h.service.ListDiscussions(
		models.DiscussionType(query.Get("type")),
		query.Get("topic_id"),
		intQueryParam(query, "limit", 20),
		intQueryParam(query, "offset", 0),
	)
	if err != nil {
		writeError(w, err, "Failed to get discussions")
		return
	}

	writeJSON(w, http.StatusOK, discussions)
}

func (h *Handler) GetDiscussion(w http.ResponseWriter, r *http.Request) {
	discussionID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid discussion id"})
		return
	}

	discussion, replies, err := h.service.GetDiscussion(discussionID)
	if err != nil {
		writeError(w, err, "Failed to get discussion")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"discussion": discussion,
		"replies":    replies,
	})
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	discussionID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid discussion id"})
		return
	}

	var req models.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	reply, err := h.service.Reply(discussionID, userID, req)
	if err != nil {
		writeError(w, err, "Failed to create reply")
		return
	}

	writeJSON(w, http.StatusCreated, reply)
}

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	discussionID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid discussion id"})
		return
	}

	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.Vote(discussionID, req); err != nil {
		writeError(w, err, "Failed to vote")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "voted"})
}

func (h *Handler) MarkReplyHelpful(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	discussionID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid discussion id"})
		return
	}
	replyID, err := pathID(r, "reply_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid reply id"})
		return
	}

	if err := h.service.MarkReplyHelpful(discussionID, replyID, userID); err != nil {
		writeError(w, err, "Failed to mark reply helpful")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"helpful": true})
}

// ── Challenges ────────────────────────────────────────────

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	challenge, err := h.service.CreateChallenge(userID, req)
	if err != nil {
		writeError(w, err, "Failed to create challenge")
		return
	}

	writeJSON(w, http.StatusCreated, challenge)
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challenges, err := h.service.ListChallenges(userID, intQueryParam(r.URL.Query(), "limit", 20))
	if err != nil {
		writeError(w, err, "Failed to get challenges")
		return
	}

	writeJSON(w, http.StatusOK, challenges)
}

func (h *Handler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge id"})
		return
	}

	if err := h.service.JoinChallenge(challengeID, userID); err != nil {
		writeError(w, err, "Failed to join challenge")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (h *Handler) UpdateChallengeProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge id"})
		return
	}

	var req models.ChallengeProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.UpdateProgress(challengeID, userID, req); err != nil {
		writeError(w, err, "Failed to update progress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) ChallengeParticipants(w http.ResponseWriter, r *http.Request) {
	challengeID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge id"})
		return
	}

	participants, err := h.service.Participants(challengeID)
	if err != nil {
		writeError(w, err, "Failed to get participants")
		return
	}

	writeJSON(w, http.StatusOK, participants)
}

func (h *Handler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid challenge id"})
		return
	}

	winner, err := h.service.CompleteChallenge(challengeID, userID)
	if err != nil {
		writeError(w, err, "Failed to complete challenge")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"winner": winner})
}

// ── Study Groups ──────────────────────────────────────────

func (h *Handler) CreateStudyGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateStudyGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	group, err := h.service.CreateStudyGroup(userID, req)
	if err != nil {
		writeError(w, err, "Failed to create study group")
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *Handler) ListStudyGroups(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	groups, err := h.service.ListStudyGroups(query.Get("search"), intQueryParam(query, "limit", 20))
	if err != nil {
		writeError(w, err, "Failed to get study groups")
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) JoinStudyGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid group id"})
		return
	}

	var req models.JoinStudyGroupRequest
	if r.Body != nil {
		// The body is optional for public groups.
		json.NewDecoder(r.Body).Decode(&req)
	}

	group, err := h.service.JoinStudyGroup(groupID, userID, req)
	if err != nil {
		writeError(w, err, "Failed to join study group")
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// ── Helpers ───────────────────────────────────────────────

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
