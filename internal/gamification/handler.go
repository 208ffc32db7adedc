package gamification

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

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

// ── Profile ─────────────────────────────────────────────

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	profile, err := h.service.GetProfile(userID)
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	profile, err := h.service.UpdateProfile(userID, req)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// ── Streak ──────────────────────────────────────────────

func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	streak, err := h.service.GetStreak(userID)
	if err != nil {
		writeError(w, err, "Failed to get streak")
		return
	}

	writeJSON(w, http.StatusOK, streak)
}

func (h *Handler) TouchStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	streak, err := h.service.TouchStreak(userID)
	if err != nil {
		writeError(w, err, "Failed to update streak")
		return
	}

	writeJSON(w, http.StatusOK, streak)
}

// ── Activity ────────────────────────────────────────────

func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var activity models.UserActivity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	activity.UserID = userID

	streak, err := h.service.RecordActivity(activity)
	if err != nil {
		writeError(w, err, "Failed to record activity")
		return
	}

	writeJSON(w, http.StatusCreated, streak)
}

func (h *Handler) RecentActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 20)

	activities, err := h.service.RecentActivities(userID, limit)
	if err != nil {
		writeError(w, err, "Failed to get activities")
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

// ── Achievements ────────────────────────────────────────

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	defs, err := h.service.ListDefinitions()
	if err != nil {
		writeError(w, err, "Failed to get achievements")
		return
	}

	writeJSON(w, http.StatusOK, defs)
}

func (h *Handler) ListEarnedAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	earned, err := h.service.ListEarned(userID)
	if err != nil {
		writeError(w, err, "Failed to get earned achievements")
		return
	}

	writeJSON(w, http.StatusOK, earned)
}

func (h *Handler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	// The body is optional; callers may hint at the triggering event.
	var ev models.ActivityEvent
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&ev)
	}

	newly, err := h.service.Evaluate(userID, ev)
	if err != nil {
		writeError(w, err, "Failed to check achievements")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"new_achievements": newly})
}

// ── Leaderboards ────────────────────────────────────────

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	kind := models.LeaderboardKind(query.Get("type"))
	if kind == "" {
		kind = models.LeaderboardGlobal
	}
	topicID := query.Get("topic_id")

	// Negative limits are rejected downstream, so parse without clamping.
	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = v
	}

	entries, err := h.service.BuildLeaderboard(kind, topicID, limit)
	if err != nil {
		writeError(w, err, "Failed to get leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, models.LeaderboardResponse{Kind: kind, Entries: entries})
}

// ── Helpers ─────────────────────────────────────────────

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
