package generator

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

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.AIQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	questions, err := h.service.GenerateQuestions(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to generate questions")
		return
	}

	writeJSON(w, http.StatusCreated, questions)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	query := r.URL.Query()
	if query.Get("refresh") == "true" {
		recs, err := h.service.Recommendations(r.Context(), userID)
		if err != nil {
			writeError(w, err, "Failed to generate recommendations")
			return
		}
		writeJSON(w, http.StatusOK, recs)
		return
	}

	recs, err := h.service.StoredRecommendations(userID, intQueryParam(query, "limit", 20))
	if err != nil {
		writeError(w, err, "Failed to get recommendations")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) MarkRecommendationViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	recID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid recommendation id"})
		return
	}

	if err := h.service.MarkRecommendationViewed(userID, recID); err != nil {
		writeError(w, err, "Failed to mark recommendation viewed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"viewed": true})
}

func (h *Handler) CreateLearningPath(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.LearningPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	path, err := h.service.LearningPath(r.Context(), userID, req)
	if err != nil {
		writeError(w, err, "Failed to generate learning path")
		return
	}

	writeJSON(w, http.StatusCreated, path)
}

func (h *Handler) GetLearningPath(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	path, err := h.service.ActiveLearningPath(userID)
	if err != nil {
		writeError(w, err, "Failed to get learning path")
		return
	}

	writeJSON(w, http.StatusOK, path)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
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
