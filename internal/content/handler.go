package content

import (
	"encoding/json"
	"errors"
	"net/http"

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

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics()
	if err != nil {
		writeError(w, err, "Failed to get topics")
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (h *Handler) TopicLessons(w http.ResponseWriter, r *http.Request) {
	topicID := mux.Vars(r)["topic_id"]

	lessons, err := h.service.TopicLessons(topicID)
	if err != nil {
		writeError(w, err, "Failed to get lessons")
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (h *Handler) LessonQuestions(w http.ResponseWriter, r *http.Request) {
	lessonID := mux.Vars(r)["lesson_id"]

	questions, err := h.service.LessonQuestions(lessonID)
	if err != nil {
		writeError(w, err, "Failed to get questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	lessonID := mux.Vars(r)["lesson_id"]

	var req models.LessonCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.CompleteLesson(userID, lessonID, req)
	if err != nil {
		writeError(w, err, "Failed to complete lesson")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	progress, err := h.service.ListProgress(userID)
	if err != nil {
		writeError(w, err, "Failed to get progress")
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

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
