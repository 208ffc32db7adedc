package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/finlingo/backend/internal/auth"
	"github.com/finlingo/backend/internal/community"
	"github.com/finlingo/backend/internal/content"
	"github.com/finlingo/backend/internal/database"
	"github.com/finlingo/backend/internal/gamification"
	"github.com/finlingo/backend/internal/generator"
	"github.com/finlingo/backend/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire stores and services
	gameStore := gamification.NewStore(db)
	gameService := gamification.NewService(gameStore)
	if err := gameService.SeedCatalog(); err != nil {
		log.Fatalf("Failed to seed achievement catalog: %v", err)
	}

	contentStore := content.NewStore(db)
	contentService := content.NewService(contentStore, gameService)

	genStore := generator.NewStore(db)
	genService := generator.NewService(generator.NewGenerator(), genStore, contentStore, gameService)

	communityStore := community.NewStore(db)
	communityService := community.NewService(communityStore, gameService)

	authHandler := auth.NewHandler(db, gameStore)
	gameHandler := gamification.NewHandler(gameService)
	contentHandler := content.NewHandler(contentService)
	genHandler := generator.NewHandler(genService)
	communityHandler := community.NewHandler(communityService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Profile and gamification
	protected.HandleFunc("/profile", gameHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", gameHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/streak", gameHandler.GetStreak).Methods("GET")
	protected.HandleFunc("/streak/touch", gameHandler.TouchStreak).Methods("POST")
	protected.HandleFunc("/activities", gameHandler.RecordActivity).Methods("POST")
	protected.HandleFunc("/activities", gameHandler.RecentActivities).Methods("GET")
	protected.HandleFunc("/achievements", gameHandler.ListAchievements).Methods("GET")
	protected.HandleFunc("/achievements/earned", gameHandler.ListEarnedAchievements).Methods("GET")
	protected.HandleFunc("/achievements/check", gameHandler.CheckAchievements).Methods("POST")
	protected.HandleFunc("/leaderboard", gameHandler.GetLeaderboard).Methods("GET")

	// Course content
	protected.HandleFunc("/topics", contentHandler.ListTopics).Methods("GET")
	protected.HandleFunc("/topics/{topic_id}/lessons", contentHandler.TopicLessons).Methods("GET")
	protected.HandleFunc("/lessons/{lesson_id}/questions", contentHandler.LessonQuestions).Methods("GET")
	protected.HandleFunc("/lessons/{lesson_id}/complete", contentHandler.CompleteLesson).Methods("POST")
	protected.HandleFunc("/progress", contentHandler.GetProgress).Methods("GET")

	// AI generation
	protected.HandleFunc("/ai/questions", genHandler.GenerateQuestions).Methods("POST")
	protected.HandleFunc("/ai/recommendations", genHandler.GetRecommendations).Methods("GET")
	protected.HandleFunc("/ai/recommendations/{id}/viewed", genHandler.MarkRecommendationViewed).Methods("POST")
	protected.HandleFunc("/ai/learning-path", genHandler.CreateLearningPath).Methods("POST")
	protected.HandleFunc("/ai/learning-path", genHandler.GetLearningPath).Methods("GET")

	// Community
	protected.HandleFunc("/discussions", communityHandler.CreateDiscussion).Methods("POST")
	protected.HandleFunc("/discussions", communityHandler.ListDiscussions).Methods("GET")
	protected.HandleFunc("/discussions/{id}", communityHandler.GetDiscussion).Methods("GET")
	protected.HandleFunc("/discussions/{id}/replies", communityHandler.Reply).Methods("POST")
	protected.HandleFunc("/discussions/{id}/vote", communityHandler.Vote).Methods("POST")
	protected.HandleFunc("/discussions/{id}/replies/{reply_id}/helpful", communityHandler.MarkReplyHelpful).Methods("POST")
	protected.HandleFunc("/challenges", communityHandler.CreateChallenge).Methods("POST")
	protected.HandleFunc("/challenges", communityHandler.ListChallenges).Methods("GET")
	protected.HandleFunc("/challenges/{id}/join", communityHandler.JoinChallenge).Methods("POST")
	protected.HandleFunc("/challenges/{id}/progress", communityHandler.UpdateChallengeProgress).Methods("PUT")
	protected.HandleFunc("/challenges/{id}/participants", communityHandler.ChallengeParticipants).Methods("GET")
	protected.HandleFunc("/challenges/{id}/complete", communityHandler.CompleteChallenge).Methods("POST")
	protected.HandleFunc("/study-groups", communityHandler.CreateStudyGroup).Methods("POST")
	protected.HandleFunc("/study-groups", communityHandler.ListStudyGroups).Methods("GET")
	protected.HandleFunc("/study-groups/{id}/join", communityHandler.JoinStudyGroup).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
