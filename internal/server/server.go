package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wlopz/codeflow-app/internal/config"
	"github.com/wlopz/codeflow-app/internal/database"
	"github.com/wlopz/codeflow-app/internal/handlers"
	"github.com/wlopz/codeflow-app/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// New builds the HTTP server around an already-constructed database
// service and handler set; nothing here owns global state.
func New(cfg *config.Config, db database.Service, handler *handlers.Handler) *http.Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := s.RegisterRoutes()

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.App.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Question routes (public reads)
		api.GET("/questions", s.handler.Question.GetQuestions)
		api.GET("/questions/:id", s.handler.Question.GetQuestion)

		// Answer routes (public reads)
		api.GET("/questions/:id/answers", s.handler.Answer.GetAnswers)

		// Tag routes (public reads)
		api.GET("/tags", s.handler.Question.GetTags)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.JWT.Secret))
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)

			// Question protected routes
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/save", s.handler.Question.ToggleSaveQuestion)
			protected.GET("/saved-questions", s.handler.Question.GetSavedQuestions)

			// Answer protected routes
			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.DELETE("/answers/:answerId", s.handler.Answer.DeleteAnswer)

			// Vote protected routes
			protected.POST("/votes", s.handler.Vote.CastVote)
			protected.GET("/votes/state", s.handler.Vote.GetVoteState)
		}
	}

	return r
}
