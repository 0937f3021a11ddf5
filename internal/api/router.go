package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/survey-backend-go/internal/config"
	"github.com/avolkov/survey-backend-go/internal/database"
	"github.com/avolkov/survey-backend-go/internal/handler"
	"github.com/avolkov/survey-backend-go/internal/middleware"
	"github.com/avolkov/survey-backend-go/internal/repository"
	"github.com/avolkov/survey-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers into the HTTP API
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Survey Backend API is running",
		})
	})

	surveyRepo := repository.NewSurveyRepository(database.GetDB())
	surveyService := service.NewSurveyService(surveyRepo)
	windService := service.NewWindService(surveyRepo)

	authHandler := handler.NewAuthHandler(cfg)
	surveyHandler := handler.NewSurveyHandler(surveyService, cfg.MaxUploadSize)
	windHandler := handler.NewWindHandler(windService)

	auth := middleware.Auth(cfg.JWTSecret)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		api.POST("/auth/token", authHandler.Token)

		surveys := api.Group("/surveys")
		{
			surveys.GET("", surveyHandler.List)
			surveys.GET("/:id", surveyHandler.Get)
			surveys.GET("/:id/points", surveyHandler.Points)
			surveys.GET("/:id/statistics", surveyHandler.Statistics)
			surveys.GET("/:id/summary", surveyHandler.Summary)
			surveys.GET("/:id/rose", windHandler.Rose)
			surveys.GET("/:id/export", surveyHandler.Export)

			surveys.POST("", auth, surveyHandler.Upload)
			surveys.POST("/:id/wind", auth, windHandler.Decompose)
			surveys.DELETE("/:id", auth, surveyHandler.Delete)
		}
	}

	return r
}
