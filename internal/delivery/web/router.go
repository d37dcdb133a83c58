package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	QuizHandler    *QuizHandler
	Middleware     []gin.HandlerFunc // applied to every route, in order
	MetricsHandler http.Handler      // nil disables /metrics
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cfg.Middleware...)

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	// Well-known content path the browser client fetches.
	router.GET("/quizData.json", cfg.QuizHandler.ContentDocument)

	api := router.Group("/api")
	{
		api.POST("/sessions", cfg.QuizHandler.CreateSession)

		session := api.Group("/sessions/:id")
		session.GET("", cfg.QuizHandler.GetSession)
		session.DELETE("", cfg.QuizHandler.DeleteSession)
		session.POST("/chapters/:index", cfg.QuizHandler.SelectChapter)
		session.POST("/answer", cfg.QuizHandler.SelectAnswer)
		session.POST("/advance", cfg.QuizHandler.Advance)
		session.POST("/retry", cfg.QuizHandler.Retry)
		session.POST("/proceed", cfg.QuizHandler.Proceed)
		session.POST("/home", cfg.QuizHandler.BackToHome)
		session.POST("/summary", cfg.QuizHandler.ShowSummary)
	}

	return router
}
