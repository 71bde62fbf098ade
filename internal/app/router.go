package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"maraisroos.co.za/formgate/internal/api/handlers"
	"maraisroos.co.za/formgate/internal/api/middleware"
	"maraisroos.co.za/formgate/internal/config"
	"maraisroos.co.za/formgate/internal/pkg/logger"
)

func newRouter(cfg *config.Config, server *handlers.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ClientIP(), middleware.ErrorHandler())
	router.Use(cors.New(buildCORSConfig(cfg)))

	v1 := router.Group("/api/v1")

	forms := v1.Group("/forms")
	forms.POST("/contact", server.SubmitContactForm)
	forms.POST("/portfolio-request", server.SubmitPortfolioRequest)

	health := v1.Group("/health")
	health.GET("/live", server.GetLiveness)
	health.GET("/ready", server.GetReadiness)

	admin := v1.Group("/admin", middleware.AdminToken(cfg.Security.AdminToken))
	admin.GET("/submissions", server.ListSubmissions)
	admin.PATCH("/submissions/:id", server.UpdateSubmissionStatus)
	admin.PUT("/log-level", setLogLevel)

	return router
}

// buildCORSConfig produces the CORS policy for the form endpoints. The
// browser posts from the portfolio site, so only configured site origins
// are allowed; a wildcard is stripped rather than honored.
func buildCORSConfig(cfg *config.Config) cors.Config {
	origins := make([]string, 0, len(cfg.Server.AllowedOrigins))
	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			continue
		}
		origins = append(origins, origin)
	}
	if len(origins) == 0 {
		origins = []string{"https://maraisroos.co.za"}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
}

// setLogLevel adjusts the global log level at runtime without a restart.
func setLogLevel(c *gin.Context) {
	var req struct {
		Level string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level is required"})
		return
	}
	if err := logger.SetLevel(req.Level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": req.Level})
}
