package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"policy-service/internal/http/middleware"
)

// NewRouter builds the gin engine. A nil authMiddleware leaves the policy
// journal endpoints unregistered.
func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string, bodyLimit int64, log zerolog.Logger) (*gin.Engine, error) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := registerValidations(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Type", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.BodyLimit(bodyLimit))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.Register(router, authMiddleware)

	return router, nil
}
