package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/cvs"
	"cv-shortlisting-backend/internal/dedupe"
	"cv-shortlisting-backend/internal/matching"
	"cv-shortlisting-backend/internal/pipeline"
	"cv-shortlisting-backend/internal/shared/config"
	"cv-shortlisting-backend/internal/shared/server/middleware"
	"cv-shortlisting-backend/internal/shared/server/respond"
	"cv-shortlisting-backend/internal/skills"
)

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	Config          config.Config
	CVHandler       *cvs.Handler
	PipelineHandler *pipeline.Handler
	DedupeHandler   *dedupe.Handler
	Criteria        matching.Config
	Taxonomy        *skills.Taxonomy
	StorageMode     string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "dev" || deps.Config.Env == "local" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "storage": deps.StorageMode})
	})

	registerConfigRoutes(api, deps.Criteria, deps.Taxonomy)

	deps.PipelineHandler.RegisterRoutes(api)
	deps.DedupeHandler.RegisterRoutes(api)
	deps.CVHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
