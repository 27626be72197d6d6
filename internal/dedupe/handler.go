package dedupe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/shared/server/respond"
)

// Handler exposes duplicate maintenance operations over HTTP.
type Handler struct {
	Detector *Detector
}

// NewHandler constructs a Handler.
func NewHandler(detector *Detector) *Handler {
	return &Handler{Detector: detector}
}

// RegisterRoutes attaches duplicate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cvs/duplicate-stats", h.stats)
	rg.POST("/cvs/reprocess-duplicates", h.reprocess)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Detector.CorpusStats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to compute duplicate statistics", err.Error())
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) reprocess(c *gin.Context) {
	result, err := h.Detector.Reprocess(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "reprocessing failed", err.Error())
		return
	}
	respond.OK(c, result)
}
