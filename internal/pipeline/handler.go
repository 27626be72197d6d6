package pipeline

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/extract"
	"cv-shortlisting-backend/internal/shared/server/respond"
)

// Handler exposes batch and single-file ingestion over HTTP.
type Handler struct {
	Runner          *Runner
	DefaultInputDir string
}

// NewHandler constructs a Handler.
func NewHandler(runner *Runner, defaultInputDir string) *Handler {
	return &Handler{Runner: runner, DefaultInputDir: defaultInputDir}
}

// RegisterRoutes attaches ingestion routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cvs/process", h.processDirectory)
	rg.POST("/cvs/process-file", h.processFile)
}

type processRequest struct {
	Directory string `json:"directory"`
	Async     bool   `json:"async"`
}

func (h *Handler) processDirectory(c *gin.Context) {
	var req processRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	dir := strings.TrimSpace(req.Directory)
	if dir == "" {
		dir = h.DefaultInputDir
	}
	if dir == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "directory is required", nil)
		return
	}

	if req.Async {
		batchID, err := h.Runner.StartDirectory(dir)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidDirectory):
				respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			case errors.Is(err, ErrNoFiles):
				respond.Error(c, http.StatusBadRequest, "validation_error", "no supported files in directory", nil)
			default:
				respond.Error(c, http.StatusInternalServerError, "internal", "batch processing failed", err.Error())
			}
			return
		}
		c.Set("batchId", batchID)
		respond.Accepted(c, gin.H{"batchId": batchID, "status": "processing"})
		return
	}

	stats, err := h.Runner.ProcessDirectory(c.Request.Context(), dir)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDirectory):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNoFiles):
			respond.Error(c, http.StatusBadRequest, "validation_error", "no supported files in directory", nil)
		case errors.Is(err, ErrSkipLimitExceeded):
			respond.Error(c, http.StatusInternalServerError, "skip_limit_exceeded", err.Error(), stats)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "batch processing failed", err.Error())
		}
		return
	}
	c.Set("batchId", stats.BatchID)
	respond.OK(c, stats)
}

type processFileRequest struct {
	FilePath string `json:"filePath"`
}

func (h *Handler) processFile(c *gin.Context) {
	var req processFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	path := strings.TrimSpace(req.FilePath)
	if path == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "filePath is required", nil)
		return
	}

	cv, err := h.Runner.ProcessSingleFile(c.Request.Context(), path)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupported):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "file processing failed", err.Error())
		}
		return
	}
	c.Set("batchId", cv.BatchID)
	respond.Created(c, cv)
}
