package cvs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches CV routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cvs/shortlisted", h.shortlisted)
	rg.GET("/cvs/duplicates", h.duplicates)
	rg.GET("/cvs/search", h.search)
	rg.GET("/cvs/status/:status", h.byStatus)
	rg.GET("/cvs/batch/:batchId", h.byBatch)
	rg.GET("/cvs/batch/:batchId/stats", h.batchStats)
	rg.GET("/cvs/stats", h.stats)
	rg.GET("/cvs/:id", h.get)
	rg.PATCH("/cvs/:id/status", h.updateStatus)
	rg.DELETE("/cvs/:id", h.remove)
}

func (h *Handler) shortlisted(c *gin.Context) {
	limit, offset := pageParams(c)
	records, err := h.Svc.ListShortlisted(c.Request.Context(), c.Query("skill"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list shortlisted CVs", err.Error())
		return
	}
	respond.OK(c, toListResponse(records))
}

func (h *Handler) duplicates(c *gin.Context) {
	limit, offset := pageParams(c)
	records, err := h.Svc.ListDuplicates(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list duplicate CVs", err.Error())
		return
	}
	respond.OK(c, toListResponse(records))
}

func (h *Handler) search(c *gin.Context) {
	limit, offset := pageParams(c)
	records, err := h.Svc.Search(c.Request.Context(), c.Query("query"), c.Query("status"), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to search CVs", err.Error())
		}
		return
	}
	respond.OK(c, toListResponse(records))
}

func (h *Handler) byStatus(c *gin.Context) {
	limit, offset := pageParams(c)
	records, err := h.Svc.ListByStatus(c.Request.Context(), c.Param("status"), limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list CVs", err.Error())
		return
	}
	respond.OK(c, toListResponse(records))
}

func (h *Handler) byBatch(c *gin.Context) {
	batchID := c.Param("batchId")
	c.Set("batchId", batchID)
	records, err := h.Svc.ListByBatch(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "batchId is required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list batch CVs", err.Error())
		return
	}
	respond.OK(c, toListResponse(records))
}

func (h *Handler) batchStats(c *gin.Context) {
	batchID := c.Param("batchId")
	c.Set("batchId", batchID)
	counts, err := h.Svc.BatchCounts(c.Request.Context(), batchID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to compute batch statistics", err.Error())
		return
	}
	respond.OK(c, counts)
}

func (h *Handler) stats(c *gin.Context) {
	counts, err := h.Svc.Counts(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to compute statistics", err.Error())
		return
	}
	respond.OK(c, counts)
}

func (h *Handler) get(c *gin.Context) {
	cv, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "CV not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to fetch CV", err.Error())
		}
		return
	}
	respond.OK(c, toResponse(cv))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	cv, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "CV not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to update status", err.Error())
		}
		return
	}
	respond.OK(c, toResponse(cv))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "CV not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal", "failed to delete CV", err.Error())
		}
		return
	}
	respond.JSON(c, http.StatusNoContent, nil)
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
