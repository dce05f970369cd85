package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
	"github.com/cardesignspace/gallery-backend/internal/services"
)

type CurationHandler struct {
	log             *logger.Logger
	curationService services.CurationService
}

func NewCurationHandler(log *logger.Logger, curationService services.CurationService) *CurationHandler {
	return &CurationHandler{
		log:             log.With("handler", "CurationHandler"),
		curationService: curationService,
	}
}

type setCurationRequest struct {
	IsCurated  bool       `json:"is_curated"`
	Score      float64    `json:"curation_score"`
	Curator    string     `json:"curator"`
	Reason     string     `json:"reason"`
	ValidUntil *time.Time `json:"valid_until"`
}

// PUT /api/images/:id/curation
func (h *CurationHandler) SetCuration(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return
	}
	var req setCurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	record, err := h.curationService.SetCuration(c.Request.Context(), imageID, services.CurationInput{
		IsCurated:  req.IsCurated,
		Score:      req.Score,
		Curator:    req.Curator,
		Reason:     req.Reason,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		h.log.Error("SetCuration failed", "error", err, "image_id", imageID)
		RespondServiceError(c, err, "set_curation_failed")
		return
	}
	RespondOK(c, gin.H{"curation": record})
}

// DELETE /api/images/:id/curation
func (h *CurationHandler) RemoveCuration(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return
	}
	if err := h.curationService.RemoveCuration(c.Request.Context(), imageID); err != nil {
		h.log.Error("RemoveCuration failed", "error", err, "image_id", imageID)
		RespondServiceError(c, err, "remove_curation_failed")
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

// GET /api/curations?expire=&page=&limit=
func (h *CurationHandler) ListCurations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	rows, total, err := h.curationService.ListCurations(c.Request.Context(), c.DefaultQuery("expire", "active"), time.Now(), limit, (page-1)*limit)
	if err != nil {
		h.log.Error("ListCurations failed", "error", err)
		RespondServiceError(c, err, "list_curations_failed")
		return
	}
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	RespondOK(c, gin.H{
		"curations": rows,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	})
}
