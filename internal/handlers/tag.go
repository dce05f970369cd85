package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
	"github.com/cardesignspace/gallery-backend/internal/services"
)

type TagHandler struct {
	log            *logger.Logger
	tagService     services.TagService
	taggingService services.TaggingService
}

func NewTagHandler(log *logger.Logger, tagService services.TagService, taggingService services.TaggingService) *TagHandler {
	return &TagHandler{
		log:            log.With("handler", "TagHandler"),
		tagService:     tagService,
		taggingService: taggingService,
	}
}

// GET /api/tags?category=&q=&limit=
func (h *TagHandler) ListTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	tags, err := h.tagService.ListTags(c.Request.Context(), c.Query("category"), c.Query("q"), limit)
	if err != nil {
		h.log.Error("ListTags failed", "error", err)
		RespondServiceError(c, err, "list_tags_failed")
		return
	}
	RespondOK(c, gin.H{"tags": tags})
}

type createTagRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// POST /api/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	tag, err := h.tagService.UpsertTag(c.Request.Context(), req.Name, req.Category, req.Type)
	if err != nil {
		h.log.Error("CreateTag failed", "error", err, "name", req.Name)
		RespondServiceError(c, err, "create_tag_failed")
		return
	}
	RespondOK(c, gin.H{"tag": tag})
}

// PUT /api/tags/:id
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_tag_id", err)
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	tag, err := h.tagService.UpdateTag(c.Request.Context(), id, updates)
	if err != nil {
		h.log.Error("UpdateTag failed", "error", err, "tag_id", id)
		RespondServiceError(c, err, "update_tag_failed")
		return
	}
	RespondOK(c, gin.H{"tag": tag})
}

// DELETE /api/tags/:id disables the tag rather than deleting the row.
func (h *TagHandler) DisableTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_tag_id", err)
		return
	}
	if err := h.tagService.DisableTag(c.Request.Context(), id); err != nil {
		h.log.Error("DisableTag failed", "error", err, "tag_id", id)
		RespondServiceError(c, err, "disable_tag_failed")
		return
	}
	RespondOK(c, gin.H{"disabled": true})
}

type addTagsRequest struct {
	Tags   []string `json:"tags"`
	Source string   `json:"source"`
}

// POST /api/images/:id/tags
func (h *TagHandler) AddTagsToImage(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return
	}
	var req addTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := h.taggingService.TagImageByNames(c.Request.Context(), imageID, req.Tags, req.Source, nil)
	if err != nil {
		h.log.Error("AddTagsToImage failed", "error", err, "image_id", imageID)
		RespondServiceError(c, err, "add_tags_failed")
		return
	}
	RespondOK(c, gin.H{"result": result})
}

// DELETE /api/images/:id/tags/:tagId
func (h *TagHandler) RemoveTagFromImage(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return
	}
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_tag_id", err)
		return
	}
	if err := h.taggingService.UntagImage(c.Request.Context(), imageID, tagID); err != nil {
		h.log.Error("RemoveTagFromImage failed", "error", err, "image_id", imageID, "tag_id", tagID)
		RespondServiceError(c, err, "remove_tag_failed")
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

// GET /api/images/:id/tags
func (h *TagHandler) GetImageTags(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return
	}
	tags, err := h.taggingService.ListTagsForImage(c.Request.Context(), imageID)
	if err != nil {
		h.log.Error("GetImageTags failed", "error", err, "image_id", imageID)
		RespondServiceError(c, err, "get_image_tags_failed")
		return
	}
	RespondOK(c, gin.H{"image_id": imageID, "tags": tags})
}

type replaceTagsRequest struct {
	Tags []string `json:"tags"`
}

// PUT /api/images/:id/tags replaces the legacy denormalized tag list.
func (h *TagHandler) ReplaceImageTags(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image_id", err)
		return
	}
	var req replaceTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Tags == nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	tags, err := h.taggingService.ReplaceImageTagList(c.Request.Context(), imageID, req.Tags)
	if err != nil {
		h.log.Error("ReplaceImageTags failed", "error", err, "image_id", imageID)
		RespondServiceError(c, err, "replace_tags_failed")
		return
	}
	RespondOK(c, gin.H{"image_id": imageID, "tags": tags})
}

// GET /api/images/tagging?hasTags=&search=&page=&limit=
func (h *TagHandler) ListImagesForTagging(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	var hasTags *bool
	switch c.Query("hasTags") {
	case "true":
		v := true
		hasTags = &v
	case "false":
		v := false
		hasTags = &v
	}

	images, total, err := h.taggingService.ListImagesForTagging(c.Request.Context(), hasTags, c.Query("search"), limit, (page-1)*limit)
	if err != nil {
		h.log.Error("ListImagesForTagging failed", "error", err)
		RespondServiceError(c, err, "list_images_failed")
		return
	}
	RespondOK(c, gin.H{
		"images": images,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
