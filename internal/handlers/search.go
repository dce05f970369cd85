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

type SearchHandler struct {
	log                *logger.Logger
	searchStatsService services.SearchStatsService
}

func NewSearchHandler(log *logger.Logger, searchStatsService services.SearchStatsService) *SearchHandler {
	return &SearchHandler{
		log:                log.With("handler", "SearchHandler"),
		searchStatsService: searchStatsService,
	}
}

type recordSearchRequest struct {
	Query           string  `json:"query"`
	TranslatedQuery *string `json:"translated_query"`
	UserID          *string `json:"user_id"`
	SessionID       *string `json:"session_id"`
	SearchType      string  `json:"search_type"`
	ResultsCount    int     `json:"results_count"`
	IsSuccessful    *bool   `json:"is_successful"`
	ErrorMessage    *string `json:"error_message"`
}

// POST /api/search/record
func (h *SearchHandler) RecordSearch(c *gin.Context) {
	start := time.Now()
	var req recordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	var userID *uuid.UUID
	if req.UserID != nil {
		if id, err := uuid.Parse(*req.UserID); err == nil {
			userID = &id
		}
	}
	successful := true
	if req.IsSuccessful != nil {
		successful = *req.IsSuccessful
	}

	query, err := h.searchStatsService.RecordSearch(c.Request.Context(), services.RecordSearchInput{
		Query:           req.Query,
		TranslatedQuery: req.TranslatedQuery,
		UserID:          userID,
		SessionID:       req.SessionID,
		SearchType:      req.SearchType,
		ResultsCount:    req.ResultsCount,
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
		Referrer:        c.Request.Referer(),
		DurationMS:      int(time.Since(start).Milliseconds()),
		IsSuccessful:    successful,
		ErrorMessage:    req.ErrorMessage,
	})
	if err != nil {
		h.log.Error("RecordSearch failed", "error", err)
		RespondServiceError(c, err, "record_search_failed")
		return
	}
	RespondOK(c, gin.H{"recorded": true, "query": query})
}

// GET /api/search/popular?limit=&days=
func (h *SearchHandler) PopularSearches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	top, err := h.searchStatsService.TopSearches(c.Request.Context(), limit, days)
	if err != nil {
		h.log.Error("PopularSearches failed", "error", err)
		RespondServiceError(c, err, "popular_searches_failed")
		return
	}
	RespondOK(c, gin.H{"searches": top})
}
