package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cardesignspace/gallery-backend/internal/handlers"
)

type RouterConfig struct {
	TagHandler      *handlers.TagHandler
	CurationHandler *handlers.CurationHandler
	SearchHandler   *handlers.SearchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Tags
		api.GET("/tags", cfg.TagHandler.ListTags)
		api.POST("/tags", cfg.TagHandler.CreateTag)
		api.PUT("/tags/:id", cfg.TagHandler.UpdateTag)
		api.DELETE("/tags/:id", cfg.TagHandler.DisableTag)

		// Image tagging
		api.GET("/images/tagging", cfg.TagHandler.ListImagesForTagging)
		api.POST("/images/:id/tags", cfg.TagHandler.AddTagsToImage)
		api.GET("/images/:id/tags", cfg.TagHandler.GetImageTags)
		api.PUT("/images/:id/tags", cfg.TagHandler.ReplaceImageTags)
		api.DELETE("/images/:id/tags/:tagId", cfg.TagHandler.RemoveTagFromImage)

		// Curation
		api.PUT("/images/:id/curation", cfg.CurationHandler.SetCuration)
		api.DELETE("/images/:id/curation", cfg.CurationHandler.RemoveCuration)
		api.GET("/curations", cfg.CurationHandler.ListCurations)

		// Search stats
		api.POST("/search/record", cfg.SearchHandler.RecordSearch)
		api.GET("/search/popular", cfg.SearchHandler.PopularSearches)
	}

	return router
}
