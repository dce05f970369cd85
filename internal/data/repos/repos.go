package repos

import (
	"gorm.io/gorm"

	"github.com/cardesignspace/gallery-backend/internal/data/repos/curation"
	"github.com/cardesignspace/gallery-backend/internal/data/repos/gallery"
	"github.com/cardesignspace/gallery-backend/internal/data/repos/search"
	"github.com/cardesignspace/gallery-backend/internal/data/repos/tagging"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type ImageRepo = gallery.ImageRepo

type TagRepo = tagging.TagRepo
type ImageTagRepo = tagging.ImageTagRepo

type ImageCurationRepo = curation.ImageCurationRepo

type SearchStatRepo = search.SearchStatRepo
type SearchHistoryRepo = search.SearchHistoryRepo

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return gallery.NewImageRepo(db, baseLog)
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return tagging.NewTagRepo(db, baseLog)
}

func NewImageTagRepo(db *gorm.DB, baseLog *logger.Logger) ImageTagRepo {
	return tagging.NewImageTagRepo(db, baseLog)
}

func NewImageCurationRepo(db *gorm.DB, baseLog *logger.Logger) ImageCurationRepo {
	return curation.NewImageCurationRepo(db, baseLog)
}

func NewSearchStatRepo(db *gorm.DB, baseLog *logger.Logger) SearchStatRepo {
	return search.NewSearchStatRepo(db, baseLog)
}

func NewSearchHistoryRepo(db *gorm.DB, baseLog *logger.Logger) SearchHistoryRepo {
	return search.NewSearchHistoryRepo(db, baseLog)
}
