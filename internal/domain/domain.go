package domain

import (
	"github.com/cardesignspace/gallery-backend/internal/domain/curation"
	"github.com/cardesignspace/gallery-backend/internal/domain/gallery"
	"github.com/cardesignspace/gallery-backend/internal/domain/search"
	"github.com/cardesignspace/gallery-backend/internal/domain/tagging"
)

type Image = gallery.Image

type Tag = tagging.Tag
type ImageTag = tagging.ImageTag

type ImageCuration = curation.ImageCuration

type SearchStat = search.SearchStat
type SearchHistory = search.SearchHistory

const (
	TagStatusActive   = tagging.TagStatusActive
	TagStatusDisabled = tagging.TagStatusDisabled

	TagTypeManual = tagging.TagTypeManual
	TagTypeAI     = tagging.TagTypeAI
	TagTypeSystem = tagging.TagTypeSystem

	SourceManual = tagging.SourceManual
	SourceAI     = tagging.SourceAI
	SourceSystem = tagging.SourceSystem

	ProvenanceHuman     = curation.ProvenanceHuman
	ProvenanceMigration = curation.ProvenanceMigration
)
