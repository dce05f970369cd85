package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/normalization"
	"github.com/cardesignspace/gallery-backend/internal/platform/apierr"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type TagLinkOptions struct {
	Source     string
	Confidence *float64
	Weight     *float64
	AddedBy    *uuid.UUID
}

// BatchResult summarizes a bulk tagging call: rows newly linked, rows
// already in place, and rows that errored and were logged past.
type BatchResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// TaggingService is the association index between images and tags. Link
// writes and the popularity counter they drive share one transaction, so
// a duplicate request is a no-op with no counter drift and a crash can
// never leave popularity out of step with the live links.
type TaggingService interface {
	TagImage(ctx context.Context, imageID, tagID uuid.UUID, opts TagLinkOptions) error
	UntagImage(ctx context.Context, imageID, tagID uuid.UUID) error
	TagImageByNames(ctx context.Context, imageID uuid.UUID, names []string, source string, addedBy *uuid.UUID) (BatchResult, error)

	ListTagsForImage(ctx context.Context, imageID uuid.UUID) ([]*types.Tag, error)
	HasAnyTag(ctx context.Context, imageID uuid.UUID) (bool, error)

	ReplaceImageTagList(ctx context.Context, imageID uuid.UUID, names []string) ([]string, error)
	ListImagesForTagging(ctx context.Context, hasTags *bool, search string, limit, offset int) ([]*types.Image, int64, error)

	// ReconcilePopularity recounts every tag's popularity from the live
	// association rows. Safety net for counter drift; reports how many
	// tags were repaired.
	ReconcilePopularity(ctx context.Context) (int64, error)
}

type taggingService struct {
	db           *gorm.DB
	log          *logger.Logger
	imageRepo    repos.ImageRepo
	tagRepo      repos.TagRepo
	imageTagRepo repos.ImageTagRepo
}

func NewTaggingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	imageRepo repos.ImageRepo,
	tagRepo repos.TagRepo,
	imageTagRepo repos.ImageTagRepo,
) TaggingService {
	return &taggingService{
		db:           db,
		log:          baseLog.With("service", "TaggingService"),
		imageRepo:    imageRepo,
		tagRepo:      tagRepo,
		imageTagRepo: imageTagRepo,
	}
}

func (s *taggingService) TagImage(ctx context.Context, imageID, tagID uuid.UUID, opts TagLinkOptions) error {
	_, err := s.linkTag(ctx, imageID, tagID, opts)
	return err
}

// linkTag reports whether a new link was written. "Already tagged" is
// success with inserted=false.
func (s *taggingService) linkTag(ctx context.Context, imageID, tagID uuid.UUID, opts TagLinkOptions) (bool, error) {
	exists, err := s.imageRepo.Exists(ctx, nil, imageID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}
	tag, err := s.tagRepo.GetByID(ctx, nil, tagID)
	if err != nil {
		return false, err
	}
	if tag == nil {
		return false, apierr.NotFound("tag_not_found", fmt.Errorf("tag %s does not exist", tagID))
	}

	source := opts.Source
	if source == "" {
		source = types.SourceManual
	}
	inserted := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &types.ImageTag{
			ImageID:    imageID,
			TagID:      tagID,
			Source:     source,
			Confidence: opts.Confidence,
			Weight:     opts.Weight,
			AddedBy:    opts.AddedBy,
		}
		n, err := s.imageTagRepo.CreateIgnoreDuplicates(ctx, tx, []*types.ImageTag{row})
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		inserted = true
		return s.tagRepo.BumpPopularity(ctx, tx, tagID, +1)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (s *taggingService) UntagImage(ctx context.Context, imageID, tagID uuid.UUID) error {
	tag, err := s.tagRepo.GetByID(ctx, nil, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return apierr.NotFound("tag_not_found", fmt.Errorf("tag %s does not exist", tagID))
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := s.imageTagRepo.DeleteByPair(ctx, tx, imageID, tagID)
		if err != nil {
			return err
		}
		if !removed {
			// Already untagged: success, not an error.
			return nil
		}
		return s.tagRepo.BumpPopularity(ctx, tx, tagID, -1)
	})
}

func (s *taggingService) TagImageByNames(ctx context.Context, imageID uuid.UUID, names []string, source string, addedBy *uuid.UUID) (BatchResult, error) {
	var result BatchResult
	exists, err := s.imageRepo.Exists(ctx, nil, imageID)
	if err != nil {
		return result, err
	}
	if !exists {
		return result, apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}
	if source == "" {
		source = types.SourceManual
	}

	for _, name := range names {
		name = normalization.NormalizeTagName(name)
		if name == "" {
			result.Skipped++
			continue
		}
		tag, err := s.tagRepo.UpsertByName(ctx, nil, name, "", source)
		if err != nil || tag == nil {
			s.log.Warn("tag upsert failed, continuing batch", "image_id", imageID, "tag_name", name, "error", err)
			result.Failed++
			continue
		}
		inserted, err := s.linkTag(ctx, imageID, tag.ID, TagLinkOptions{Source: source, AddedBy: addedBy})
		if err != nil {
			s.log.Warn("tag link failed, continuing batch", "image_id", imageID, "tag_id", tag.ID, "error", err)
			result.Failed++
			continue
		}
		if inserted {
			result.Applied++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func (s *taggingService) ListTagsForImage(ctx context.Context, imageID uuid.UUID) ([]*types.Tag, error) {
	exists, err := s.imageRepo.Exists(ctx, nil, imageID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}
	links, err := s.imageTagRepo.GetByImageID(ctx, nil, imageID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TagID)
	}
	return s.tagRepo.GetByIDs(ctx, nil, ids)
}

func (s *taggingService) HasAnyTag(ctx context.Context, imageID uuid.UUID) (bool, error) {
	img, err := s.imageRepo.GetByID(ctx, nil, imageID)
	if err != nil {
		return false, err
	}
	if img == nil {
		return false, apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}
	return normalization.HasTagValues(img.Tags), nil
}

func (s *taggingService) ReplaceImageTagList(ctx context.Context, imageID uuid.UUID, names []string) ([]string, error) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := normalization.NormalizeTagName(name)
		if trimmed == "" || len([]rune(trimmed)) > 50 {
			return nil, apierr.Validation("invalid_tag_list", fmt.Errorf("each tag must be 1-50 characters"))
		}
		cleaned = append(cleaned, trimmed)
	}
	exists, err := s.imageRepo.Exists(ctx, nil, imageID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}
	raw, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	if err := s.imageRepo.UpdateTagsField(ctx, nil, imageID, datatypes.JSON(raw)); err != nil {
		return nil, err
	}
	return cleaned, nil
}

func (s *taggingService) ListImagesForTagging(ctx context.Context, hasTags *bool, search string, limit, offset int) ([]*types.Image, int64, error) {
	return s.imageRepo.ListForTagging(ctx, nil, hasTags, search, limit, offset)
}

func (s *taggingService) ReconcilePopularity(ctx context.Context) (int64, error) {
	repaired, err := s.tagRepo.RecountPopularity(ctx, nil)
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		s.log.Warn("popularity counters were out of sync and repaired", "tags_repaired", repaired)
	}
	return repaired, nil
}
