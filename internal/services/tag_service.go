package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/normalization"
	"github.com/cardesignspace/gallery-backend/internal/platform/apierr"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

// TagService owns tag identity: find-or-create by unique name, category
// listings ranked by popularity, and admin edits. Popularity itself is
// written only by TaggingService and the reconciliation pass.
type TagService interface {
	UpsertTag(ctx context.Context, name, category, tagType string) (*types.Tag, error)
	ListByCategory(ctx context.Context, category string) ([]*types.Tag, error)
	ListTags(ctx context.Context, category, nameQuery string, limit int) ([]*types.Tag, error)
	UpdateTag(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Tag, error)
	DisableTag(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	db      *gorm.DB
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(db *gorm.DB, baseLog *logger.Logger, tagRepo repos.TagRepo) TagService {
	return &tagService{
		db:      db,
		log:     baseLog.With("service", "TagService"),
		tagRepo: tagRepo,
	}
}

func (s *tagService) UpsertTag(ctx context.Context, name, category, tagType string) (*types.Tag, error) {
	name = normalization.NormalizeTagName(name)
	if name == "" {
		return nil, apierr.Validation("tag_name_required", fmt.Errorf("tag name is empty"))
	}
	if tagType == "" {
		tagType = types.TagTypeManual
	}
	tag, err := s.tagRepo.UpsertByName(ctx, nil, name, category, tagType)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		// The conflicting row vanished between insert and re-read; a
		// second attempt sees a settled registry.
		tag, err = s.tagRepo.UpsertByName(ctx, nil, name, category, tagType)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, apierr.Conflict("tag_upsert_race", fmt.Errorf("tag %q not visible after upsert", name))
		}
	}
	return tag, nil
}

func (s *tagService) ListByCategory(ctx context.Context, category string) ([]*types.Tag, error) {
	return s.tagRepo.ListByCategory(ctx, nil, category)
}

func (s *tagService) ListTags(ctx context.Context, category, nameQuery string, limit int) ([]*types.Tag, error) {
	return s.tagRepo.List(ctx, nil, category, nameQuery, limit)
}

func (s *tagService) UpdateTag(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apierr.NotFound("tag_not_found", fmt.Errorf("tag %s does not exist", id))
	}
	// Identity and derived fields are not editable through admin updates.
	delete(updates, "id")
	delete(updates, "popularity")
	if err := s.tagRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.tagRepo.GetByID(ctx, nil, id)
}

func (s *tagService) DisableTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.tagRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if tag == nil {
		return apierr.NotFound("tag_not_found", fmt.Errorf("tag %s does not exist", id))
	}
	return s.tagRepo.SetStatus(ctx, nil, id, types.TagStatusDisabled)
}
