package services

import (
	"context"

	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

type LessonService interface {
	List(ctx context.Context) []adaptation.Content
	Get(ctx context.Context, id string) (adaptation.Content, error)
	// Adapted adapts a catalog lesson for the caller.
	Adapted(ctx context.Context, id string, opts AdaptOptions) (adaptation.AdaptedContent, error)
}

type lessonService struct {
	log        *logger.Logger
	catalog    *catalog.Catalog
	adaptation AdaptationService
}

func NewLessonService(log *logger.Logger, cat *catalog.Catalog, adaptationSvc AdaptationService) LessonService {
	return &lessonService{
		log:        log.With("service", "LessonService"),
		catalog:    cat,
		adaptation: adaptationSvc,
	}
}

func (s *lessonService) List(ctx context.Context) []adaptation.Content {
	if s.catalog == nil {
		return []adaptation.Content{}
	}
	return s.catalog.Lessons()
}

func (s *lessonService) Get(ctx context.Context, id string) (adaptation.Content, error) {
	if s.catalog == nil {
		return adaptation.Content{}, apierr.ErrNotFound
	}
	return s.catalog.Lesson(id)
}

func (s *lessonService) Adapted(ctx context.Context, id string, opts AdaptOptions) (adaptation.AdaptedContent, error) {
	lesson, err := s.Get(ctx, id)
	if err != nil {
		return adaptation.AdaptedContent{}, err
	}
	return s.adaptation.Adapt(ctx, lesson, opts)
}
