package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/observability"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

// Evaluation is the parameter set plus the names of the rules that produced it.
type Evaluation struct {
	Parameters adaptation.Parameters `json:"parameters"`
	FiredRules []string              `json:"firedRules"`
}

type AdaptOptions struct {
	// IncludeSimplified also runs the content processor over the lesson
	// instructions and attaches the result as a fourth alternative format.
	IncludeSimplified bool
	TargetAge         int
}

type AdaptationService interface {
	// Evaluate uses the caller's stored profile unless override is set.
	Evaluate(ctx context.Context, override *learner.Profile) (Evaluation, error)
	Adapt(ctx context.Context, content adaptation.Content, opts AdaptOptions) (adaptation.AdaptedContent, error)
	Recommend(ctx context.Context) ([]adaptation.Recommendation, error)
}

type adaptationService struct {
	log         *logger.Logger
	engine      *adaptation.Engine
	profileRepo repos.ProfileRepo
	settings    SettingsService
}

func NewAdaptationService(log *logger.Logger, engine *adaptation.Engine, profileRepo repos.ProfileRepo, settings SettingsService) AdaptationService {
	if engine == nil {
		engine = adaptation.New()
	}
	return &adaptationService{
		log:         log.With("service", "AdaptationService"),
		engine:      engine,
		profileRepo: profileRepo,
		settings:    settings,
	}
}

// learnerState loads the profile and settings concurrently. A learner without
// a stored profile is adapted as one with no declared needs.
func (s *adaptationService) learnerState(ctx context.Context, userID uuid.UUID, skipProfile bool) (learner.Profile, accessibility.Settings, error) {
	var (
		p  learner.Profile
		st accessibility.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	if !skipProfile {
		g.Go(func() error {
			row, err := s.profileRepo.GetByUserID(dbctx.Context{Ctx: gctx}, userID)
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			if row == nil {
				p, err = learner.Normalize(learner.Profile{ID: userID.String()})
				return err
			}
			p = row.Profile()
			return nil
		})
	}
	g.Go(func() error {
		var err error
		st, err = s.settings.ForUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return learner.Profile{}, accessibility.Settings{}, err
	}
	return p, st, nil
}

func (s *adaptationService) Evaluate(ctx context.Context, override *learner.Profile) (Evaluation, error) {
	ctx, span := observability.Tracer().Start(ctx, "adaptation.Evaluate")
	defer span.End()

	userID, err := learnerID(ctx)
	if err != nil {
		return Evaluation{}, err
	}
	p, st, err := s.learnerState(ctx, userID, override != nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, err
	}
	if override != nil {
		if p, err = learner.Normalize(*override); err != nil {
			return Evaluation{}, err
		}
	}
	params, fired := s.engine.Explain(p, st)
	span.SetAttributes(attribute.StringSlice("adaptation.rules", fired))
	observability.Current().ObserveAdaptation("evaluate", fired)
	return Evaluation{Parameters: params, FiredRules: fired}, nil
}

func (s *adaptationService) Adapt(ctx context.Context, content adaptation.Content, opts AdaptOptions) (adaptation.AdaptedContent, error) {
	ctx, span := observability.Tracer().Start(ctx, "adaptation.Adapt")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.id", content.ID))

	userID, err := learnerID(ctx)
	if err != nil {
		return adaptation.AdaptedContent{}, err
	}
	p, st, err := s.learnerState(ctx, userID, false)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return adaptation.AdaptedContent{}, err
	}

	params, fired := s.engine.Explain(p, st)
	out := s.engine.Transform(content, params, p)
	if opts.IncludeSimplified {
		processed, err := s.engine.Process(content.Instructions, adaptation.ProcessOptions{
			TargetAge:       opts.TargetAge,
			Focus:           focusFor(p),
			ComplexityLevel: adaptation.ReadingLevelFor(params.TextComplexity),
		})
		if err != nil {
			return adaptation.AdaptedContent{}, err
		}
		out.AlternativeFormats.Simplified = &processed
	}

	m := observability.Current()
	m.ObserveAdaptation("adapt", fired)
	m.ObserveConfidence(out.ConfidenceScore)
	span.SetAttributes(
		attribute.StringSlice("adaptation.rules", fired),
		attribute.Float64("adaptation.confidence", out.ConfidenceScore),
	)
	return out, nil
}

func (s *adaptationService) Recommend(ctx context.Context) ([]adaptation.Recommendation, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if row == nil {
		return []adaptation.Recommendation{}, nil
	}
	return s.engine.Recommend(row.Profile()), nil
}

// focusFor picks the processor rewrite for a learner: the first of dyslexia,
// adhd, autism that is declared.
func focusFor(p learner.Profile) adaptation.Focus {
	switch {
	case p.Has(learner.Dyslexia):
		return adaptation.FocusDyslexia
	case p.Has(learner.ADHD):
		return adaptation.FocusADHD
	case p.Has(learner.Autism):
		return adaptation.FocusAutism
	default:
		return adaptation.FocusGeneral
	}
}
