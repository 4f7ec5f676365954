package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/ctxutil"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
	"github.com/adaptiq/adaptiq-backend/internal/platform/ollama"
	"github.com/adaptiq/adaptiq-backend/internal/platform/pending"
)

const maxContentRunes = 20000

type SimplifyInput struct {
	Content        string `json:"content"`
	DisabilityType string `json:"disabilityType"`
	AgeGroup       string `json:"ageGroup"`
}

type AlternativeInput struct {
	Concept       string `json:"concept"`
	Current       string `json:"currentExplanation"`
	LearningStyle string `json:"learningStyle"`
}

type ContentService interface {
	// Process is the local heuristic reading aid; it never calls the LLM.
	Process(ctx context.Context, text string, opts adaptation.ProcessOptions) (adaptation.Processed, error)
	Simplify(ctx context.Context, in SimplifyInput) (string, error)
	Alternative(ctx context.Context, in AlternativeInput) (string, error)
}

type contentService struct {
	log         *logger.Logger
	engine      *adaptation.Engine
	llm         ollama.Client
	profileRepo repos.ProfileRepo
	slots       *pending.Slots
}

// NewContentService accepts a nil llm; the LLM-backed calls then report
// apierr.ErrUnavailable.
func NewContentService(log *logger.Logger, engine *adaptation.Engine, llm ollama.Client, profileRepo repos.ProfileRepo) ContentService {
	if engine == nil {
		engine = adaptation.New()
	}
	return &contentService{
		log:         log.With("service", "ContentService"),
		engine:      engine,
		llm:         llm,
		profileRepo: profileRepo,
		slots:       pending.New(),
	}
}

func (s *contentService) Process(ctx context.Context, text string, opts adaptation.ProcessOptions) (adaptation.Processed, error) {
	if err := checkText(text); err != nil {
		return adaptation.Processed{}, err
	}
	return s.engine.Process(text, opts)
}

func (s *contentService) Simplify(ctx context.Context, in SimplifyInput) (string, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return "", err
	}
	if s.llm == nil {
		return "", fmt.Errorf("content simplification: %w", apierr.ErrUnavailable)
	}
	if err := checkText(in.Content); err != nil {
		return "", err
	}
	if in.DisabilityType == "" || in.AgeGroup == "" {
		p, age := s.learnerHints(ctx)
		if in.DisabilityType == "" {
			in.DisabilityType = p
		}
		if in.AgeGroup == "" {
			in.AgeGroup = age
		}
	}
	return runLatest(ctx, s.slots, slotKey(userID, "simplify"), func(ctx context.Context) (string, error) {
		return callProvider("ollama", "simplify", func() (string, error) {
			return s.llm.SimplifyContent(ctx, in.Content, in.DisabilityType, in.AgeGroup)
		})
	})
}

func (s *contentService) Alternative(ctx context.Context, in AlternativeInput) (string, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return "", err
	}
	if s.llm == nil {
		return "", fmt.Errorf("alternative explanation: %w", apierr.ErrUnavailable)
	}
	in.Concept = strings.TrimSpace(in.Concept)
	if in.Concept == "" {
		return "", apierr.Invalid("concept required")
	}
	if err := checkText(in.Current); err != nil {
		return "", err
	}
	if in.LearningStyle == "" {
		in.LearningStyle = s.learningStyle(ctx)
	}
	return runLatest(ctx, s.slots, slotKey(userID, "alternative"), func(ctx context.Context) (string, error) {
		return callProvider("ollama", "alternative", func() (string, error) {
			return s.llm.AlternativeExplanation(ctx, in.Concept, in.Current, in.LearningStyle)
		})
	})
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apierr.Invalid("text required")
	}
	if len([]rune(text)) > maxContentRunes {
		return apierr.Invalid("text longer than %d characters", maxContentRunes)
	}
	return nil
}

func (s *contentService) profile(ctx context.Context) (*learner.ProfileRecord, error) {
	if s.profileRepo == nil {
		return nil, nil
	}
	return s.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, ctxutil.LearnerID(ctx))
}

// learnerHints fills the simplify prompt from the stored profile.
func (s *contentService) learnerHints(ctx context.Context) (string, string) {
	disability, age := "learning differences", "8"
	row, err := s.profile(ctx)
	if err != nil {
		s.log.Warn("Profile lookup for simplify failed", "error", err)
		return disability, age
	}
	if row == nil {
		return disability, age
	}
	if len(row.DisabilityTypes) > 0 {
		names := make([]string, len(row.DisabilityTypes))
		for i, d := range row.DisabilityTypes {
			names[i] = strings.ReplaceAll(string(d), "_", " ")
		}
		disability = strings.Join(names, " and ")
	}
	if row.Age > 0 {
		age = strconv.Itoa(row.Age)
	}
	return disability, age
}

func (s *contentService) learningStyle(ctx context.Context) string {
	row, err := s.profile(ctx)
	if err != nil || row == nil {
		return "visual"
	}
	prefs := row.LearningPreferences.Data()
	switch {
	case prefs.VisualLearner:
		return "visual"
	case prefs.AuditoryLearner:
		return "auditory"
	case prefs.KinestheticLearner:
		return "kinesthetic"
	default:
		return "visual"
	}
}
