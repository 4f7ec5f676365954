package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adaptiq/adaptiq-backend/internal/data/repos"
	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
	"github.com/adaptiq/adaptiq-backend/internal/platform/dbctx"
	"github.com/adaptiq/adaptiq-backend/internal/platform/logger"
)

// SignEntry is a dictionary sign annotated for the caller.
type SignEntry struct {
	catalog.Sign
	Favorite bool `json:"favorite"`
}

type DictionaryService interface {
	Search(ctx context.Context, q catalog.SignQuery) ([]SignEntry, error)
	Categories(ctx context.Context) []string
	// ToggleFavorite stars or unstars a word and reports the new state.
	ToggleFavorite(ctx context.Context, word string) (bool, error)
	Favorites(ctx context.Context) ([]catalog.Sign, error)
}

type dictionaryService struct {
	log          *logger.Logger
	catalog      *catalog.Catalog
	favoriteRepo repos.FavoriteRepo
	pub          events.Publisher
}

func NewDictionaryService(log *logger.Logger, cat *catalog.Catalog, favoriteRepo repos.FavoriteRepo, pub events.Publisher) DictionaryService {
	return &dictionaryService{
		log:          log.With("service", "DictionaryService"),
		catalog:      cat,
		favoriteRepo: favoriteRepo,
		pub:          pub,
	}
}

func (s *dictionaryService) favoriteSet(ctx context.Context) (map[string]bool, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, err
	}
	words, err := s.favoriteRepo.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set, nil
}

func (s *dictionaryService) Search(ctx context.Context, q catalog.SignQuery) ([]SignEntry, error) {
	favs, err := s.favoriteSet(ctx)
	if err != nil {
		return nil, err
	}
	signs := s.catalog.Search(q)
	out := make([]SignEntry, len(signs))
	for i, sg := range signs {
		out[i] = SignEntry{Sign: sg, Favorite: favs[sg.Word]}
	}
	return out, nil
}

func (s *dictionaryService) Categories(ctx context.Context) []string {
	return s.catalog.Categories()
}

func (s *dictionaryService) ToggleFavorite(ctx context.Context, word string) (bool, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return false, err
	}
	sign, err := s.catalog.Sign(word)
	if err != nil {
		return false, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	removed, err := s.favoriteRepo.Remove(dbc, userID, sign.Word)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	if removed {
		publish(ctx, s.log, s.pub, events.New(events.FavoriteRemoved, userID.String(), map[string]any{"word": sign.Word}))
		return false, nil
	}
	if err := s.favoriteRepo.Add(dbc, userID, sign.Word); err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	publish(ctx, s.log, s.pub, events.New(events.FavoriteAdded, userID.String(), map[string]any{"word": sign.Word}))
	return true, nil
}

// Favorites returns the starred signs in the order they were starred. Words
// no longer in the dictionary are skipped.
func (s *dictionaryService) Favorites(ctx context.Context) ([]catalog.Sign, error) {
	userID, err := learnerID(ctx)
	if err != nil {
		return nil, err
	}
	words, err := s.favoriteRepo.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	out := make([]catalog.Sign, 0, len(words))
	for _, w := range words {
		sg, err := s.catalog.Sign(w)
		if errors.Is(err, apierr.ErrNotFound) {
			s.log.Debug("Skipping favorite missing from dictionary", "word", w)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, nil
}
