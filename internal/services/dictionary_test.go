package services

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adaptiq/adaptiq-backend/internal/events"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

func newDictionaryService(t *testing.T, d testDeps) DictionaryService {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return NewDictionaryService(d.log, cat, d.favorites, d.pub)
}

func TestDictionaryToggleFavorite(t *testing.T) {
	d := newTestDeps(t)
	svc := newDictionaryService(t, d)
	ctx, _ := learnerCtx(t)

	if _, err := svc.ToggleFavorite(ctx, "Friend"); err != nil {
		t.Fatalf("toggle Friend: %v", err)
	}
	on, err := svc.ToggleFavorite(ctx, "hello")
	if err != nil || !on {
		t.Fatalf("toggle hello=(%v,%v), want on", on, err)
	}

	favs, err := svc.Favorites(ctx)
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	var words []string
	for _, s := range favs {
		words = append(words, s.Word)
	}
	if diff := cmp.Diff([]string{"Friend", "Hello"}, words); diff != "" {
		t.Fatalf("favorites mismatch (-want +got):\n%s", diff)
	}

	entries, err := svc.Search(ctx, catalog.SignQuery{Text: "hello"})
	if err != nil || len(entries) != 1 || !entries[0].Favorite {
		t.Fatalf("Search=(%+v,%v)", entries, err)
	}

	off, err := svc.ToggleFavorite(ctx, "HELLO")
	if err != nil || off {
		t.Fatalf("second toggle=(%v,%v), want off", off, err)
	}
	entries, _ = svc.Search(ctx, catalog.SignQuery{Text: "hello"})
	if len(entries) != 1 || entries[0].Favorite {
		t.Fatalf("Search after unstar=%+v", entries)
	}

	want := []events.Type{events.FavoriteAdded, events.FavoriteAdded, events.FavoriteRemoved}
	if diff := cmp.Diff(want, eventTypes(d.pub)); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDictionaryToggleUnknownWord(t *testing.T) {
	d := newTestDeps(t)
	svc := newDictionaryService(t, d)
	ctx, _ := learnerCtx(t)

	if _, err := svc.ToggleFavorite(ctx, "zeppelin"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("toggle unknown err=%v, want ErrNotFound", err)
	}
	if len(d.pub.Events()) != 0 {
		t.Fatalf("unknown word published %v", eventTypes(d.pub))
	}
}

func TestDictionaryCategories(t *testing.T) {
	d := newTestDeps(t)
	svc := newDictionaryService(t, d)
	ctx, _ := learnerCtx(t)

	cats := svc.Categories(ctx)
	if len(cats) == 0 {
		t.Fatalf("Categories empty")
	}
	seen := map[string]bool{}
	for _, c := range cats {
		if seen[c] {
			t.Fatalf("duplicate category %q in %v", c, cats)
		}
		seen[c] = true
	}
}
