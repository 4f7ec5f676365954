package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLessons(t *testing.T) {
	c := mustLoad(t)
	lessons := c.Lessons()
	if len(lessons) != 2 {
		t.Fatalf("len(Lessons())=%d, want 2", len(lessons))
	}
	l, err := c.Lesson("1")
	if err != nil {
		t.Fatalf("Lesson(1): %v", err)
	}
	if l.Title != "Basic Addition" || len(l.Steps) != 3 || !l.Steps[0].VisualAids {
		t.Fatalf("Lesson(1)=%+v", l)
	}
	l.Steps[0].Title = "changed"
	again, _ := c.Lesson("1")
	if again.Steps[0].Title != "Understanding Addition" {
		t.Fatalf("Lesson returned shared steps")
	}
	if _, err := c.Lesson("99"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("Lesson(99) err=%v, want not found", err)
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	lessons := []adaptation.Content{{ID: "1"}, {ID: "1"}}
	if _, err := newCatalog(lessons, nil); err == nil {
		t.Fatalf("newCatalog accepted duplicate lesson ids")
	}
	signs := []Sign{{Word: "Hi", Difficulty: Beginner}, {Word: "hi", Difficulty: Beginner}}
	if _, err := newCatalog(nil, signs); err == nil {
		t.Fatalf("newCatalog accepted duplicate words")
	}
	if _, err := newCatalog(nil, []Sign{{Word: "Hi", Difficulty: "expert"}}); err == nil {
		t.Fatalf("newCatalog accepted unknown difficulty")
	}
}

func TestSearch(t *testing.T) {
	c := mustLoad(t)
	cases := []struct {
		name string
		q    SignQuery
		want []string
	}{
		{name: "everything", q: SignQuery{}, want: []string{"Hello", "Thank you", "Learn", "Friend", "Happy", "Mathematics"}},
		{name: "word_substring", q: SignQuery{Text: "HEL"}, want: []string{"Hello"}},
		{name: "description_substring", q: SignQuery{Text: "numbers"}, want: []string{"Mathematics"}},
		{name: "category", q: SignQuery{Category: "emotions"}, want: []string{"Happy"}},
		{name: "difficulty", q: SignQuery{Category: All, Difficulty: "intermediate"}, want: []string{"Learn"}},
		{name: "combined_no_match", q: SignQuery{Text: "hello", Difficulty: "advanced"}, want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := []string{}
			for _, s := range c.Search(tc.q) {
				got = append(got, s.Word)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Search(%+v) mismatch (-want +got):\n%s", tc.q, diff)
			}
		})
	}
}

func TestSignLookup(t *testing.T) {
	c := mustLoad(t)
	s, err := c.Sign("thank YOU")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if diff := cmp.Diff([]string{"Thanks", "Grateful", "Appreciate"}, s.RelatedWords); diff != "" {
		t.Fatalf("RelatedWords mismatch (-want +got):\n%s", diff)
	}
	if _, err := c.Sign("goodbye"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("Sign(goodbye) err=%v", err)
	}
	if got := len(c.Categories()); got != 6 {
		t.Fatalf("len(Categories())=%d, want 6", got)
	}
}
