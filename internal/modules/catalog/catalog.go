// Package catalog serves the built-in lessons and the sign-language
// dictionary. Both are read from YAML embedded in the binary.
package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

//go:embed data/*.yaml
var files embed.FS

type Catalog struct {
	lessons []adaptation.Content
	byID    map[string]int
	signs   []Sign
	byWord  map[string]int
}

// Load parses the embedded lesson and dictionary files.
func Load() (*Catalog, error) {
	lessons, err := readYAML[[]adaptation.Content]("data/lessons.yaml")
	if err != nil {
		return nil, err
	}
	signs, err := readYAML[[]Sign]("data/signs.yaml")
	if err != nil {
		return nil, err
	}
	return newCatalog(lessons, signs)
}

func newCatalog(lessons []adaptation.Content, signs []Sign) (*Catalog, error) {
	c := &Catalog{
		lessons: lessons,
		byID:    make(map[string]int, len(lessons)),
		signs:   signs,
		byWord:  make(map[string]int, len(signs)),
	}
	for i, l := range lessons {
		if l.ID == "" {
			return nil, fmt.Errorf("lesson %d: missing id", i)
		}
		if _, dup := c.byID[l.ID]; dup {
			return nil, fmt.Errorf("lesson %q: duplicate id", l.ID)
		}
		c.byID[l.ID] = i
	}
	for i, s := range signs {
		key := strings.ToLower(s.Word)
		if key == "" {
			return nil, fmt.Errorf("sign %d: missing word", i)
		}
		if _, dup := c.byWord[key]; dup {
			return nil, fmt.Errorf("sign %q: duplicate word", s.Word)
		}
		if !s.Difficulty.valid() {
			return nil, fmt.Errorf("sign %q: unknown difficulty %q", s.Word, s.Difficulty)
		}
		c.byWord[key] = i
	}
	return c, nil
}

func readYAML[T any](name string) (T, error) {
	var out T
	raw, err := files.ReadFile(name)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("parse %s: %w", name, err)
	}
	return out, nil
}

// Lessons returns copies, ordered by id.
func (c *Catalog) Lessons() []adaptation.Content {
	out := make([]adaptation.Content, len(c.lessons))
	for i, l := range c.lessons {
		out[i] = cloneLesson(l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) Lesson(id string) (adaptation.Content, error) {
	i, ok := c.byID[id]
	if !ok {
		return adaptation.Content{}, fmt.Errorf("lesson %q: %w", id, apierr.ErrNotFound)
	}
	return cloneLesson(c.lessons[i]), nil
}

func cloneLesson(l adaptation.Content) adaptation.Content {
	l.Steps = append([]adaptation.Step(nil), l.Steps...)
	return l
}
