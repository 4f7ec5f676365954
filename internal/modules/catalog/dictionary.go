package catalog

import (
	"fmt"
	"strings"

	"github.com/adaptiq/adaptiq-backend/internal/platform/apierr"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) valid() bool {
	return d == Beginner || d == Intermediate || d == Advanced
}

// All disables a category or difficulty filter.
const All = "all"

type Sign struct {
	Word         string     `json:"word" yaml:"word"`
	Category     string     `json:"category" yaml:"category"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	Description  string     `json:"description" yaml:"description"`
	VideoURL     string     `json:"videoUrl,omitempty" yaml:"videoUrl"`
	RelatedWords []string   `json:"relatedWords" yaml:"relatedWords"`
}

type SignQuery struct {
	Text       string
	Category   string
	Difficulty string
}

// Search matches Text as a case-insensitive substring of the word or the
// description. Empty filters and "all" match everything.
func (c *Catalog) Search(q SignQuery) []Sign {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := []Sign{}
	for _, s := range c.signs {
		if text != "" &&
			!strings.Contains(strings.ToLower(s.Word), text) &&
			!strings.Contains(strings.ToLower(s.Description), text) {
			continue
		}
		if q.Category != "" && q.Category != All && s.Category != q.Category {
			continue
		}
		if q.Difficulty != "" && q.Difficulty != All && string(s.Difficulty) != q.Difficulty {
			continue
		}
		out = append(out, cloneSign(s))
	}
	return out
}

// Sign looks a word up case-insensitively.
func (c *Catalog) Sign(word string) (Sign, error) {
	i, ok := c.byWord[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return Sign{}, fmt.Errorf("sign %q: %w", word, apierr.ErrNotFound)
	}
	return cloneSign(c.signs[i]), nil
}

// Categories lists the distinct categories in dictionary order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range c.signs {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

func cloneSign(s Sign) Sign {
	s.RelatedWords = append([]string(nil), s.RelatedWords...)
	return s
}
