package adaptation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxSentenceRunes = 50

type substitution struct {
	re   *regexp.Regexp
	repl string
}

func wordTable(pairs ...string) []substitution {
	out := make([]substitution, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, substitution{
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pairs[i]) + `\b`),
			repl: pairs[i+1],
		})
	}
	return out
}

var vocabulary = wordTable(
	"utilize", "use",
	"demonstrate", "show",
	"approximately", "about",
	"consequently", "so",
	"furthermore", "also",
	"nevertheless", "but",
	"subsequently", "then",
	"comprehend", "understand",
	"acquire", "get",
	"facilitate", "help",
)

func replaceVocabulary(text string) string {
	for _, s := range vocabulary {
		text = s.re.ReplaceAllLiteralString(text, s.repl)
	}
	return text
}

// Simplify swaps difficult words for plain ones and cuts any sentence longer
// than 50 characters back to its first clause. The cut is lossy: everything
// after the first comma is dropped, and a sentence with no comma just gains a
// trailing period.
func Simplify(text string) string {
	if text == "" {
		return text
	}
	text = replaceVocabulary(text)
	sentences := strings.Split(text, ". ")
	for i, s := range sentences {
		if utf8.RuneCountInString(s) > maxSentenceRunes {
			head, _, _ := strings.Cut(s, ",")
			sentences[i] = head + "."
		}
	}
	return strings.Join(sentences, ". ")
}
