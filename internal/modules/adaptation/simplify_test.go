package adaptation

import (
	"strings"
	"testing"
)

func TestSimplify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "vocabulary", in: "I will utilize this approach", want: "I will use this approach"},
		{name: "case_insensitive", in: "Utilize it. Facilitate it", want: "use it. help it"},
		{name: "whole_words_only", in: "utilizes acquired skills", want: "utilizes acquired skills"},
		{
			name: "long_sentence_cut_at_comma",
			in:   "Addition means putting numbers together, which makes a bigger number. Count them",
			want: "Addition means putting numbers together.. Count them",
		},
		{
			name: "long_sentence_without_comma",
			in:   "Count every single one of the objects and add them all up together",
			want: "Count every single one of the objects and add them all up together.",
		},
		{name: "short_sentence_kept", in: "Count them, then add. Done", want: "Count them, then add. Done"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Simplify(tc.in); got != tc.want {
				t.Fatalf("Simplify(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSimplifyDropsTextAfterFirstComma(t *testing.T) {
	in := "We subsequently demonstrate the idea, then the practice, then the quiz"
	got := Simplify(in)
	if got != "We then show the idea." {
		t.Fatalf("Simplify(%q)=%q", in, got)
	}
	if strings.Contains(got, "quiz") {
		t.Fatalf("Simplify kept clause after comma: %q", got)
	}
}
