package gloss

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?;]+`)
	wordPattern      = regexp.MustCompile(`[\p{L}\p{M}][\p{L}\p{M}\p{N}'’-]*|\p{N}+`)
)

// Simple glosses each word as its uppercase form, splitting sentences on
// terminal punctuation.
type Simple struct{}

// NewSimple returns the native simple glosser.
func NewSimple() *Simple { return &Simple{} }

// Generate implements Generator.
func (s *Simple) Generate(_ context.Context, text, spokenLanguage, _ string) ([]Sentence, error) {
	upper := cases.Upper(languageTag(spokenLanguage))
	var sentences []Sentence
	for _, chunk := range sentenceBoundary.Split(text, -1) {
		words := wordPattern.FindAllString(chunk, -1)
		if len(words) == 0 {
			continue
		}
		sentence := make(Sentence, 0, len(words))
		for _, word := range words {
			sentence = append(sentence, Pair{Word: word, Gloss: upper.String(strings.Trim(word, "'’-"))})
		}
		sentences = append(sentences, sentence)
	}
	return sentences, nil
}

func languageTag(code string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return language.Und
	}
	return tag
}
