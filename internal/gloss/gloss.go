// Package gloss converts spoken-language text into sign-language glosses.
//
// A gloss is the uppercase token standing for one sign. Generators return
// sentences of (word, gloss) pairs; Flatten renders them for display.
package gloss

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Pair binds a source word to its gloss token.
type Pair struct {
	Word  string
	Gloss string
}

// Sentence is an ordered list of pairs.
type Sentence []Pair

// Glosses returns the gloss tokens of the sentence.
func (s Sentence) Glosses() []string {
	out := make([]string, 0, len(s))
	for _, p := range s {
		out = append(out, p.Gloss)
	}
	return out
}

// Generator produces glosses for text.
type Generator interface {
	Generate(ctx context.Context, text, spokenLanguage, signedLanguage string) ([]Sentence, error)
}

// ErrUnknownGlosser is returned for a name that has no registered generator.
var ErrUnknownGlosser = errors.New("unsupported glosser")

// Flatten renders sentences as "word/GLOSS" tokens separated by spaces, with
// sentences separated by " | ".
func Flatten(sentences []Sentence) string {
	parts := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		tokens := make([]string, 0, len(sentence))
		for _, p := range sentence {
			tokens = append(tokens, p.Word+"/"+p.Gloss)
		}
		parts = append(parts, strings.Join(tokens, " "))
	}
	return strings.Join(parts, " | ")
}

// Registry maps glosser names to generators.
type Registry struct {
	generators map[string]Generator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// NewDefaultRegistry registers the native simple glosser and the
// helper-backed spacylemma and rules glossers.
func NewDefaultRegistry(helperCommand string) *Registry {
	reg := NewRegistry()
	reg.Register("simple", NewSimple())
	reg.Register("spacylemma", NewHelper("spacylemma", helperCommand))
	reg.Register("rules", NewHelper("rules", helperCommand))
	return reg
}

// Register adds or replaces the generator for name.
func (r *Registry) Register(name string, gen Generator) {
	r.generators[strings.ToLower(strings.TrimSpace(name))] = gen
}

// Get returns the generator registered under name.
func (r *Registry) Get(name string) (Generator, error) {
	gen, ok := r.generators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGlosser, name)
	}
	return gen, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
