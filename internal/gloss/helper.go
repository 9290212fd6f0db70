package gloss

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes name with args, feeding stdin, and returns stdout.
type Runner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

// Helper delegates glossing to an external helper command. The helper reads
// the text on stdin and prints a JSON array of sentences, each an array of
// [word, gloss] pairs.
type Helper struct {
	glosser string
	command []string
	runner  Runner
}

// NewHelper returns a helper-backed generator for the named glosser.
func NewHelper(glosser, command string) *Helper {
	return &Helper{glosser: glosser, command: strings.Fields(command), runner: execRunner}
}

// WithRunner replaces the command runner (for testing).
func (h *Helper) WithRunner(runner Runner) *Helper {
	if runner != nil {
		h.runner = runner
	}
	return h
}

// Generate implements Generator.
func (h *Helper) Generate(ctx context.Context, text, spokenLanguage, signedLanguage string) ([]Sentence, error) {
	if len(h.command) == 0 {
		return nil, errors.New("gloss helper command not configured")
	}
	args := append(append([]string(nil), h.command[1:]...),
		"--glosser", h.glosser,
		"--spoken-language", spokenLanguage,
		"--signed-language", signedLanguage,
	)
	out, err := h.runner(ctx, []byte(text), h.command[0], args...)
	if err != nil {
		return nil, fmt.Errorf("gloss helper %s: %w", h.glosser, err)
	}
	return decodeSentences(out)
}

func decodeSentences(data []byte) ([]Sentence, error) {
	var raw [][][]string
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, fmt.Errorf("parse gloss helper output: %w", err)
	}
	sentences := make([]Sentence, 0, len(raw))
	for i, rawSentence := range raw {
		sentence := make(Sentence, 0, len(rawSentence))
		for j, pair := range rawSentence {
			if len(pair) != 2 {
				return nil, fmt.Errorf("parse gloss helper output: sentence %d token %d: expected [word, gloss]", i, j)
			}
			sentence = append(sentence, Pair{Word: pair[0], Gloss: pair[1]})
		}
		sentences = append(sentences, sentence)
	}
	return sentences, nil
}

func execRunner(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
