package pose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"glossa/internal/gloss"
	"glossa/internal/logging"
	"glossa/internal/rescache"
)

// ErrNoPoses is returned when no word of the input could be signed.
var ErrNoPoses = errors.New("no poses found in lexicon")

// CommandRunner executes an external command (replaceable in tests).
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Segment is one pose clip in the concatenation manifest.
type Segment struct {
	Word  string `json:"word"`
	Gloss string `json:"gloss"`
	Path  string `json:"path"`
	Start int    `json:"start,omitempty"`
	End   int    `json:"end,omitempty"`
}

// Manifest describes the clips the concatenation command stitches together.
type Manifest struct {
	Output         string      `json:"output"`
	SpokenLanguage string      `json:"spoken_language"`
	SignedLanguage string      `json:"signed_language"`
	Trim           bool        `json:"trim"`
	Sentences      [][]Segment `json:"sentences"`
}

// Builder turns gloss sentences into a single pose file.
type Builder struct {
	lookups        *rescache.Cache[string, *Lookup]
	command        []string
	fingerspelling bool
	runner         CommandRunner
	logger         *slog.Logger
}

// NewBuilder returns a builder that shares lexicon lookups through cache.
func NewBuilder(command string, fingerspelling bool, cache *rescache.Cache[string, *Lookup], logger *slog.Logger) *Builder {
	if cache == nil {
		cache = rescache.New[string, *Lookup]("pose lookup")
	}
	return &Builder{
		lookups:        cache,
		command:        strings.Fields(command),
		fingerspelling: fingerspelling,
		logger:         logging.NewComponentLogger(logger, "pose"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (b *Builder) WithCommandRunner(runner CommandRunner) *Builder {
	b.runner = runner
	return b
}

// LookupFor returns the cached lookup for lexicon, loading it on first use.
// The cache key is the lexicon's absolute path with symlinks resolved.
func (b *Builder) LookupFor(ctx context.Context, lexicon string) (*Lookup, error) {
	key, err := lexiconKey(lexicon)
	if err != nil {
		return nil, err
	}
	return b.lookups.GetOrCreate(ctx, key, func(ctx context.Context) (*Lookup, error) {
		lookup, err := LoadLookup(ctx, key, b.fingerspelling)
		if err != nil {
			return nil, err
		}
		b.logger.Info("lexicon loaded",
			logging.String(logging.FieldEventType, "lexicon_loaded"),
			logging.String("lexicon", key),
			logging.Int("entries", lookup.Size()),
		)
		return lookup, nil
	})
}

func lexiconKey(lexicon string) (string, error) {
	abs, err := filepath.Abs(lexicon)
	if err != nil {
		return "", fmt.Errorf("resolve lexicon path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// Build resolves every gloss against the lexicon and writes outPath.
func (b *Builder) Build(ctx context.Context, sentences []gloss.Sentence, lexicon, spokenLanguage, signedLanguage, outPath string) error {
	if len(b.command) == 0 {
		return errors.New("pose concat command not configured")
	}
	lookup, err := b.LookupFor(ctx, lexicon)
	if err != nil {
		return err
	}

	manifest := Manifest{
		Output:         outPath,
		SpokenLanguage: spokenLanguage,
		SignedLanguage: signedLanguage,
	}
	logger := logging.WithContext(ctx, b.logger)
	var found int
	for _, sentence := range sentences {
		var segments []Segment
		for _, pair := range sentence {
			entries, ok, err := lookup.Resolve(ctx, pair.Word, pair.Gloss, spokenLanguage, signedLanguage)
			if err != nil {
				return err
			}
			if !ok {
				logger.Debug("no pose for word", logging.String("word", pair.Word), logging.String("gloss", pair.Gloss))
				continue
			}
			for _, e := range entries {
				segments = append(segments, Segment{Word: pair.Word, Gloss: pair.Gloss, Path: e.Path, Start: e.Start, End: e.End})
			}
		}
		if len(segments) > 0 {
			manifest.Sentences = append(manifest.Sentences, segments)
			found += len(segments)
		}
	}
	if found == 0 {
		return ErrNoPoses
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure pose output dir: %w", err)
	}
	manifestPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".manifest.json"
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pose manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("write pose manifest: %w", err)
	}

	args := append(append([]string(nil), b.command[1:]...), "--manifest", manifestPath, "--output", outPath)
	if err := b.run(ctx, b.command[0], args...); err != nil {
		return fmt.Errorf("pose concat: %w", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("pose concat: output missing: %w", err)
	}
	return nil
}

func (b *Builder) run(ctx context.Context, name string, args ...string) error {
	if b.runner != nil {
		return b.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
