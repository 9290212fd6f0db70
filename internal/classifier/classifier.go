// Package classifier recognizes fingerspelled hand shapes in still images.
//
// Inference runs in an external command that loads the model and prints the
// class scores as a JSON array; this package ranks the scores against the
// configured class names.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"glossa/internal/rescache"
)

// ErrEmptyOutput is returned when the model produced no scores.
var ErrEmptyOutput = errors.New("model returned empty output")

// Score is one ranked class.
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Prediction is the best class plus the top three candidates.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Top3       []Score `json:"top3"`
}

// Rank orders scores descending and labels them. Indexes beyond the class
// list are labelled with their decimal index.
func Rank(scores []float64, classNames []string) (Prediction, error) {
	if len(scores) == 0 {
		return Prediction{}, ErrEmptyOutput
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	label := func(idx int) string {
		if idx < len(classNames) {
			return classNames[idx]
		}
		return strconv.Itoa(idx)
	}
	pred := Prediction{Label: label(order[0]), Confidence: scores[order[0]]}
	for _, idx := range order[:min(3, len(order))] {
		pred.Top3 = append(pred.Top3, Score{Label: label(idx), Score: scores[idx]})
	}
	return pred, nil
}

// Runner executes name with args and returns stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Config holds classifier settings.
type Config struct {
	Command    string
	ModelPath  string
	ImageSize  int
	ClassNames []string
}

// Model is a loaded classifier ready to score images.
type Model struct {
	cfg     Config
	command []string
	runner  Runner
}

// Load checks that the model file and command exist.
func Load(cfg Config, runner Runner) (*Model, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model not found: %s", cfg.ModelPath)
	}
	command := strings.Fields(cfg.Command)
	if len(command) == 0 {
		return nil, errors.New("classifier command not configured")
	}
	if runner == nil {
		if _, err := exec.LookPath(command[0]); err != nil {
			return nil, fmt.Errorf("classifier command %q not found: %w", command[0], err)
		}
		runner = execRunner
	}
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = 160
	}
	return &Model{cfg: cfg, command: command, runner: runner}, nil
}

// Predict scores the image at imagePath.
func (m *Model) Predict(ctx context.Context, imagePath string) (Prediction, error) {
	args := append(append([]string(nil), m.command[1:]...),
		"--model", m.cfg.ModelPath,
		"--image-size", strconv.Itoa(m.cfg.ImageSize),
		"--image", imagePath,
	)
	out, err := m.runner(ctx, m.command[0], args...)
	if err != nil {
		return Prediction{}, fmt.Errorf("classifier: %w", err)
	}
	var scores []float64
	if err := json.Unmarshal(bytes.TrimSpace(out), &scores); err != nil {
		return Prediction{}, fmt.Errorf("classifier: parse scores: %w", err)
	}
	return Rank(scores, m.cfg.ClassNames)
}

// Service loads the model once per process and serves predictions.
type Service struct {
	cfg    Config
	cache  *rescache.Cache[string, *Model]
	runner Runner
}

// NewService returns a service backed by cache.
func NewService(cfg Config, cache *rescache.Cache[string, *Model]) *Service {
	if cache == nil {
		cache = rescache.New[string, *Model]("classifier")
	}
	return &Service{cfg: cfg, cache: cache}
}

// WithRunner sets a custom command runner (for testing).
func (s *Service) WithRunner(runner Runner) *Service {
	s.runner = runner
	return s
}

// Recognize loads the model if needed and scores imagePath.
func (s *Service) Recognize(ctx context.Context, imagePath string) (Prediction, error) {
	model, err := s.cache.GetOrCreate(ctx, "classifier", func(context.Context) (*Model, error) {
		return Load(s.cfg, s.runner)
	})
	if err != nil {
		return Prediction{}, err
	}
	return model.Predict(ctx, imagePath)
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
