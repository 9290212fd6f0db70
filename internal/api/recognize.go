package api

import (
	"context"
	"errors"
	"os"

	"glossa/internal/classifier"
	"glossa/internal/services"
)

// Recognizer scores an image file.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (classifier.Prediction, error)
}

// RecognitionService validates uploads and forwards them to the classifier.
type RecognitionService struct {
	recognizer Recognizer
	tempDir    string
}

// NewRecognitionService constructs a RecognitionService. Uploads are staged
// under tempDir (the system default when blank).
func NewRecognitionService(recognizer Recognizer, tempDir string) *RecognitionService {
	return &RecognitionService{recognizer: recognizer, tempDir: tempDir}
}

// Recognize scores the image in data.
func (s *RecognitionService) Recognize(ctx context.Context, data []byte) (Recognition, error) {
	format, err := classifier.CheckImage(data)
	if err != nil {
		if errors.Is(err, classifier.ErrEmptyImage) {
			return Recognition{}, services.Wrap(services.ErrValidation, "recognize", "read image", "Empty file.", nil)
		}
		return Recognition{}, services.Wrap(services.ErrValidation, "recognize", "decode image", "Unsupported image file.", err)
	}
	if s.recognizer == nil {
		return Recognition{}, services.Wrap(services.ErrDependencyUnavailable, "recognize", "load classifier", "Classifier not configured.", nil)
	}

	f, err := os.CreateTemp(s.tempDir, "recognize-*."+format)
	if err != nil {
		return Recognition{}, services.Wrap(services.ErrConfiguration, "recognize", "stage image", "Could not stage image", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return Recognition{}, services.Wrap(services.ErrConfiguration, "recognize", "stage image", "Could not stage image", err)
	}
	if err := f.Close(); err != nil {
		return Recognition{}, services.Wrap(services.ErrConfiguration, "recognize", "stage image", "Could not stage image", err)
	}

	pred, err := s.recognizer.Recognize(ctx, f.Name())
	if err != nil {
		return Recognition{}, services.Wrap(services.ErrExternalTool, "recognize", "predict", "Recognition failed", err)
	}
	return FromPrediction(pred), nil
}
