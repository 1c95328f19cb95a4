package classifier

import (
	"context"
	"image"
	"strings"

	"go.uber.org/zap"
)

// RemediationMessage replaces the loader error when an artifact exported on a
// GPU host is loaded on a machine without one.
const RemediationMessage = "This model was trained with an old version of fastai and will not work in a CPU environment.\n\n" +
	"Please update the fastai library in your training environment and export your model again.\n\n" +
	"See instructions for 'Returning to work' at https://course.fast.ai."

var mismatchMarkers = []string{
	"CPU-only machine",
	"CUDAExecutionProvider",
	"no CUDA-capable device",
	"CUDA driver version is insufficient",
	// ORT on a CPU build, for nodes only a GPU provider implements
	"Could not find an implementation for",
}

type Prediction struct {
	Label      string
	Index      int
	Confidence float32
	Scores     []float32
}

// Predictor is the loaded model. Implementations must be safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, img image.Image) (*Prediction, error)
}

type Loader interface {
	Load(path string, labels []string) (Predictor, error)
}

type LoaderFunc func(path string, labels []string) (Predictor, error)

func (f LoaderFunc) Load(path string, labels []string) (Predictor, error) {
	return f(path, labels)
}

type ModelLoadError struct {
	Path     string
	Mismatch bool
	Err      error
}

func (e *ModelLoadError) Error() string {
	if e.Mismatch {
		return RemediationMessage
	}

	return e.Err.Error()
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// IsEnvironmentMismatch reports whether err says the artifact needs a GPU that
// this host does not have.
func IsEnvironmentMismatch(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	for _, marker := range mismatchMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// Load deserializes the artifact at path with loader. Any failure comes back as
// a *ModelLoadError.
func Load(loader Loader, path string, labels []string, logger *zap.Logger) (Predictor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	predictor, err := loader.Load(path, labels)
	if err == nil {
		return predictor, nil
	}

	if IsEnvironmentMismatch(err) {
		logger.Error("Model artifact requires a GPU", zap.String("path", path), zap.Error(err))
		return nil, &ModelLoadError{Path: path, Mismatch: true, Err: err}
	}

	return nil, &ModelLoadError{Path: path, Err: err}
}
