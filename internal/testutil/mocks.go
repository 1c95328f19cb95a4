package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/cozy-creator/breed-classifier/internal/artifact"
	"github.com/cozy-creator/breed-classifier/internal/classifier"

	"github.com/stretchr/testify/mock"
)

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, img image.Image) (*classifier.Prediction, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Prediction), args.Error(1)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, source *artifact.Source, w io.Writer) error {
	args := m.Called(ctx, source, w)
	if body, ok := args.Get(0).([]byte); ok {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return args.Error(1)
}

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(path string, labels []string) (classifier.Predictor, error) {
	args := m.Called(path, labels)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(classifier.Predictor), args.Error(1)
}

// OnePixelPNG returns a valid 1x1 PNG.
func OnePixelPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 180, G: 140, B: 90, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
