package worker

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cozy-creator/breed-classifier/internal/classifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingPredictor struct {
	running atomic.Int32
	peak    atomic.Int32
	delay   time.Duration
	err     error
	panics  bool
}

func (p *trackingPredictor) Predict(ctx context.Context, _ image.Image) (*classifier.Prediction, error) {
	n := p.running.Add(1)
	defer p.running.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if p.panics {
		panic("boom")
	}
	time.Sleep(p.delay)
	if p.err != nil {
		return nil, p.err
	}
	return &classifier.Prediction{Label: "beagle"}, nil
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

func TestInferenceWorkerSerializesWithOneWorker(t *testing.T) {
	predictor := &trackingPredictor{delay: 5 * time.Millisecond}
	w := NewInferenceWorker(predictor, 1)
	defer w.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pred, err := w.Predict(context.Background(), testImage())
			assert.NoError(t, err)
			assert.Equal(t, "beagle", pred.Label)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), predictor.peak.Load())
}

func TestInferenceWorkerPropagatesError(t *testing.T) {
	cause := errors.New("bad tensor")
	w := NewInferenceWorker(&trackingPredictor{err: cause}, 1)
	defer w.Stop()

	_, err := w.Predict(context.Background(), testImage())
	assert.ErrorIs(t, err, cause)
}

func TestInferenceWorkerRecoversPanic(t *testing.T) {
	w := NewInferenceWorker(&trackingPredictor{panics: true}, 1)
	defer w.Stop()

	_, err := w.Predict(context.Background(), testImage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestInferenceWorkerCanceledWhileQueued(t *testing.T) {
	predictor := &trackingPredictor{delay: 100 * time.Millisecond}
	w := NewInferenceWorker(predictor, 1)
	defer w.Stop()

	go w.Predict(context.Background(), testImage())
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := w.Predict(ctx, testImage())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInferenceWorkerRejectsAfterStop(t *testing.T) {
	w := NewInferenceWorker(&trackingPredictor{}, 1)
	w.Stop()

	assert.NotPanics(t, func() {
		_, err := w.Predict(context.Background(), testImage())
		assert.ErrorIs(t, err, ErrStopped)
	})
}

func TestInferenceWorkerWaitingQueueSize(t *testing.T) {
	predictor := &trackingPredictor{delay: 100 * time.Millisecond}
	w := NewInferenceWorker(predictor, 1)
	defer w.Stop()

	assert.Equal(t, 0, w.WaitingQueueSize())

	for i := 0; i < 3; i++ {
		go w.Predict(context.Background(), testImage())
	}

	assert.Eventually(t, func() bool {
		return w.WaitingQueueSize() >= 1
	}, time.Second, 5*time.Millisecond)
}
