package worker

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/cozy-creator/breed-classifier/internal/classifier"

	"github.com/gammazero/workerpool"
)

var ErrStopped = errors.New("inference worker is stopped")

// InferenceWorker queues predictions onto a fixed number of workers. With one
// worker, concurrent requests wait behind the inference that is running.
type InferenceWorker struct {
	mu        sync.RWMutex
	wp        *workerpool.WorkerPool
	predictor classifier.Predictor
}

func NewInferenceWorker(predictor classifier.Predictor, maxWorkers int) *InferenceWorker {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	return &InferenceWorker{
		wp:        workerpool.New(maxWorkers),
		predictor: predictor,
	}
}

// Stop waits for queued predictions to finish. Later calls to Predict fail
// with ErrStopped.
func (w *InferenceWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.wp.StopWait()
}

// WaitingQueueSize is the number of predictions not yet picked up by a worker.
func (w *InferenceWorker) WaitingQueueSize() int {
	return w.wp.WaitingQueueSize()
}

// Predict submits img and blocks until a worker has run it, or ctx is done.
// A prediction already running is not interrupted by ctx.
func (w *InferenceWorker) Predict(ctx context.Context, img image.Image) (*classifier.Prediction, error) {
	type result struct {
		prediction *classifier.Prediction
		err        error
	}

	done := make(chan result, 1)

	w.mu.RLock()
	if w.wp.Stopped() {
		w.mu.RUnlock()
		return nil, ErrStopped
	}
	w.wp.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("predictor panicked: %v", r)}
			}
		}()

		prediction, err := w.predictor.Predict(ctx, img)
		done <- result{prediction: prediction, err: err}
	})
	w.mu.RUnlock()

	select {
	case res := <-done:
		return res.prediction, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
