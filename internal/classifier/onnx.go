package classifier

import (
	"context"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

type ONNXLoader struct {
	SharedLibraryPath string
	InputName         string
	OutputName        string
	ImageSize         int
}

// ONNXPredictor runs a single-image session. Its tensors are reused between
// calls, so Predict holds a lock for the duration of a run.
type ONNXPredictor struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	labels       []string
	imageSize    int
}

func (l *ONNXLoader) Load(path string, labels []string) (Predictor, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no class labels configured")
	}
	if l.ImageSize <= 0 {
		return nil, fmt.Errorf("invalid image size %d", l.ImageSize)
	}

	if l.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(l.SharedLibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	size := int64(l.ImageSize)
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(path,
		[]string{l.InputName}, []string{l.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXPredictor{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		labels:       labels,
		imageSize:    l.ImageSize,
	}, nil
}

func (p *ONNXPredictor) Predict(ctx context.Context, img image.Image) (*Prediction, error) {
	input := ToTensor(img, p.imageSize)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	copy(p.inputTensor.GetData(), input)
	if err := p.session.Run(); err != nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	logits := make([]float32, len(p.outputTensor.GetData()))
	copy(logits, p.outputTensor.GetData())
	p.mu.Unlock()

	return NewPrediction(Softmax(logits), p.labels)
}

func (p *ONNXPredictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inputTensor != nil {
		p.inputTensor.Destroy()
	}
	if p.outputTensor != nil {
		p.outputTensor.Destroy()
	}
	if p.session != nil {
		p.session.Destroy()
	}

	return ort.DestroyEnvironment()
}
