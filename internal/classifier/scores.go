package classifier

import (
	"errors"
	"math"
)

var ErrEmptyOutput = errors.New("model produced no scores")

func Softmax(logits []float32) []float32 {
	out := make([]float32, len(logits))
	if len(logits) == 0 {
		return out
	}

	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxVal))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}

	return out
}

// NewPrediction picks the highest scoring label. Scores past the end of labels
// are ignored.
func NewPrediction(scores []float32, labels []string) (*Prediction, error) {
	n := min(len(scores), len(labels))
	if n == 0 {
		return nil, ErrEmptyOutput
	}

	maxIdx := 0
	maxVal := scores[0]
	for i := 1; i < n; i++ {
		if scores[i] > maxVal {
			maxVal = scores[i]
			maxIdx = i
		}
	}

	return &Prediction{
		Label:      labels[maxIdx],
		Index:      maxIdx,
		Confidence: maxVal,
		Scores:     scores[:n],
	}, nil
}
