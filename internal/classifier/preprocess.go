package classifier

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// ToTensor resizes img to size×size and lays it out as normalized NCHW float32
// values with a batch of one.
func ToTensor(img image.Image, size int) []float32 {
	resized := transform.Resize(img, size, size, transform.Linear)

	plane := size * size
	data := make([]float32, 3*plane)

	for y := 0; y < size; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < size; x++ {
			px := row[x*4:]
			idx := y*size + x
			for c := 0; c < 3; c++ {
				v := float32(px[c]) / 255.0
				data[c*plane+idx] = (v - imagenetMean[c]) / imagenetStd[c]
			}
		}
	}

	return data
}
