package classifier

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultInputSize is the side length of the square model input.
const DefaultInputSize = 128

// Tensor is a size×size×3 RGB image in row-major order with channels
// scaled to [0,1].
type Tensor struct {
	Size int
	Data []float32
}

// At returns the value of channel c at row y, column x.
func (t Tensor) At(y, x, c int) float32 {
	return t.Data[(y*t.Size+x)*3+c]
}

// Nested returns the tensor as [rows][cols][channels], the layout
// expected by JSON model servers.
func (t Tensor) Nested() [][][]float32 {
	rows := make([][][]float32, t.Size)
	for y := range rows {
		cols := make([][]float32, t.Size)
		for x := range cols {
			i := (y*t.Size + x) * 3
			cols[x] = t.Data[i : i+3 : i+3]
		}
		rows[y] = cols
	}
	return rows
}

// DecodeImage decodes a JPEG, PNG, GIF or WebP image.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Preprocess resizes img to size×size with bilinear interpolation, drops
// any alpha channel and scales each channel to [0,1].
func Preprocess(img image.Image, size int) Tensor {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	data := make([]float32, 0, size*size*3)
	for y := 0; y < size; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+size*4]
		for x := 0; x < size; x++ {
			px := row[x*4 : x*4+3]
			data = append(data,
				float32(px[0])/255,
				float32(px[1])/255,
				float32(px[2])/255,
			)
		}
	}
	return Tensor{Size: size, Data: data}
}
