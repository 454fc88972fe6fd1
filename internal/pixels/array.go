package pixels

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strconv"
	"strings"
)

// MaxValue is the largest channel value of an 8-bit image.
const MaxValue = 255

// Array is a Height x Width x Channels numeric array stored row-major with
// the channel index varying fastest, so the value at (y, x, c) lives at
// Pix[(y*Width+x)*Channels+c].
type Array struct {
	Height   int
	Width    int
	Channels int
	Pix      []float64
}

// NewArray returns a zero-filled array of the given shape.
func NewArray(height, width, channels int) (*Array, error) {
	if height < 0 || width < 0 || channels < 1 {
		return nil, shapeError([]int{height, width, channels}, "non-negative dimensions and at least one channel")
	}
	return &Array{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]float64, height*width*channels),
	}, nil
}

// FromData wraps pix as an array of the given shape. The slice is not
// copied.
func FromData(height, width, channels int, pix []float64) (*Array, error) {
	if height < 0 || width < 0 || channels < 1 {
		return nil, shapeError([]int{height, width, channels}, "non-negative dimensions and at least one channel")
	}
	if want := height * width * channels; len(pix) != want {
		return nil, fmt.Errorf("%w: %d values for shape %s, want %d",
			ErrShape, len(pix), formatShape([]int{height, width, channels}), want)
	}
	return &Array{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      pix,
	}, nil
}

// FromImage converts img into a (H, W, 3) array of 8-bit channel values.
// Alpha is dropped.
func FromImage(img image.Image) *Array {
	b := img.Bounds()
	a := &Array{
		Height:   b.Dy(),
		Width:    b.Dx(),
		Channels: 3,
		Pix:      make([]float64, b.Dx()*b.Dy()*3),
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			a.Pix[i] = float64(c.R)
			a.Pix[i+1] = float64(c.G)
			a.Pix[i+2] = float64(c.B)
			i += 3
		}
	}
	return a
}

// Shape returns {Height, Width, Channels}.
func (a *Array) Shape() []int {
	return []int{a.Height, a.Width, a.Channels}
}

// IsRGB reports whether the array has shape (H, W, 3).
func (a *Array) IsRGB() bool {
	return a != nil && a.Channels == 3 && len(a.Pix) == a.Height*a.Width*3
}

func (a *Array) offset(y, x, c int) int {
	return (y*a.Width+x)*a.Channels + c
}

// At returns the value at (y, x, c). Out-of-range positions return 0.
func (a *Array) At(y, x, c int) float64 {
	if y < 0 || y >= a.Height || x < 0 || x >= a.Width || c < 0 || c >= a.Channels {
		return 0
	}
	return a.Pix[a.offset(y, x, c)]
}

// Set stores v at (y, x, c). Out-of-range positions are ignored.
func (a *Array) Set(y, x, c int, v float64) {
	if y < 0 || y >= a.Height || x < 0 || x >= a.Width || c < 0 || c >= a.Channels {
		return
	}
	a.Pix[a.offset(y, x, c)] = v
}

// Plane copies channel c into a Height x Width slice.
func (a *Array) Plane(c int) ([]float64, error) {
	if c < 0 || c >= a.Channels {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrChannel, c, a.Channels)
	}
	plane := make([]float64, 0, a.Height*a.Width)
	for i := c; i < len(a.Pix); i += a.Channels {
		plane = append(plane, a.Pix[i])
	}
	return plane, nil
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	return &Array{
		Height:   a.Height,
		Width:    a.Width,
		Channels: a.Channels,
		Pix:      slices.Clone(a.Pix),
	}
}

// Equal reports whether both arrays have the same shape and values.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Height == b.Height &&
		a.Width == b.Width &&
		a.Channels == b.Channels &&
		slices.Equal(a.Pix, b.Pix)
}

// Range returns the smallest and largest values. An empty array returns
// (0, 0).
func (a *Array) Range() (lo, hi float64) {
	if len(a.Pix) == 0 {
		return 0, 0
	}
	return slices.Min(a.Pix), slices.Max(a.Pix)
}

// Image converts the array for encoding. Three-channel arrays become RGBA
// with values clipped to [0, 255]; single-channel arrays become Gray after
// scaling their value range to [0, 255].
func (a *Array) Image() (image.Image, error) {
	rect := image.Rect(0, 0, a.Width, a.Height)
	switch a.Channels {
	case 3:
		img := image.NewRGBA(rect)
		for y := range a.Height {
			for x := range a.Width {
				img.SetRGBA(x, y, color.RGBA{
					R: clip(a.At(y, x, 0)),
					G: clip(a.At(y, x, 1)),
					B: clip(a.At(y, x, 2)),
					A: 0xff,
				})
			}
		}
		return img, nil
	case 1:
		img := image.NewGray(rect)
		lo, hi := a.Range()
		for y := range a.Height {
			for x := range a.Width {
				img.SetGray(x, y, color.Gray{Y: clip(Normalize(a.At(y, x, 0), lo, hi) * MaxValue)})
			}
		}
		return img, nil
	default:
		return nil, shapeError(a.Shape(), "(H, W, 3) or (H, W, 1)")
	}
}

// Normalize maps v from [lo, hi] to [0, 1]. A flat range maps to 0.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return min(max((v-lo)/(hi-lo), 0), 1)
}

func clip(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= MaxValue:
		return MaxValue
	default:
		return uint8(v + 0.5)
	}
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = strconv.Itoa(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatShape renders a shape the way it is printed to users, e.g.
// "(257, 450, 3)".
func FormatShape(a *Array) string {
	return formatShape(a.Shape())
}
