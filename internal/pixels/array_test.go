package pixels

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromData(t *testing.T) {
	tests := []struct {
		name     string
		h, w, c  int
		n        int
		wantErr  bool
		errShape bool
	}{
		{name: "rgb", h: 2, w: 2, c: 3, n: 12},
		{name: "single plane", h: 3, w: 1, c: 1, n: 3},
		{name: "empty", h: 0, w: 5, c: 3, n: 0},
		{name: "too few values", h: 2, w: 2, c: 3, n: 11, wantErr: true},
		{name: "too many values", h: 2, w: 2, c: 3, n: 13, wantErr: true},
		{name: "negative height", h: -1, w: 2, c: 3, n: 0, wantErr: true},
		{name: "no channels", h: 1, w: 1, c: 0, n: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromData(tt.h, tt.w, tt.c, make([]float64, tt.n))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrShape)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.h, tt.w, tt.c}, a.Shape())
		})
	}
}

func TestArray_AtSet(t *testing.T) {
	a, err := NewArray(2, 3, 3)
	require.NoError(t, err)

	a.Set(1, 2, 1, 42)
	assert.Equal(t, 42.0, a.At(1, 2, 1))
	assert.Equal(t, 42.0, a.Pix[(1*3+2)*3+1])

	// Out of range reads return zero and writes are dropped.
	a.Set(5, 0, 0, 7)
	assert.Zero(t, a.At(5, 0, 0))
	assert.Zero(t, a.At(0, 0, 3))
}

func TestArray_Plane(t *testing.T) {
	a, err := FromData(1, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	g, err := a.Plane(GreenChannel)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, g)

	_, err = a.Plane(3)
	assert.ErrorIs(t, err, ErrChannel)
}

func TestArray_CloneIsDeep(t *testing.T) {
	a, err := FromData(1, 1, 3, []float64{1, 2, 3})
	require.NoError(t, err)

	b := a.Clone()
	b.Pix[0] = 99

	assert.Equal(t, 1.0, a.Pix[0])
	assert.False(t, a.Equal(b))
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 10, B: 20, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	a := FromImage(img)

	assert.Equal(t, []int{1, 2, 3}, a.Shape())
	assert.Equal(t, []float64{255, 10, 20, 1, 2, 3}, a.Pix)
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := image.NewGray(image.Rect(5, 5, 7, 6))
	img.SetGray(5, 5, color.Gray{Y: 9})
	img.SetGray(6, 5, color.Gray{Y: 200})

	a := FromImage(img)

	assert.Equal(t, []int{1, 2, 3}, a.Shape())
	assert.Equal(t, []float64{9, 9, 9, 200, 200, 200}, a.Pix)
}

func TestArray_Image(t *testing.T) {
	t.Run("rgb clips", func(t *testing.T) {
		a, err := FromData(1, 1, 3, []float64{-5, 128, 300})
		require.NoError(t, err)

		img, err := a.Image()
		require.NoError(t, err)
		r, g, b, _ := img.At(0, 0).RGBA()
		assert.Equal(t, []uint32{0, 128, 255}, []uint32{r >> 8, g >> 8, b >> 8})
	})

	t.Run("single plane is normalised", func(t *testing.T) {
		a, err := FromData(1, 3, 1, []float64{10, 15, 20})
		require.NoError(t, err)

		img, err := a.Image()
		require.NoError(t, err)
		gray, ok := img.(*image.Gray)
		require.True(t, ok)
		assert.Equal(t, []uint8{0, 128, 255}, gray.Pix)
	})

	t.Run("unsupported channel count", func(t *testing.T) {
		a, err := NewArray(1, 1, 2)
		require.NoError(t, err)

		_, err = a.Image()
		assert.ErrorIs(t, err, ErrShape)
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.5, Normalize(15, 10, 20))
	assert.Equal(t, 0.0, Normalize(3, 3, 3))
	assert.Equal(t, 1.0, Normalize(40, 10, 20))
}

func TestFormatShape(t *testing.T) {
	a, err := NewArray(257, 450, 3)
	require.NoError(t, err)
	assert.Equal(t, "(257, 450, 3)", FormatShape(a))
}
