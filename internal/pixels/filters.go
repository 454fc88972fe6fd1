package pixels

import (
	"slices"
)

// Channel indexes of an (H, W, 3) array.
const (
	RedChannel = iota
	GreenChannel
	BlueChannel
)

// Filter is a named transform together with how its result is shown.
type Filter struct {
	Name     string
	Title    string
	Colormap string // colormap for single-plane results; empty keeps the display default
	Doc      string
	Apply    func(*Array) (*Array, error)
}

var filters = []Filter{
	{
		Name:  "invert",
		Title: "Invert",
		Doc: `Inverts the colors of the image.
Args:
array (Array): The input image array.
Returns:
Array: The color-inverted image array.`,
		Apply: Invert,
	},
	{
		Name:  "red",
		Title: "Red",
		Doc: `Applies a red color filter to the image.
Args:
array (Array): The input image array.
Returns:
Array: The color-filtered image array.`,
		Apply: Red,
	},
	{
		Name:  "green",
		Title: "Green",
		Doc: `Applies a green color filter to the image.
Args:
array (Array): The input image array.
Returns:
Array: The color-filtered image array.`,
		Apply: Green,
	},
	{
		Name:  "blue",
		Title: "Blue",
		Doc: `Applies a blue color filter to the image.
Args:
array (Array): The input image array.
Returns:
Array: The color-filtered image array.`,
		Apply: Blue,
	},
	{
		Name:     "grey",
		Title:    "Grey",
		Colormap: "gray",
		Doc: `Applies a grey color filter to the image.
Args:
array (Array): The input image array.
Returns:
Array: The color-filtered image array.`,
		Apply: Grey,
	},
}

// Filters returns every filter in display order.
func Filters() []Filter {
	return slices.Clone(filters)
}

// Names returns the filter names in display order.
func Names() []string {
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = f.Name
	}
	return names
}

// Lookup finds a filter by name.
func Lookup(name string) (Filter, bool) {
	for _, f := range filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

func requireRGB(op string, a *Array) error {
	if a == nil {
		return &ProcessingError{Op: op, Err: ErrNilArray}
	}
	if !a.IsRGB() {
		return &ProcessingError{Op: op, Err: shapeError(a.Shape(), "(H, W, 3)")}
	}
	return nil
}

// Invert returns MaxValue - v for every element.
func Invert(a *Array) (*Array, error) {
	if err := requireRGB("inverting the image", a); err != nil {
		return nil, err
	}
	out := a.Clone()
	for i, v := range a.Pix {
		out.Pix[i] = MaxValue - v
	}
	return out, nil
}

// Red keeps only the red channel; the other planes are zero.
func Red(a *Array) (*Array, error) {
	return isolate("red filtering the image", a, RedChannel)
}

// Green keeps only the green channel; the other planes are zero.
func Green(a *Array) (*Array, error) {
	return isolate("green filtering the image", a, GreenChannel)
}

// Blue keeps only the blue channel; the other planes are zero.
func Blue(a *Array) (*Array, error) {
	return isolate("blue filtering the image", a, BlueChannel)
}

func isolate(op string, a *Array, channel int) (*Array, error) {
	if err := requireRGB(op, a); err != nil {
		return nil, err
	}
	out, err := NewArray(a.Height, a.Width, a.Channels)
	if err != nil {
		return nil, &ProcessingError{Op: op, Err: err}
	}
	for i := channel; i < len(a.Pix); i += a.Channels {
		out.Pix[i] = a.Pix[i]
	}
	return out, nil
}

// Grey averages the three channels into a single plane of shape (H, W, 1).
func Grey(a *Array) (*Array, error) {
	const op = "grey filtering the image"
	if err := requireRGB(op, a); err != nil {
		return nil, err
	}
	out, err := NewArray(a.Height, a.Width, 1)
	if err != nil {
		return nil, &ProcessingError{Op: op, Err: err}
	}
	for p := range out.Pix {
		i := p * 3
		out.Pix[p] = (a.Pix[i] + a.Pix[i+1] + a.Pix[i+2]) / 3
	}
	return out, nil
}
