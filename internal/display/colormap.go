package display

import (
	"fmt"
	"math"
	"strings"
)

// Colormap maps a normalised single-plane value to a colour. Three-channel
// arrays are always drawn with their own colours.
type Colormap string

const (
	// Natural draws RGB arrays as-is and single planes with Viridis.
	Natural Colormap = ""
	Gray    Colormap = "gray"
	Viridis Colormap = "viridis"
	Hot     Colormap = "hot"
)

// Colormaps lists the accepted colormap names.
func Colormaps() []Colormap {
	return []Colormap{Gray, Viridis, Hot}
}

// ParseColormap validates a colormap name. The empty name is Natural.
func ParseColormap(name string) (Colormap, error) {
	switch c := Colormap(strings.ToLower(strings.TrimSpace(name))); c {
	case Natural, Gray, Viridis, Hot:
		return c, nil
	case "grey":
		return Gray, nil
	default:
		names := make([]string, 0, len(Colormaps()))
		for _, c := range Colormaps() {
			names = append(names, string(c))
		}
		return "", fmt.Errorf("unknown colormap: %s (available: %s)", name, strings.Join(names, ", "))
	}
}

type rgb struct {
	r, g, b uint8
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

var viridisStops = []rgb{
	{0x44, 0x01, 0x54},
	{0x3b, 0x52, 0x8b},
	{0x21, 0x91, 0x8c},
	{0x5e, 0xc9, 0x62},
	{0xfd, 0xe7, 0x25},
}

// color maps v in [0, 1] to a colour.
func (c Colormap) color(v float64) rgb {
	v = min(max(v, 0), 1)
	switch c {
	case Gray:
		g := unit(v)
		return rgb{g, g, g}
	case Hot:
		return rgb{
			unit(v / 0.375),
			unit((v - 0.375) / 0.375),
			unit((v - 0.75) / 0.25),
		}
	default:
		return interpolate(viridisStops, v)
	}
}

func interpolate(stops []rgb, v float64) rgb {
	pos := v * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return rgb{lerp(a.r, b.r), lerp(a.g, b.g), lerp(a.b, b.b)}
}

// unit scales v in [0, 1] to [0, 255].
func unit(v float64) uint8 {
	v = min(max(v, 0), 1)
	return uint8(math.Round(v * 255))
}
