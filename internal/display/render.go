package display

import (
	"fmt"
	"math"
	"strings"

	tui "github.com/charmbracelet/lipgloss"

	"github.com/ftkit/ftkit/internal/pixels"
)

// upper half block: foreground paints the top pixel, background the bottom one
const halfBlock = "▀"

const opDisplay = "displaying the image"

var (
	titleStyle   = tui.NewStyle().Bold(true)
	captionStyle = tui.NewStyle().Faint(true)
)

// Render draws a as coloured half-block cells, two pixel rows per text row,
// under a title line. Arrays wider than width columns are downscaled with
// nearest-neighbour sampling; width <= 0 keeps the original size.
func Render(a *pixels.Array, title string, cmap Colormap, width int) (string, error) {
	if err := checkDrawable(a); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(title))
	sb.WriteByte('\n')

	if a.Width == 0 || a.Height == 0 {
		sb.WriteString(captionStyle.Render("(empty)"))
		return sb.String(), nil
	}

	cols := a.Width
	if width > 0 && width < cols {
		cols = width
	}
	rows := max(1, int(math.Round(float64(a.Height)*float64(cols)/float64(a.Width))))

	lo, hi := a.Range()
	sample := func(row, col int) rgb {
		y := row * a.Height / rows
		x := col * a.Width / cols
		return pixelColor(a, y, x, cmap, lo, hi)
	}

	for r := 0; r < rows; r += 2 {
		for c := range cols {
			style := tui.NewStyle().Foreground(tui.Color(sample(r, c).hex()))
			if r+1 < rows {
				style = style.Background(tui.Color(sample(r+1, c).hex()))
			}
			sb.WriteString(style.Render(halfBlock))
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(captionStyle.Render(fmt.Sprintf("%d×%d", a.Width, a.Height)))
	return sb.String(), nil
}

func checkDrawable(a *pixels.Array) error {
	if a == nil {
		return &pixels.ProcessingError{Op: opDisplay, Err: pixels.ErrNilArray}
	}
	if (a.Channels != 1 && a.Channels != 3) || len(a.Pix) != a.Height*a.Width*a.Channels {
		return &pixels.ProcessingError{
			Op:  opDisplay,
			Err: fmt.Errorf("%w: got %s, want (H, W, 3) or (H, W, 1)", pixels.ErrShape, pixels.FormatShape(a)),
		}
	}
	return nil
}

func pixelColor(a *pixels.Array, y, x int, cmap Colormap, lo, hi float64) rgb {
	if a.Channels == 3 {
		return rgb{
			clip8(a.At(y, x, 0)),
			clip8(a.At(y, x, 1)),
			clip8(a.At(y, x, 2)),
		}
	}
	return cmap.color(pixels.Normalize(a.At(y, x, 0), lo, hi))
}

func clip8(v float64) uint8 {
	return unit(v / pixels.MaxValue)
}
