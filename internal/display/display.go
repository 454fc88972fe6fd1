package display

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog/log"

	"github.com/ftkit/ftkit/internal/pixels"
)

// DefaultMaxWidth is the column limit used when none is configured.
const DefaultMaxWidth = 80

// Mode selects how Display presents a picture.
type Mode string

const (
	// ModeAuto uses ModeTUI on a terminal and ModeText otherwise.
	ModeAuto Mode = "auto"
	// ModeTUI shows the picture in an interactive viewer until a key is pressed.
	ModeTUI Mode = "tui"
	// ModeText writes the picture once.
	ModeText Mode = "text"
	// ModeNone draws nothing; results are only saved when SaveDir is set.
	ModeNone Mode = "none"
)

// ParseMode validates a display mode name. The empty name is ModeAuto.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeTUI, ModeText, ModeNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown display mode: %s", name)
	}
}

// Options configures Display.
type Options struct {
	Colormap Colormap
	Mode     Mode

	// Output receives the drawing.
	// Default: os.Stdout
	Output io.Writer

	// Input feeds key presses to the tui viewer.
	// Default: os.Stdin
	Input io.Reader

	// MaxWidth limits the drawing to this many columns.
	// Default: DefaultMaxWidth, further limited by the terminal width
	MaxWidth int

	// SaveDir, when set, receives each result as a PNG file.
	SaveDir string

	// ProgramOptions are appended to the tui viewer's program options.
	ProgramOptions []tea.ProgramOption
}

// Display shows a under title. Failures are returned as
// *pixels.ProcessingError.
func Display(ctx context.Context, a *pixels.Array, title string, opts Options) error {
	if err := checkDrawable(a); err != nil {
		return err
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	logger := log.With().Str("component", "display").Str("title", title).Logger()

	if opts.SaveDir != "" {
		path, err := Save(a, opts.SaveDir, title)
		if err != nil {
			return &pixels.ProcessingError{Op: opDisplay, Err: err}
		}
		logger.Debug().Str("path", path).Msg("saved result")
	}

	mode := resolveMode(opts)
	width := resolveWidth(opts)
	logger.Debug().Str("mode", string(mode)).Int("width", width).Msg("displaying")

	switch mode {
	case ModeNone:
		return nil
	case ModeTUI:
		v, err := newViewer(a, title, opts.Colormap, width)
		if err != nil {
			return err
		}
		programOpts := []tea.ProgramOption{
			tea.WithContext(ctx),
			tea.WithOutput(opts.Output),
		}
		if opts.Input != nil {
			programOpts = append(programOpts, tea.WithInput(opts.Input))
		}
		programOpts = append(programOpts, opts.ProgramOptions...)

		if _, err := tea.NewProgram(v, programOpts...).Run(); err != nil {
			return &pixels.ProcessingError{Op: opDisplay, Err: err}
		}
		return nil
	default:
		body, err := Render(a, title, opts.Colormap, width)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(opts.Output, body); err != nil {
			return &pixels.ProcessingError{Op: opDisplay, Err: err}
		}
		return nil
	}
}

// Save writes a as <dir>/<slug of title>.png and returns the path.
func Save(a *pixels.Array, dir, title string) (string, error) {
	img, err := a.Image()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, slug(title)+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func slug(title string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return '-'
		}
	}, title)
	s = strings.Trim(s, "-")
	if s == "" {
		return "image"
	}
	return s
}

func terminalFd(w io.Writer) (uintptr, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return 0, false
	}
	return f.Fd(), true
}

func resolveMode(opts Options) Mode {
	if opts.Mode != ModeAuto && opts.Mode != "" {
		return opts.Mode
	}
	if _, ok := terminalFd(opts.Output); ok {
		return ModeTUI
	}
	return ModeText
}

func resolveWidth(opts Options) int {
	width := opts.MaxWidth
	if width <= 0 {
		width = DefaultMaxWidth
	}
	if fd, ok := terminalFd(opts.Output); ok {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			width = min(width, cols)
		}
	}
	return width
}
