package display

import (
	tea "github.com/charmbracelet/bubbletea"
	tui "github.com/charmbracelet/lipgloss"

	"github.com/ftkit/ftkit/internal/pixels"
)

var hintStyle = tui.NewStyle().Faint(true)

// viewer is the bubbletea model behind the tui mode. It redraws the picture
// when the terminal is resized and quits on the first close key.
type viewer struct {
	arr      *pixels.Array
	title    string
	cmap     Colormap
	maxWidth int
	body     string
}

func newViewer(a *pixels.Array, title string, cmap Colormap, width int) (*viewer, error) {
	body, err := Render(a, title, cmap, width)
	if err != nil {
		return nil, err
	}
	return &viewer{
		arr:      a,
		title:    title,
		cmap:     cmap,
		maxWidth: width,
		body:     body,
	}, nil
}

func (v *viewer) Init() tea.Cmd {
	return nil
}

func (v *viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return v, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width
		if v.maxWidth > 0 {
			width = min(width, v.maxWidth)
		}
		if body, err := Render(v.arr, v.title, v.cmap, width); err == nil {
			v.body = body
		}
	}
	return v, nil
}

func (v *viewer) View() string {
	return v.body + "\n" + hintStyle.Render("press q to close") + "\n"
}
