package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Unknown is the total passed for sequences whose length is not known.
const Unknown = -1

const (
	// DefaultWidth is the bar width used when the output is not a terminal.
	DefaultWidth = 40

	minWidth = 10
	maxWidth = 60

	// reservedColumns approximates the columns taken by the text around the bar.
	reservedColumns = 50
)

const fullBlock = "█"

var (
	blocks       = []rune(" ▏▎▍▌▋▊▉")
	spinner      = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
	asciiSpinner = []rune(`|/-\`)
)

// Phase is the lifecycle stage of a Bar.
type Phase int

const (
	NotStarted Phase = iota
	Running
	Finished
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Options configures a progress display.
type Options struct {
	// Output is where status lines are written.
	// Default: os.Stdout
	Output io.Writer

	// Width is the number of bar cells. Zero derives it from the terminal
	// width, falling back to DefaultWidth.
	Width int

	// Description is printed in front of the status line.
	Description string

	// ASCII draws the bar with '#' and the spinner with |/-\.
	ASCII bool

	// MinInterval is the minimum time between two renders. The first and
	// the final render are never skipped. Zero renders after every item.
	MinInterval time.Duration

	// Leave ends the status line with a newline when the bar finishes.
	Leave bool

	// Clock returns the current time.
	// Default: time.Now
	Clock func() time.Time

	// Logger receives debug events. Default: the global logger.
	Logger *zerolog.Logger
}

// State is a snapshot of a Bar's counters.
type State struct {
	Phase      Phase
	Done       int
	Total      int
	Start      time.Time
	LastRender time.Time
	Elapsed    time.Duration
	Renders    int
}

// Known reports whether the total is known.
func (s State) Known() bool {
	return s.Total >= 0
}

// Fraction returns the completed fraction in [0, 1]. A zero total is
// complete from the start; an unknown total reports 0.
func (s State) Fraction() float64 {
	switch {
	case !s.Known():
		return 0
	case s.Total == 0:
		return 1
	}
	f := float64(s.Done) / float64(s.Total)
	return min(max(f, 0), 1)
}

// Rate returns the items processed per second, or 0 before any time has
// elapsed.
func (s State) Rate() float64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Done) / secs
}

// Bar tracks progress over one iteration and renders it.
type Bar struct {
	opts   Options
	out    io.Writer
	clock  func() time.Time
	width  int
	logger zerolog.Logger

	state        State
	renderedDone int
	lastLen      int
	spin         int
}

// NewBar creates a bar for total items. Pass Unknown when the total is not
// known.
func NewBar(total int, opts Options) *Bar {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if total < 0 {
		total = Unknown
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Bar{
		opts:   opts,
		out:    opts.Output,
		clock:  opts.Clock,
		width:  resolveWidth(opts),
		logger: logger.With().Str("component", "progress").Logger(),
		state: State{
			Phase: NotStarted,
			Total: total,
		},
		renderedDone: -1,
	}
}

func resolveWidth(opts Options) int {
	if opts.Width > 0 {
		return opts.Width
	}
	if f, ok := opts.Output.(*os.File); ok && term.IsTerminal(f.Fd()) {
		if cols, _, err := term.GetSize(f.Fd()); err == nil && cols > 0 {
			return min(max(cols-reservedColumns, minWidth), maxWidth)
		}
	}
	return DefaultWidth
}

// State returns a snapshot of the bar's counters.
func (b *Bar) State() State {
	return b.state
}

// Start records the start time and renders the initial 0/total line.
// Calling it more than once has no effect.
func (b *Bar) Start() {
	if b.state.Phase != NotStarted {
		return
	}
	now := b.clock()
	b.state.Phase = Running
	b.state.Start = now
	b.logger.Debug().Int("total", b.state.Total).Msg("progress started")
	b.render(now, true)
}

// Add advances the counter by n and renders the status line. Non-positive
// values are ignored because the counter never decreases.
func (b *Bar) Add(n int) {
	if n <= 0 || b.state.Phase == Finished {
		return
	}
	if b.state.Phase == NotStarted {
		b.Start()
	}
	b.state.Done += n
	complete := b.state.Known() && b.state.Done >= b.state.Total
	b.render(b.clock(), complete)
}

// Finish renders the final status if a throttled render left it stale and
// moves the bar to the finished phase.
func (b *Bar) Finish() {
	if b.state.Phase == Finished {
		return
	}
	if b.state.Phase == NotStarted {
		b.Start()
	}
	if b.renderedDone != b.state.Done {
		b.render(b.clock(), true)
	}
	b.state.Phase = Finished
	if b.opts.Leave {
		fmt.Fprintln(b.out)
	}
	b.flush()
	b.logger.Debug().
		Int("done", b.state.Done).
		Dur("elapsed", b.state.Elapsed).
		Msg("progress finished")
}

// Abort ends the status line so that whatever the caller prints next starts
// on a fresh line, and moves the bar to the finished phase.
func (b *Bar) Abort() {
	if b.state.Phase == Finished {
		return
	}
	if b.state.Phase == NotStarted {
		b.Start()
	}
	if b.renderedDone != b.state.Done {
		b.render(b.clock(), true)
	}
	b.state.Phase = Finished
	fmt.Fprintln(b.out)
	b.flush()
	b.logger.Debug().Int("done", b.state.Done).Msg("progress aborted")
}

// Line returns the current status line without writing it.
func (b *Bar) Line() string {
	s := b.state
	prefix := ""
	if b.opts.Description != "" {
		prefix = b.opts.Description + ": "
	}
	elapsed := FormatDuration(s.Elapsed)
	rate := FormatRate(s.Rate())

	if !s.Known() {
		glyphs := spinner
		if b.opts.ASCII {
			glyphs = asciiSpinner
		}
		g := glyphs[b.spin%len(glyphs)]
		return fmt.Sprintf("%s%c %dit [%s, %s]", prefix, g, s.Done, elapsed, rate)
	}

	frac := s.Fraction()
	return fmt.Sprintf("%s%3d%%|%s| %d/%d [%s<%s, %s]",
		prefix,
		int(frac*100),
		b.fill(frac),
		s.Done,
		s.Total,
		elapsed,
		b.eta(),
		rate,
	)
}

func (b *Bar) eta() string {
	s := b.state
	remaining := s.Total - s.Done
	if remaining <= 0 {
		return FormatDuration(0)
	}
	rate := s.Rate()
	if rate <= 0 {
		return "?"
	}
	return FormatDuration(time.Duration(float64(remaining) / rate * float64(time.Second)))
}

func (b *Bar) fill(frac float64) string {
	var sb strings.Builder
	cells := frac * float64(b.width)
	full := int(cells)

	if b.opts.ASCII {
		sb.WriteString(strings.Repeat("#", full))
		sb.WriteString(strings.Repeat(" ", b.width-full))
		return sb.String()
	}

	sb.WriteString(strings.Repeat(fullBlock, full))
	if full < b.width {
		partial := int((cells - float64(full)) * float64(len(blocks)))
		sb.WriteRune(blocks[partial])
		sb.WriteString(strings.Repeat(" ", b.width-full-1))
	}
	return sb.String()
}

func (b *Bar) render(now time.Time, force bool) {
	s := &b.state
	if !force && b.opts.MinInterval > 0 && s.Renders > 0 && now.Sub(s.LastRender) < b.opts.MinInterval {
		return
	}

	elapsed := now.Sub(s.Start)
	if elapsed < s.Elapsed {
		elapsed = s.Elapsed
	}
	s.Elapsed = elapsed
	s.LastRender = now
	s.Renders++

	line := b.Line()
	b.spin++
	b.renderedDone = s.Done

	n := utf8.RuneCountInString(line)
	pad := ""
	if n < b.lastLen {
		pad = strings.Repeat(" ", b.lastLen-n)
	}
	b.lastLen = n

	fmt.Fprint(b.out, "\r"+line+pad)
	b.flush()
}

type flusher interface {
	Flush() error
}

func (b *Bar) flush() {
	if f, ok := b.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			b.logger.Debug().Err(err).Msg("failed to flush progress output")
		}
	}
}
