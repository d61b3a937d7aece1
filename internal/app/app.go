// Package app provides the viewer application: a full-screen pager that
// soft-wraps a file to the terminal width and highlights its syntax.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/mgrady/softwrap/internal/config"
	"github.com/mgrady/softwrap/internal/engine/buffer"
	"github.com/mgrady/softwrap/internal/log"
	"github.com/mgrady/softwrap/internal/renderer/highlight"
	"github.com/mgrady/softwrap/internal/renderer/measure"
	"github.com/mgrady/softwrap/internal/renderer/style"
	"github.com/mgrady/softwrap/internal/renderer/wrap"
)

// ErrQuit signals that the application should exit normally.
var ErrQuit = errors.New("quit requested")

// Options configures the application.
type Options struct {
	// Path is the file to view.
	Path string
	// Config is the loaded configuration.
	Config *config.Config
	// Logger receives diagnostics; nil uses the null logger.
	Logger *log.Logger
}

// Application owns the screen, the buffer and the wrapped content, and
// runs the event loop.
type Application struct {
	cfg    *config.Config
	logger *log.Logger

	screen  tcell.Screen
	buf     *buffer.Buffer
	content *wrap.Content
	hl      *highlight.Highlighter
	path    string

	// top is the first visible line; wrapped tracks whether soft wrap is
	// in effect
	top     int
	wrapped bool
}

// New loads the file named in opts and assembles the viewing pipeline.
// The screen is not touched until Run.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Null
	}

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Path, err)
	}
	buf := buffer.NewFromString(string(data))

	var copts []wrap.Option
	var hl *highlight.Highlighter
	if cfg.Highlight.Enabled {
		hl = highlight.New(opts.Path, cfg.Highlight.Style,
			highlight.WithBidi(style.ContainsRTL(buf.Text())))
		copts = append(copts, wrap.WithStyles(hl))
		logger.Debug("highlighting %s as %s", opts.Path, hl.Language())
	}

	metrics := measure.NewCellMetrics(cfg.Editor.TabWidth)
	content := wrap.New(buf, metrics, copts...)

	return &Application{
		cfg:     cfg,
		logger:  logger,
		buf:     buf,
		content: content,
		hl:      hl,
		path:    opts.Path,
		wrapped: cfg.Editor.Wrap,
	}, nil
}

// Run initializes the screen and processes events until quit. The screen
// is always finalized, whatever the exit path.
func (app *Application) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	return app.run(screen)
}

// run drives the event loop on an initialized screen.
func (app *Application) run(screen tcell.Screen) error {
	app.screen = screen
	defer screen.Fini()

	width, _ := screen.Size()
	if app.wrapped {
		app.content.WrapAll(width)
		app.logger.Info("wrapped %d logical lines into %d visual lines at width %d",
			app.buf.LineCount(), app.content.VisualLineCount(), width)
	}
	app.draw()

	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.handle(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		app.draw()
	}
}

func (app *Application) handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		width, _ := ev.Size()
		if app.wrapped {
			app.content.WrapAll(width)
		}
		app.clampTop()
		app.screen.Sync()
	case *tcell.EventKey:
		return app.handleKey(ev)
	}
	return nil
}

func (app *Application) handleKey(ev *tcell.EventKey) error {
	_, height := app.screen.Size()
	page := height - 1
	if page < 1 {
		page = 1
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyUp:
		app.scroll(-1)
	case tcell.KeyDown:
		app.scroll(1)
	case tcell.KeyPgUp:
		app.scroll(-page)
	case tcell.KeyPgDn:
		app.scroll(page)
	case tcell.KeyHome:
		app.top = 0
	case tcell.KeyEnd:
		app.top = app.maxTop()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ErrQuit
		case 'k':
			app.scroll(-1)
		case 'j':
			app.scroll(1)
		case 'g':
			app.top = 0
		case 'G':
			app.top = app.maxTop()
		case 'w':
			app.toggleWrap()
		}
	}
	return nil
}

// toggleWrap switches between soft-wrapped and logical-line views. The
// table is discarded when wrapping turns off, so queries pass through to
// the buffer.
func (app *Application) toggleWrap() {
	app.wrapped = !app.wrapped
	if app.wrapped {
		width, _ := app.screen.Size()
		app.content.WrapAll(width)
	} else {
		app.content.Unwrap()
	}
	app.clampTop()
	app.logger.Debug("wrap toggled: %v", app.wrapped)
}

func (app *Application) scroll(delta int) {
	app.top += delta
	app.clampTop()
}

func (app *Application) clampTop() {
	if max := app.maxTop(); app.top > max {
		app.top = max
	}
	if app.top < 0 {
		app.top = 0
	}
}

func (app *Application) maxTop() int {
	_, height := app.screen.Size()
	max := app.content.LineCount() - (height - 1)
	if max < 0 {
		max = 0
	}
	return max
}

func (app *Application) draw() {
	app.screen.Clear()
	width, height := app.screen.Size()

	for row := 0; row < height-1; row++ {
		index := app.top + row
		if index >= app.content.LineCount() {
			break
		}
		app.drawLine(row, index, width)
	}
	app.drawStatus(width, height)
	app.screen.Show()
}

// drawLine renders one visual line. Styles come from the logical line the
// visual line belongs to, clipped to the visual range, so a token split
// across a wrap boundary keeps its color on both rows.
func (app *Application) drawLine(row, index, width int) {
	text, err := app.content.Line(index)
	if err != nil {
		return
	}
	offset, err := app.content.OffsetAtLine(index)
	if err != nil {
		return
	}

	var ranges []style.Range
	if app.hl != nil {
		logical := app.buf.LineAtOffset(offset)
		ranges = app.hl.LineStyles(app.buf.OffsetAtLine(logical), app.buf.Line(logical))
		ranges = style.Overlapping(ranges, offset, len(text))
	}

	tabWidth := app.cfg.Editor.TabWidth
	x := 0
	pos := offset
	graphemes := uniseg.NewGraphemes(text)
	for graphemes.Next() {
		if x >= width {
			break
		}
		cluster := graphemes.Str()
		st := app.styleAt(ranges, pos)
		if cluster == "\t" {
			next := x + tabWidth - x%tabWidth
			for ; x < next && x < width; x++ {
				app.screen.SetContent(x, row, ' ', nil, st)
			}
		} else {
			runes := graphemes.Runes()
			app.screen.SetContent(x, row, runes[0], runes[1:], st)
			x += runewidth.StringWidth(cluster)
		}
		pos += len(cluster)
	}
}

// styleAt returns the tcell style for the cluster at offset.
func (app *Application) styleAt(ranges []style.Range, offset int) tcell.Style {
	st := tcell.StyleDefault
	for _, r := range ranges {
		if offset < r.Start || offset >= r.End() {
			continue
		}
		if r.Foreground != "" {
			st = st.Foreground(tcell.GetColor(r.Foreground))
		}
		if r.Background != "" {
			st = st.Background(tcell.GetColor(r.Background))
		}
		st = st.Bold(r.Bold).Italic(r.Italic).Underline(r.Underline)
		break
	}
	return st
}

func (app *Application) drawStatus(width, height int) {
	mode := "nowrap"
	if app.wrapped {
		mode = "wrap"
	}
	status := fmt.Sprintf(" %s  [%s]  %d lines ", app.path, mode, app.content.LineCount())
	st := tcell.StyleDefault.Reverse(true)

	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		app.screen.SetContent(x, height-1, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		app.screen.SetContent(x, height-1, ' ', nil, st)
	}
}
