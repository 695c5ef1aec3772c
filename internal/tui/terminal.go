package tui

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/input"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

// ErrClosed is returned by Draw after the terminal has been released
var ErrClosed = errors.New("terminal closed")

// Terminal owns a tcell screen. It is both the renderer handed to the
// render task and the key source read by input cycles; tcell serialises
// access to the screen between the two goroutines.
type Terminal struct {
	screen tcell.Screen
	view   *View

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewTerminal takes over the controlling terminal
func NewTerminal(view *View) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewTerminalWithScreen(screen, view), nil
}

// NewTerminalWithScreen wraps an initialized screen
func NewTerminalWithScreen(screen tcell.Screen, view *View) *Terminal {
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	return &Terminal{screen: screen, view: view}
}

// Draw paints one frame
func (t *Terminal) Draw(snap app.Snapshot) error {
	if t.closed.Load() {
		return ErrClosed
	}

	w, h := t.screen.Size()
	frame := t.view.Render(snap, w, h)

	t.screen.Clear()
	for y, line := range frame.Lines {
		style := tcell.StyleDefault
		if y == h-1 {
			style = style.Reverse(true)
		}
		paint(t.screen, y, line, w, style)
	}
	if frame.Cursor != nil {
		t.screen.ShowCursor(frame.Cursor.X, frame.Cursor.Y)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
	return nil
}

// paint writes line into row y, never past column w
func paint(screen tcell.Screen, y int, line string, w int, style tcell.Style) {
	x := 0
	for _, r := range line {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > w {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	for ; x < w && style != tcell.StyleDefault; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// ReadKey blocks until a named key is pressed. Resize events redraw the
// screen from its back buffer. Once the screen has been finalized it
// reports input.ErrSourceClosed.
func (t *Terminal) ReadKey() (keybinds.Key, error) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return "", input.ErrSourceClosed
		case *tcell.EventKey:
			if key, ok := KeyName(ev); ok {
				return key, nil
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// Close restores the terminal. It is safe to call more than once.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.screen.Fini()
	})
	return nil
}
