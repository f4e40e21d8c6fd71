package render

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// DefaultRenderer draws to a terminal with absolute cursor positioning.
// Frames are buffered and written to Out once per loop iteration.
type DefaultRenderer struct {
	Out io.Writer
	Fd  int

	mu           sync.Mutex
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    uint16
	Content string
	Frames  int // remaining frames until removed
}

func NewDefaultRenderer() *DefaultRenderer {
	return &DefaultRenderer{Out: os.Stdout, Fd: int(os.Stdout.Fd())}
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(r.Fd) {
		state, err := term.MakeRaw(r.Fd)
		if nil != err {
			return errors.Wrap(err, "unable to make terminal raw")
		}
		r.restoreState = state
	}

	_, err := io.WriteString(r.Out, "\033[?1049h"+ // Enable alternate buffer
		"\033[?25l"+ // Make the cursor invisible
		"\033[2J", // Clear the screen
	)
	return err
}

func (r *DefaultRenderer) Deinit() error {
	_, err := io.WriteString(r.Out, "\033[?1049l"+ // Disable alternate buffer
		"\033[?25h", // Make the cursor visible
	)
	if nil != err {
		return err
	}
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.Fd, r.restoreState)
}

// Size falls back to 80x24 when Out is not a terminal
func (r *DefaultRenderer) Size() (int, int) {
	columns, rows, err := term.GetSize(r.Fd)
	if nil != err || columns <= 0 || rows <= 0 {
		return 80, 24
	}
	return columns, rows
}

func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	r.mu.Lock()
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.mu.Unlock()
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	r.mu.Lock()
	defer r.mu.Unlock()
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.fill(d.Y, d.X, strings.Repeat(" ", len([]rune(stripEscapes(d.Content)))))
			continue
		}
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// RenderLoop calls render once per period until it returns false or ctx ends
func (r *DefaultRenderer) RenderLoop(ctx context.Context, period time.Duration, render func(elapsed time.Duration) bool) {
	startTime := time.Now()
	for {
		now := time.Now()
		deadline := now.Add(period)

		cont := render(now.Sub(startTime))

		r.tickDecorations()
		r.flush()
		if !cont {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(deadline)):
		}
	}
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fill(row, column, message)
}

func (r *DefaultRenderer) fill(row, column uint16, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
}

// stripEscapes drops CSI sequences so styled content can be blanked by width
func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < '@' || s[i] > '~') {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
