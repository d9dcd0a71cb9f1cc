package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// console is the status stream shared by the logger, the spinner and the
// status printers. Every write goes through one mutex, and any spinner
// line still on screen is erased before a log or status line is written.
type console struct {
	out io.Writer
	tty bool

	mu    sync.Mutex
	drawn int // width of the spinner line on screen, 0 when none
}

func newConsole(w io.Writer) *console {
	return &console{out: w, tty: isTerminal(w)}
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Fd returns the descriptor of the underlying writer, so the logger's color
// detection sees the terminal behind the console. Writers without one
// report an invalid descriptor.
func (c *console) Fd() uintptr {
	if f, ok := c.out.(interface{ Fd() uintptr }); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// Write erases the spinner line, then writes p.
func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eraseLocked()
	return c.out.Write(p)
}

// transient replaces the spinner line with line, without a newline.
func (c *console) transient(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := lipgloss.Width(line)
	pad := max(c.drawn-n, 0)
	fmt.Fprintf(c.out, "\r%s%s", line, strings.Repeat(" ", pad))
	c.drawn = n + pad
}

// erase clears the spinner line, if any.
func (c *console) erase() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eraseLocked()
}

func (c *console) eraseLocked() {
	if c.drawn == 0 {
		return
	}
	fmt.Fprintf(c.out, "\r%s\r", strings.Repeat(" ", c.drawn))
	c.drawn = 0
}
