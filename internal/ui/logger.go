package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger writes timestamped, colored status lines
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	now  func() time.Time
	info *color.Color
	warn *color.Color
	err  *color.Color
}

// NewLogger creates a Logger writing to out
func NewLogger(out io.Writer) *Logger {
	return &Logger{
		out:  out,
		now:  time.Now,
		info: color.New(color.FgCyan),
		warn: color.New(color.FgYellow),
		err:  color.New(color.FgRed),
	}
}

// NewStderrLogger creates a Logger on stderr
func NewStderrLogger() *Logger {
	return NewLogger(os.Stderr)
}

// Infof logs an informational line
func (l *Logger) Infof(format string, args ...any) {
	l.write(l.info, format, args...)
}

// Warnf logs a warning line
func (l *Logger) Warnf(format string, args ...any) {
	l.write(l.warn, format, args...)
}

// Errorf logs an error line
func (l *Logger) Errorf(format string, args ...any) {
	l.write(l.err, format, args...)
}

func (l *Logger) write(c *color.Color, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s - %s", l.now().Format(timeLayout), fmt.Sprintf(format, args...))
	c.Fprintln(l.out, line)
}
