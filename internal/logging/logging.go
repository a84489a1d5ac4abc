// Package logging configures zerolog for the daemon and control panel.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// New builds the root logger. Format "console" gives human-readable
// output, anything else JSON.
func New(level, format string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	var out io.Writer = os.Stdout
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

// NewCaptured builds a logger that writes console-formatted lines only to
// w. The control panel uses this so log output lands in its log view
// instead of fighting the terminal.
func NewCaptured(level string, w io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// RingWriter keeps the most recent log lines in memory so the control
// panel can tail them without touching the real output stream.
type RingWriter struct {
	mu    sync.Mutex
	lines []string
	max   int
	rest  string
}

// NewRingWriter returns a writer retaining up to max lines.
func NewRingWriter(max int) *RingWriter {
	return &RingWriter{max: max}
}

// Write splits p into lines and appends them, dropping the oldest once
// the buffer is full. Partial lines are held until their newline arrives.
func (w *RingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	text := w.rest + string(p)
	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			break
		}
		w.lines = append(w.lines, text[:idx])
		text = text[idx+1:]
	}
	w.rest = text

	if overflow := len(w.lines) - w.max; overflow > 0 {
		w.lines = append([]string(nil), w.lines[overflow:]...)
	}
	return len(p), nil
}

// Lines snapshots the buffered lines, oldest first.
func (w *RingWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}
