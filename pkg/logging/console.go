package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	colorDim    = "\033[2m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

// ConsoleHandler is a minimal slog.Handler for terminal diagnostics:
// one line per record on the writer, key=value attributes, colored by
// level when enabled. Engine step records log at debug and stay hidden
// unless the level is lowered.
type ConsoleHandler struct {
	writer io.Writer
	level  slog.Level
	color  bool
	group  string
	attrs  []slog.Attr
}

func NewConsoleHandler(w io.Writer, level slog.Level, color bool) *ConsoleHandler {
	return &ConsoleHandler{
		writer: w,
		level:  level,
		color:  color,
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if h.group != "" {
		b.WriteString("[" + h.group + "] ")
	}
	b.WriteString(r.Message)

	write := func(a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.Resolve().String())
	}

	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})

	line := b.String()
	if h.color {
		switch {
		case r.Level >= slog.LevelError:
			line = colorRed + line + colorReset
		case r.Level >= slog.LevelWarn:
			line = colorYellow + line + colorReset
		case r.Level < slog.LevelInfo:
			line = colorDim + line + colorReset
		}
	}

	_, err := fmt.Fprintln(h.writer, line)
	return err
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// Init installs the console handler on stderr as the default logger.
// Debug mode lowers the level so per-step engine records surface.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(NewConsoleHandler(os.Stderr, level, true)))
}
