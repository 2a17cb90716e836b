package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
)

// pipelineHandler adapts slog records onto the formatter/output pipeline,
// so the Logger facade and anything routed through slog produce identical
// lines.
type pipelineHandler struct {
	logger *BaseLogger
	attrs  []slog.Attr
	group  string
}

func newPipelineHandler(logger *BaseLogger) *pipelineHandler {
	return &pipelineHandler{logger: logger}
}

// Enabled gates on the owning logger's level.
func (h *pipelineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.level <= fromSlogLevel(level)
}

// Handle flattens the record and its inherited attrs into an Entry and
// emits it.
func (h *pipelineHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(Fields, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})
	return h.emit(&Entry{
		Timestamp: r.Time,
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Caller:    callerOf(r.PC),
		Fields:    fields,
	})
}

// emit runs one entry through the formatter and every output.
func (h *pipelineHandler) emit(e *Entry) error {
	line, err := h.logger.formatter.Format(e)
	if err != nil {
		return err
	}
	for _, out := range h.logger.outputs {
		_ = out.Write(e, line)
	}
	return nil
}

// WithAttrs returns a handler carrying the extra base attrs.
func (h *pipelineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup records the group name; the flat formatters ignore it.
func (h *pipelineHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = name
	return &next
}

// callerOf renders the file:line behind a record PC, "" when the record
// carries none.
func callerOf(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	file, line := fn.FileLine(pc)
	return file + ":" + strconv.Itoa(line)
}

func toSlogLevel(level Level) slog.Level {
	switch {
	case level <= DebugLevel:
		return slog.LevelDebug
	case level == WarnLevel:
		return slog.LevelWarn
	case level >= ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelInfo:
		return DebugLevel
	case level < slog.LevelWarn:
		return InfoLevel
	case level < slog.LevelError:
		return WarnLevel
	default:
		return ErrorLevel
	}
}

func mapAttrs(m Fields) []slog.Attr {
	out := make([]slog.Attr, 0, len(m))
	for k, v := range m {
		out = append(out, slog.Any(k, v))
	}
	return out
}

func fieldAttrs(fields []Field) []slog.Attr {
	out := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}
