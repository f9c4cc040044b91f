package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a Logger writing to w. "text" uses slog's text handler, "json"
// uses a zap production encoder. The returned func flushes the backend.
func New(w io.Writer, format, level string) (Logger, func() error, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), func() error { return nil }, nil

	case FormatJSON:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
		zl := NewZapLogger(zap.New(core))
		return zl, zl.Sync, nil

	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}
}
