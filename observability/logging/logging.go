package logging

import (
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup configures structured JSON logging for the process and returns the
// base logger. Every line carries the service name and, when provided, the
// deployment environment.
func Setup(service, env string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			case slog.LevelKey:
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			case slog.MessageKey:
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	args := []any{slog.String("service", strings.TrimSpace(service))}
	if env = strings.TrimSpace(env); env != "" {
		args = append(args, slog.String("env", env))
	}

	base := slog.New(handler).With(args...)
	slog.SetDefault(base)

	// Route the standard library logger through the same handler so package
	// level log calls stay structured.
	bridge := slog.NewLogLogger(handler, slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}

// Component returns a child logger tagged with the named subsystem.
func Component(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return base
	}
	return base.With(slog.String("component", name))
}
