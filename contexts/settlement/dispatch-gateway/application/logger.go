package application

import (
	"log/slog"
	"os"
)

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
