package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout as the process default and
// returns its handler so it can be fanned out later.
func Setup() slog.Handler {
	return SetupWriter(os.Stdout)
}

func SetupWriter(w io.Writer) slog.Handler {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	return handler
}
