package huffman

import (
	"context"
	"log/slog"
)

func dbg(msg string, args ...any) {
	logger := slog.Default()
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug(msg, args...)
	}
}
