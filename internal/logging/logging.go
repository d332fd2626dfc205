package logging

import (
	"fmt"
	"io"
	"os"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/config"
)

// Setup configures the global zerolog logger. Console output goes to
// stderr so command output on stdout stays clean. The returned closer
// releases the log file, if any.
func Setup(cfg config.LoggingConfig, production bool) (io.Closer, error) {
	return setup(cfg, production, os.Stderr)
}

func setup(cfg config.LoggingConfig, production bool, stderr io.Writer) (io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var out io.Writer = stderr
	if cfg.Format != "json" && !production {
		out = zerolog.ConsoleWriter{Out: stderr}
	}

	closer := io.Closer(nopCloser{})
	if cfg.File != "" {
		opts := []rotatelogs.Option{rotatelogs.WithLinkName(cfg.File)}
		if cfg.MaxAge > 0 {
			opts = append(opts, rotatelogs.WithMaxAge(cfg.MaxAge))
		}
		if cfg.RotationTime > 0 {
			opts = append(opts, rotatelogs.WithRotationTime(cfg.RotationTime))
		}
		rl, err := rotatelogs.New(cfg.File+".%Y%m%d", opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, rl)
		closer = rl
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
