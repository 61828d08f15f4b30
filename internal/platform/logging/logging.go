package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ogurasousui/codex-employee-directory/internal/platform/config"
)

// Setup はグローバルロガーをレベルと出力形式に合わせて構成します。
func Setup(cfg config.LogConfig) error {
	return SetupWithWriter(cfg, os.Stderr)
}

// SetupWithWriter は出力先を指定してグローバルロガーを構成します。
func SetupWithWriter(cfg config.LogConfig, w io.Writer) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("logging: parse level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	switch strings.ToLower(cfg.Format) {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}
