package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Flags represents the command-line parameters shared by the front ends.
type Flags struct {
	Difficulty int
	Scale      float64
	TPS        int
	Seed       int64
	Assets     string
	LogLevel   string
}

// NewFlags returns Flags populated with sensible defaults.
func NewFlags() *Flags {
	return &Flags{Difficulty: 0, Scale: 1, TPS: 60, Seed: 42, LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.IntVar(&f.Difficulty, "difficulty", f.Difficulty, "era: 0 medieval, 1 modern, 2 future")
	fs.Float64Var(&f.Scale, "scale", f.Scale, "window scale multiplier")
	fs.IntVar(&f.TPS, "tps", f.TPS, "ticks per second")
	fs.Int64Var(&f.Seed, "seed", f.Seed, "seed for world generation and reset")
	fs.StringVar(&f.Assets, "assets", f.Assets, "YAML asset file overriding the built-in themes")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "log level: debug, info, warn, error")
}

// Logger builds a text logger writing to w at the configured level.
func (f *Flags) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(f.LogLevel))); err != nil {
		return nil, fmt.Errorf("%w: log level %q", ErrInvalidConfig, f.LogLevel)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
