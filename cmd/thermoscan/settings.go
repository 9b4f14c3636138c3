package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/thermoscan/internal/config"
	"github.com/san-kum/thermoscan/internal/experiment"
	"github.com/san-kum/thermoscan/internal/game"
)

// loadSettings layers defaults, preset, config file, environment and flags,
// in that order.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("influence") {
		cfg.Influence.Name = influence
	}
	if flags.Changed("gain") {
		cfg.Influence.Gain = gain
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Autoplay.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.SetDefault(newLogger(cfg.LogLevel))
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func workerCount(cfg *config.Config) int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return runtime.NumCPU()
}

func engineOptions(cfg *config.Config) ([]game.Option, error) {
	inf, err := experiment.NewRegistry().GetInfluence(cfg.Influence.Name, cfg.Influence.Gain)
	if err != nil {
		return nil, err
	}
	return []game.Option{
		game.WithInfluence(inf),
		game.WithWorkers(workerCount(cfg)),
	}, nil
}
