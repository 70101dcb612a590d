package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"xmastree/internal/app"
	"xmastree/internal/core/config"
)

var (
	configPath = flag.String("config", "./xmastree.toml", "Path to config file")
	watch      = flag.Bool("watch", false, "Keep running and re-check changed files")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("xmastree v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The default config file is optional; a named one is not.
		if *configPath == "./xmastree.toml" && errors.Is(err, fs.ErrNotExist) {
			cfg = config.DefaultConfig()
		} else {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	application, err := app.New(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(flag.Args()); err != nil {
		slog.Error("check failed", "error", err)
		os.Exit(1)
	}

	if !*watch {
		// Violations never change the exit code; only I/O failures do.
		return
	}

	if flag.NArg() == 0 {
		slog.Error("watch mode requires at least one path argument")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := application.StartWatch(ctx, flag.Args()); err != nil {
		slog.Error("failed to start watch mode", "error", err)
		os.Exit(1)
	}

	select {}
}
