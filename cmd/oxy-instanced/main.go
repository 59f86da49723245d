// Command oxy-instanced opens a window and draws a spinning, instanced grid of textured
// shapes. W/S or Up/Down move the camera toward and away from the grid, A/D or Left/Right
// orbit it, Space switches between the square with the photo and the hexagon with noise,
// and Escape quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/config"
	"github.com/Carmen-Shannon/oxy-instanced/engine"
)

type options struct {
	configPath string
	logLevel   string
	profile    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("oxy-instanced", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a .yaml, .yml or .toml config file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")
	fs.BoolVar(&opts.profile, "profile", false, "log frame statistics every second at debug level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig applies the config file, then the flag overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.profile {
		cfg.Log.Profile = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// run returns the process exit code: 0 after a normal close, 1 on any startup or fatal
// GPU error, 2 on bad flags.
func run(args []string, stderr io.Writer) (code int) {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "oxy-instanced: %v\n", err)
		return 1
	}

	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	common.SetLogger(logger)

	// adapter and device acquisition panic when no usable GPU exists
	defer func() {
		if r := recover(); r != nil {
			logger.Error("fatal startup error", "panic", r)
			code = 1
		}
	}()

	eng, err := engine.New(cfg)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}

	runErr := eng.Run()
	if err := eng.Close(); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}
	if runErr != nil {
		logger.Error("stopped", "error", runErr)
		return 1
	}
	return 0
}
