package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ag758/dashbin"
	"github.com/ag758/dashbin/shelfstore"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	verbose := false
	for _, arg := range os.Args[1:] {
		if arg == "--verbose" || arg == "-v" {
			verbose = true
		}
	}
	logger := newLogger(verbose)
	defer logger.Sync()

	dir, err := shelfDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashbin: %v\n", err)
		os.Exit(1)
	}

	db, err := shelfstore.OpenOrEmpty(dir, logger)
	if err != nil {
		// Run memory-only rather than refuse to start.
		logger.Warn("shelf persistence unavailable", zap.Error(err))
	}

	opts := []dashbin.StoreOption{dashbin.WithLogger(logger)}
	if db != nil {
		opts = append(opts, dashbin.WithSaver(db))
	}
	store := dashbin.NewStore(opts...)
	if db != nil {
		store.Restore(db.Load())
		defer db.Close()
	}

	app := newApp(store)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dashbin: %v\n", err)
		os.Exit(1)
	}
}

// shelfDir resolves the shelf directory: $DASHBIN_HOME, else ~/.dashbin.
func shelfDir() (string, error) {
	if dir := os.Getenv("DASHBIN_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dashbin"), nil
}

// newLogger builds a console logger to stderr: debug level under --verbose,
// errors only otherwise.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
