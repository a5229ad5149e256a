package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/tordrt/entitysql"
	"github.com/tordrt/entitysql/internal/config"
)

const watchDebounce = 200 * time.Millisecond

var generateCmd = &cobra.Command{
	Use:   "generate [source]",
	Short: "Generate statements for every entity",
	Long: `Generate reads entity descriptions from source (a .yaml/.yml declaration
file, a .go file, or a directory of Go files; default from config) and writes
their statements as SQL, markdown or Go constants.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	fs := generateCmd.Flags()
	addGenerationFlags(fs)
	fs.StringP("output", "o", "", "Output file (default: stdout)")
	fs.StringP("output-dir", "d", "", "Output directory for multi-file output")
	fs.StringP("format", "f", "", "Output format: sql, markdown, or go (default: sql)")
	fs.String("go-package", "", "Package name for Go output (default: entities)")
	fs.BoolP("watch", "w", false, "Regenerate when the source changes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate flag combinations
	if cfg.OutputDir != "" && cfg.Output != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	if err := generateOnce(cfg); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchSource(ctx, cfg.Source, outputPaths(cfg), func() {
		if err := generateOnce(cfg); err != nil {
			slog.Error("generation failed", "source", cfg.Source, "error", err)
			return
		}
		slog.Info("regenerated", "source", cfg.Source)
	})
}

func generateOnce(cfg config.Config) error {
	outOpts := &entitysql.OutputOptions{
		Writer:    os.Stdout,
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		GoPackage: cfg.GoPackage,
	}

	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", cerr)
			}
		}()
		outOpts.Writer = f
	}

	if err := entitysql.GenerateAndFormat(cfg.Source, options(cfg), outOpts); err != nil {
		return fmt.Errorf("failed to generate statements: %w", err)
	}
	return nil
}

// outputPaths lists what generation writes, so the watcher does not react
// to its own output.
func outputPaths(cfg config.Config) []string {
	var paths []string
	for _, p := range []string{cfg.Output, cfg.OutputDir} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// watchSource calls fn after changes to the entity source settle, until ctx
// is done. A file source is watched through its directory so that editors
// replacing the file are seen. Events on or below the ignored paths are
// dropped.
func watchSource(ctx context.Context, source string, ignore []string, fn func()) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", source, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir, match := source, isGoSource
	if !info.IsDir() {
		dir = filepath.Dir(source)
		want := filepath.Clean(source)
		match = func(name string) bool { return filepath.Clean(name) == want }
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	slog.Info("watching for changes", "path", source)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !match(event.Name) || ignored(event.Name, ignore) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			slog.Debug("source changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

func ignored(name string, paths []string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, p := range paths {
		ap, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if abs == ap || strings.HasPrefix(abs, ap+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func isGoSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
