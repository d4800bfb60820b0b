package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theengineear/upper-doodle-sub000/config"
	"github.com/theengineear/upper-doodle-sub000/export"
	"github.com/theengineear/upper-doodle-sub000/watch"
)

func watchCmd() *cobra.Command {
	var (
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Recompile diagrams as they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], format, outDir)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (turtle, ntriples); overrides config")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: alongside the diagram)")

	return cmd
}

func runWatch(ctx context.Context, root, formatFlag, outDir string) error {
	cfg, err := config.NewLoader(slog.Default()).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	formatName := cfg.Output.Format
	if formatFlag != "" {
		formatName = formatFlag
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Output.Dir
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.NewWatcher(watch.Config{
		Root:     root,
		Debounce: cfg.Watch.Debounce,
		Logger:   slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil
		case event := <-watcher.Events():
			if event.Operation == watch.OpDelete {
				slog.Info("Diagram removed", "path", event.Path)
				continue
			}

			path := filepath.Join(root, event.Path)
			dir := outDir
			if dir == "" {
				dir = filepath.Dir(path)
			}

			output, _, result, err := compileFile(cfg, path, format)
			if err != nil {
				slog.Error("Compile failed", "path", path, "error", err)
				continue
			}
			if err := writeOutput(path, dir, format, output); err != nil {
				slog.Error("Write failed", "path", path, "error", err)
				continue
			}
			slog.Info("Recompiled diagram",
				"path", path,
				"used", len(result.Used),
				"invalid", len(result.Invalid))
		}
	}
}
