package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
)

// reloadOps are the events on the model file that trigger a reload. Editors
// that save through a temp file and rename it over the target produce Create
// (and Rename for the file moved away) rather than Write.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// WatchModel monitors the model config at path and calls onChange with the
// newly loaded parameters each time the file is saved. It runs until ctx is
// cancelled. A reload that fails to parse or validate is logged and skipped.
//
// The parent directory is watched instead of the file so a rename over the
// file keeps being observed.
func WatchModel(ctx context.Context, path string, onChange func(calculator.Config)) error {
	target := filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	slog.Info("model config: watching for changes", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&reloadOps == 0 {
				continue
			}
			reloadModel(target, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("model config: watcher error", "err", err)
		}
	}
}

func reloadModel(path string, onChange func(calculator.Config)) {
	cfg, err := LoadModel(path)
	if err != nil {
		slog.Error("model config: reload failed, keeping previous parameters",
			"path", path, "err", err)
		return
	}

	slog.Info("model config: reloaded", "path", path,
		"max_goals", cfg.MaxGoals, "goal_lines", cfg.GoalLines, "ht_goal_share", cfg.HalfTimeShare)
	onChange(cfg)
}
