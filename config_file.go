package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"sem_sim/core"
)

// ScenarioFile is the on-disk YAML shape for a simulation scenario.
type ScenarioFile struct {
	Name   string      `yaml:"name"`
	Config core.Config `yaml:"config"`
}

// LoadScenarioFile parses and validates a scenario YAML file.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var sf ScenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	if err := sf.Config.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sf, nil
}

// WatchScenarioFile watches a scenario file and invokes onChange with each
// successfully reloaded scenario until the context is cancelled. Parse and
// validation failures are logged and skipped; the previous configuration
// stays active.
func WatchScenarioFile(ctx context.Context, path string, onChange func(*ScenarioFile)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors typically replace the file, which drops
	// a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			sf, err := LoadScenarioFile(path)
			if err != nil {
				GetLogger().Warnf("scenario reload skipped: %v", err)
				continue
			}
			GetLogger().Infof("scenario file %s reloaded", path)
			if onChange != nil {
				onChange(sf)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			GetLogger().Warnf("scenario watcher: %v", err)
		}
	}
}
