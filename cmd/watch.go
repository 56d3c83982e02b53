package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bronystylecrazy/swagsummary/config"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// changeSet decides which file system events re-run an enrichment.
type changeSet struct {
	files    map[string]struct{}
	patterns []string
	packages map[string]struct{}
}

func newChangeSet(cfg *config.Config) changeSet {
	s := changeSet{
		files:    make(map[string]struct{}),
		packages: make(map[string]struct{}),
	}
	if cfg.Input != "" {
		s.files[filepath.Clean(cfg.Input)] = struct{}{}
	}
	for _, pattern := range cfg.Docs.XML {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			s.patterns = append(s.patterns, filepath.Clean(pattern))
		}
	}
	for _, pkg := range cfg.Docs.GoPackages {
		s.packages[filepath.Clean(pkg.Dir)] = struct{}{}
	}
	return s
}

func (s changeSet) matches(name string) bool {
	name = filepath.Clean(name)
	if _, ok := s.files[name]; ok {
		return true
	}
	for _, pattern := range s.patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	if _, ok := s.packages[filepath.Dir(name)]; ok {
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}
	return false
}

// dirs lists the directories to watch. Files are watched through their parent
// so editors that replace files by rename are still seen.
func (s changeSet) dirs() []string {
	seen := make(map[string]struct{})
	for file := range s.files {
		seen[filepath.Dir(file)] = struct{}{}
	}
	for _, pattern := range s.patterns {
		seen[filepath.Dir(pattern)] = struct{}{}
	}
	for dir := range s.packages {
		seen[dir] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for dir := range seen {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// watchChanges calls onChange once per burst of matching events, after
// debounce has passed without another one. It returns when ctx is done.
func watchChanges(ctx context.Context, changes changeSet, debounce time.Duration, log *zap.Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range changes.dirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !changes.matches(event.Name) {
				continue
			}
			log.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			onChange()
		}
	}
}
