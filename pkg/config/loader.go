package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/steelshape/steelshape/pkg/engine"
)

// ReloadFunc receives every profile of the watched paths after a change.
type ReloadFunc func(ctx context.Context, profiles []*engine.Profile) error

// Loader loads profile documents from files and directories and can
// watch them for changes.
type Loader struct {
	logger      zerolog.Logger
	cache       map[string]*Document
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	reloadDelay time.Duration
}

// NewLoader creates a new document loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger:      logger.With().Str("component", "document-loader").Logger(),
		cache:       make(map[string]*Document),
		reloadDelay: 500 * time.Millisecond,
	}
}

func isDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadFromPaths loads the profiles of every document under paths. Files
// are read in lexical order within a directory.
func (l *Loader) LoadFromPaths(ctx context.Context, paths []string) ([]*engine.Profile, error) {
	var all []*engine.Profile
	seen := make(map[string]string)

	for _, path := range paths {
		docs, err := l.loadFromPath(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load from path %s: %w", path, err)
		}
		for _, doc := range docs {
			ps, err := doc.ToProfiles()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", doc.Source, err)
			}
			for _, p := range ps {
				if prev, dup := seen[p.ID]; dup {
					return nil, fmt.Errorf("profile %q defined in both %s and %s", p.ID, prev, doc.Source)
				}
				seen[p.ID] = doc.Source
			}
			all = append(all, ps...)
		}
	}

	l.logger.Info().
		Int("total", len(all)).
		Int("sources", len(paths)).
		Msg("Profiles loaded from paths")

	return all, nil
}

func (l *Loader) loadFromPath(ctx context.Context, path string) ([]*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		doc, err := l.loadFromFile(path)
		if err != nil {
			return nil, err
		}
		return []*Document{doc}, nil
	}

	var docs []*Document
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !isDocument(p) {
			return nil
		}
		doc, err := l.loadFromFile(p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	return docs, nil
}

func (l *Loader) loadFromFile(path string) (*Document, error) {
	l.mu.RLock()
	if cached, ok := l.cache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[path] = doc
	l.mu.Unlock()

	l.logger.Debug().
		Str("path", path).
		Int("profiles", len(doc.Profiles)).
		Msg("Document loaded from file")

	return doc, nil
}

// Watch starts watching paths and calls reloadFn with the full profile set
// after changes settle. Watching stops when ctx is done.
func (l *Loader) Watch(ctx context.Context, paths []string, reloadFn ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	l.watcher = watcher

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to stat path for watching")
			continue
		}

		if info.IsDir() {
			if err := l.watchDirectory(path); err != nil {
				l.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch directory")
			}
			continue
		}
		// Editors replace files on save, so watch the parent directory.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch file")
		}
	}

	go l.processEvents(ctx, paths, reloadFn)

	l.logger.Info().
		Int("paths", len(paths)).
		Msg("Started watching profile documents")

	return nil
}

func (l *Loader) watchDirectory(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return l.watcher.Add(path)
		}
		return nil
	})
}

func (l *Loader) processEvents(ctx context.Context, paths []string, reloadFn ReloadFunc) {
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			_ = l.watcher.Close()
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !isDocument(event.Name) {
				continue
			}

			l.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Profile document changed")

			l.mu.Lock()
			delete(l.cache, event.Name)
			l.mu.Unlock()

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(l.reloadDelay, func() {
				if err := l.triggerReload(ctx, paths, reloadFn); err != nil {
					l.logger.Error().Err(err).Msg("Failed to reload profiles")
				}
			})

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			l.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (l *Loader) triggerReload(ctx context.Context, paths []string, reloadFn ReloadFunc) error {
	if ctx.Err() != nil {
		return nil
	}
	l.logger.Info().Msg("Reloading profiles...")

	ps, err := l.LoadFromPaths(ctx, paths)
	if err != nil {
		return fmt.Errorf("failed to reload profiles: %w", err)
	}
	if err := reloadFn(ctx, ps); err != nil {
		return fmt.Errorf("failed to apply reloaded profiles: %w", err)
	}

	l.logger.Info().
		Int("count", len(ps)).
		Msg("Profiles reloaded successfully")

	return nil
}

// StopWatching stops watching for file changes.
func (l *Loader) StopWatching() error {
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// ClearCache drops every cached document.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache = make(map[string]*Document)
	l.logger.Debug().Msg("Document cache cleared")
}
