// Package filesystem lists and watches procedure files on local disk.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.FileSource = (*Connector)(nil)

// Connector reports supported files under a directory tree.
type Connector struct {
	formats map[domain.Format]bool

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// New creates a connector accepting the given formats.
// With no formats every non-hidden file is reported.
func New(formats ...domain.Format) *Connector {
	c := &Connector{formats: make(map[domain.Format]bool, len(formats))}
	for _, f := range formats {
		c.formats[f] = true
	}
	return c
}

// List walks root and returns supported, non-hidden files in lexical order.
func (c *Connector) List(ctx context.Context, root string) ([]string, error) {
	root = ResolvePath(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %v: %w", err, domain.ErrIO)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory: %w", root, domain.ErrInvalidInput)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, _ := filepath.Rel(root, path)
		if isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && c.supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Watch reports changes to supported files under root until ctx is done.
// New subdirectories are watched as they appear.
func (c *Connector) Watch(ctx context.Context, root string) (<-chan domain.FileChange, error) {
	root = ResolvePath(root)
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("root path error: %v: %w", err, domain.ErrIO)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("filesystem: connector closed")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("filesystem: creating watcher: %w", err)
	}
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	if err := c.addTree(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	changes := make(chan domain.FileChange)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(filepath.Base(event.Name)) {
						if err := c.addTree(watcher, event.Name); err != nil {
							logger.Warn("watching %s: %v", event.Name, err)
						}
						continue
					}
				}
				change := c.handleFsEvent(root, event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()
	return changes, nil
}

// Close stops every active watcher. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for _, w := range c.watchers {
		errs = append(errs, w.Close())
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func (c *Connector) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("filesystem: watching %s: %w", path, err)
		}
		return nil
	})
}

func (c *Connector) supported(path string) bool {
	if len(c.formats) == 0 {
		return true
	}
	f, err := domain.FormatFromPath(path)
	return err == nil && c.formats[f]
}

// handleFsEvent maps an fsnotify event to a change, or nil when it should be ignored.
func (c *Connector) handleFsEvent(root string, event fsnotify.Event) *domain.FileChange {
	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		rel = event.Name
	}
	if isHidden(rel) || !c.supported(event.Name) {
		return nil
	}

	var kind domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		kind = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		kind = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		kind = domain.ChangeDeleted
	default:
		return nil
	}

	if kind != domain.ChangeDeleted {
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return nil
		}
	}
	return &domain.FileChange{Path: event.Name, Type: kind}
}
