// Package filesystem turns text, markdown and HTML files into ingestion
// requests, either as a one-off scan or by watching a directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/logger"
	"github.com/custodia-labs/askdesk/internal/normalisers"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("connector closed")

// DefaultDebounce is how long a watched file must stay quiet after its last
// create or write before it is read.
const DefaultDebounce = 300 * time.Millisecond

// Connector reads documents from a directory tree.
type Connector struct {
	rootPath    string
	normalisers *normalisers.Registry
	debounce    time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a connector rooted at rootPath that reads the formats of
// normalisers.Default.
func New(rootPath string) *Connector {
	return NewWithRegistry(rootPath, normalisers.Default())
}

// NewWithRegistry creates a connector that reads only the extensions in reg.
func NewWithRegistry(rootPath string, reg *normalisers.Registry) *Connector {
	return &Connector{rootPath: rootPath, normalisers: reg, debounce: DefaultDebounce}
}

// WithDebounce sets the quiet period Watch waits for before reading a file.
// Events for the same path inside the window collapse into one document.
func (c *Connector) WithDebounce(d time.Duration) *Connector {
	if d > 0 {
		c.debounce = d
	}
	return c
}

// RootPath returns the directory the connector reads from.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Scan walks the root directory and returns every supported, non-hidden file
// with text as a document. Files are returned in lexical path order.
func (c *Connector) Scan(ctx context.Context) ([]domain.NewDocument, error) {
	if err := c.validateRoot(); err != nil {
		return nil, err
	}

	var docs []domain.NewDocument
	err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != c.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !c.normalisers.Supports(path) {
			return nil
		}

		doc, err := c.readDocument(path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		if strings.TrimSpace(doc.Content) == "" {
			logger.Debug("skipping %s: no text", path)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.rootPath, err)
	}
	return docs, nil
}

// Watch emits a document each time a supported file under the root is
// created or written. The channel is closed when ctx is cancelled or the
// connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.NewDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if err := c.validateRoot(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addRecursive(watcher, c.rootPath); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	out := make(chan domain.NewDocument)
	go c.watchLoop(ctx, watcher, out)
	return out, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- domain.NewDocument) {
	defer close(out)

	// pending holds the time of the last create or write seen per path.
	pending := make(map[string]time.Time)
	timer := time.NewTimer(c.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
					if err := addRecursive(watcher, event.Name); err != nil {
						logger.Warn("watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			pending[event.Name] = time.Now()
			if fire == nil {
				timer.Reset(c.debounce)
				fire = timer.C
			}
		case <-fire:
			fire = nil
			ready, wait := c.settled(pending, time.Now())
			for _, path := range ready {
				doc := c.handleFsEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})
				if doc == nil {
					continue
				}
				select {
				case out <- *doc:
				case <-ctx.Done():
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(wait)
				fire = timer.C
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// settled removes and returns, in path order, the pending paths that have
// been quiet for the debounce window. wait is the time until the next
// remaining path settles.
func (c *Connector) settled(pending map[string]time.Time, now time.Time) (ready []string, wait time.Duration) {
	for path, last := range pending {
		remaining := c.debounce - now.Sub(last)
		if remaining > 0 {
			if wait == 0 || remaining < wait {
				wait = remaining
			}
			continue
		}
		ready = append(ready, path)
		delete(pending, path)
	}
	sort.Strings(ready)
	return ready, wait
}

// Close stops any active watch. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

func (c *Connector) validateRoot() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}
	return nil
}

// handleFsEvent converts a create or write event into a document.
// Anything else, including hidden or unsupported files, yields nil.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.NewDocument {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil {
		rel = filepath.Base(event.Name)
	}
	if isHidden(rel) || !c.normalisers.Supports(event.Name) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return nil
	}

	doc, err := c.readDocument(event.Name)
	if err != nil {
		logger.Warn("read %s: %v", event.Name, err)
		return nil
	}
	// Editors often create the file before writing it.
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}
	return &doc
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (c *Connector) readDocument(path string) (domain.NewDocument, error) {
	n, ok := c.normalisers.For(path)
	if !ok {
		return domain.NewDocument{}, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewDocument{}, err
	}
	return n.Normalise(TitleFromPath(path), data), nil
}

// TitleFromPath returns the file name without its extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
