package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before a change is
// reported. Exporters often write a file in several steps.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to a fixed set of asset files.
//
// Directories are watched rather than files so that editors replacing a
// file through rename are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]string // absolute path -> locator as given
	changes  chan string
	Debounce time.Duration
}

// NewWatcher watches the given locators.
func NewWatcher(locators ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		files:    make(map[string]string, len(locators)),
		changes:  make(chan string, len(locators)),
		Debounce: DefaultDebounce,
	}

	dirs := make(map[string]bool)
	for _, loc := range locators {
		abs, err := filepath.Abs(loc)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolving %s: %w", loc, err)
		}
		w.files[abs] = loc
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Changes delivers the locator of each changed file.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run forwards debounced changes until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if loc, ok := w.files[abs]; ok {
				pending[loc] = time.Now()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log().Warn("file watcher error", zap.Error(err))

		case now := <-ticker.C:
			for loc, last := range pending {
				if now.Sub(last) < debounce {
					continue
				}
				delete(pending, loc)
				log().Debug("asset changed", zap.String("locator", loc))
				select {
				case w.changes <- loc:
				default:
					// receiver is behind, it already has a change queued
				}
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
