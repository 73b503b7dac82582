package preview

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
)

// watcher reports changes to the site sources: the docs and static trees
// recursively, plus site.yaml, the sidebars file and .env next to the config.
type watcher struct {
	fs    *fsnotify.Watcher
	trees []string
	files map[string]bool
}

func newWatcher(cfg *config.Config, configPath string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &watcher{fs: fw, files: map[string]bool{}}

	for _, root := range []string{cfg.DocsDir(), cfg.StaticPath()} {
		abs, err := filepath.Abs(root)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		w.trees = append(w.trees, abs)
		w.addTree(abs)
	}

	files := []string{cfg.SidebarFile(), filepath.Join(cfg.Dir(), ".env")}
	if configPath != "" {
		files = append(files, configPath)
	}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			slog.Warn("Watch add failed", logfields.Path(dir), logfields.Error(err))
		}
	}
	return w, nil
}

func (w *watcher) Events() <-chan fsnotify.Event { return w.fs.Events }
func (w *watcher) Errors() <-chan error          { return w.fs.Errors }
func (w *watcher) Close() error                  { return w.fs.Close() }

// Relevant reports whether an event should trigger a rebuild. Directories
// created inside a watched tree are added to the watch.
func (w *watcher) Relevant(ev fsnotify.Event) bool {
	if w.files[ev.Name] {
		return true
	}
	if !w.inTree(ev.Name) || shouldIgnoreEvent(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addTree(ev.Name)
		}
	}
	return true
}

func (w *watcher) inTree(name string) bool {
	for _, root := range w.trees {
		if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fs.Add(p); err != nil {
				slog.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
