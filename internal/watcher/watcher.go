package watcher

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/digest-flow/internal/logger"
)

const (
	doneSuffix   = ".done"
	failedSuffix = ".failed"
)

type implWatcher struct {
	inboxDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	slots         chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]bool
}

// Start handles files already waiting in the inbox, then every new one,
// until ctx is done. Running handlers are waited for before returning.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inboxDir)
	w.logger.Info(ctx, "Drop .url or .txt files with one URL per line")

	if err := w.drain(ctx); err != nil {
		w.logger.Warn(ctx, "Could not scan inbox: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isInboxFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New inbox file: %s", event.Name)
			// let the writer finish
			time.Sleep(w.settle)
			w.dispatch(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) drain(ctx context.Context) error {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isInboxFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		w.dispatch(ctx, filepath.Join(w.inboxDir, name))
	}
	return nil
}

// dispatch handles every URL of one inbox file in the background and then
// renames the file so it is not picked up again.
func (w *implWatcher) dispatch(ctx context.Context, path string) {
	w.mu.Lock()
	if w.inFlight[path] {
		w.mu.Unlock()
		return
	}
	w.inFlight[path] = true
	w.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error(ctx, "Failed to read %s: %v", path, err)
		w.forget(path)
		return
	}
	urls := parseURLs(data)
	if len(urls) == 0 {
		w.logger.Warn(ctx, "No URLs in %s", path)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.forget(path)

		var (
			fileWG sync.WaitGroup
			failed atomic.Int32
		)
		for _, url := range urls {
			if err := w.acquire(ctx); err != nil {
				break
			}
			fileWG.Add(1)
			go func(url string) {
				defer fileWG.Done()
				defer func() { <-w.slots }()

				if err := w.handler(ctx, url); err != nil {
					w.logger.Error(ctx, "Failed to process %s: %v", url, err)
					failed.Add(1)
				}
			}(url)
		}
		fileWG.Wait()

		// interrupted files stay in the inbox and are resumed on next start
		if ctx.Err() != nil {
			return
		}
		w.retire(ctx, path, int(failed.Load()))
	}()
}

func (w *implWatcher) retire(ctx context.Context, path string, failed int) {
	dest := path + doneSuffix
	if failed > 0 {
		dest = path + failedSuffix
	}
	if err := os.Rename(path, dest); err != nil {
		w.logger.Warn(ctx, "Failed to move %s: %v", path, err)
		return
	}
	w.logger.Info(ctx, "[DONE] %s -> %s", filepath.Base(path), filepath.Base(dest))
}

func (w *implWatcher) forget(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

// isInboxFile checks for a supported, non-hidden list file
func isInboxFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".url" || ext == ".txt"
}

// parseURLs reads one URL per line. Blank lines, # comments and section
// headers are skipped; Internet Shortcut "URL=" lines are unwrapped.
func parseURLs(data []byte) []string {
	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		if len(line) > 4 && strings.EqualFold(line[:4], "url=") {
			line = strings.TrimSpace(line[4:])
		}
		if !strings.Contains(line, "://") || seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	return urls
}

// acquire takes a processing slot, blocking until one frees up or ctx is done
func (w *implWatcher) acquire(ctx context.Context) error {
	select {
	case w.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
