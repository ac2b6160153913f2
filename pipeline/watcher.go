package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

/*
FileWatcher calls back when a watched file is written or recreated. Bursts of events on one file within the
debounce interval produce a single call. The directory holding each file is watched, so editors that replace a file
by renaming over it are still followed.
*/
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	logger    *log.Logger
	debounce  time.Duration
	mu        sync.Mutex
	callbacks map[string]func(string)
	timers    map[string]*time.Timer
}

func NewFileWatcher(debounce time.Duration, logger *log.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FileWatcher{
		watcher:   w,
		logger:    logger,
		debounce:  debounce,
		callbacks: make(map[string]func(string)),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch registers callback for each file
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err = fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		fw.callbacks[absPath] = callback
	}
	return nil
}

// Run dispatches events until ctx is done, then closes the watcher
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.changed(event.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Printf("watcher error: %v", err)
		}
	}
}

func (fw *FileWatcher) changed(name string) {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	callback, ok := fw.callbacks[absPath]
	if !ok {
		return
	}
	if timer, ok := fw.timers[absPath]; ok {
		timer.Stop()
	}
	fw.timers[absPath] = time.AfterFunc(fw.debounce, func() { callback(absPath) })
}

func (fw *FileWatcher) close() {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.mu.Unlock()
	fw.watcher.Close()
}
