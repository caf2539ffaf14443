package slotconfig

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch calls reload each time the file at path is written or created. It
// returns nil once ctx is done.
//
// The parent directory is watched rather than the file so that editors that
// save by replacing the file keep triggering reloads. A failing reload is
// logged and watching continues.
func Watch(ctx context.Context, path string, reload func() error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("slot config path is required")
	}
	if reload == nil {
		return errors.New("reload function is required")
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve slot config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isReloadEvent(event, target) {
				continue
			}
			if err := reload(); err != nil {
				log.Printf("reload slot config %s: %v", target, err)
				continue
			}
			log.Printf("reloaded slot config %s", target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch slot config %s: %v", target, err)
		}
	}
}

func isReloadEvent(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
