// Package watch rebuilds a project when its source files change.
package watch

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch calls build whenever a file ending in ext is written or created in
// one of dirs. Directories that do not exist are skipped. It returns when
// ctx is cancelled or the watcher shuts down.
func Watch(ctx context.Context, dirs []string, ext string, build func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			if err := watcher.Add(dir); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ext) || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Printf("watch: file changed: %s", event.Name)
			if err := build(); err != nil {
				log.Printf("watch: build failed: %v", err)
			} else {
				log.Printf("watch: rebuild complete")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}
