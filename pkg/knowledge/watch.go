package knowledge

import (
	"context"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch re-imports a corpus file whenever it is written to. It blocks
// until the context is cancelled or the watcher fails.
func (i *Importer) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", path, err)
	}

	log.Printf("knowledge: watching %s", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				n, err := i.ImportFile(path)
				if err != nil {
					log.Printf("knowledge: reimport failed: %v", err)
					continue
				}
				log.Printf("knowledge: reimported %d entries from %s", n, path)

				// Editors replace files on save, re-add the path so the
				// watch survives the inode change.
				_ = watcher.Add(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("knowledge: watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
