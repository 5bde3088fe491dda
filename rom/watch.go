package rom

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// settle is how long the ROM file must be quiet before it is re-read.
// Editors and assemblers often write a file in several steps.
const settle = 100 * time.Millisecond

// Watch calls post with the new contents of the named ROM file
// each time the file is written. Errors are logged.
// Closing the returned Closer stops the watch.
func Watch(name string, post func(rom []byte)) (io.Closer, error) {
	name = filepath.Clean(name)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file, so that
	// files that are replaced rather than rewritten are seen.
	if err := w.Watch(filepath.Dir(name)); err != nil {
		w.Close()
		return nil, err
	}
	go watch(w, name, post)
	return w, nil
}

func watch(w *fsnotify.Watcher, name string, post func([]byte)) {
	var reload <-chan time.Time
	for {
		select {
		case ev, ok := <-w.Event:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == name && !ev.IsAttrib() && !ev.IsDelete() {
				reload = time.After(settle)
			}
		case err, ok := <-w.Error:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		case <-reload:
			reload = nil
			b, err := os.ReadFile(name)
			if err != nil {
				log.Printf("watch: %v", err)
				break
			}
			log.Printf("watch: %s changed", filepath.Base(name))
			post(b)
		}
	}
}
