package scenefile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/engine/session"
	"github.com/fsnotify/fsnotify"
)

// settleDelay coalesces the burst of events editors emit for a single save.
const settleDelay = 50 * time.Millisecond

// Watch reloads the scene file whenever it changes until ctx is cancelled. The parent directory is
// watched so saves that replace the file by rename are seen.
//
// Parameters:
//   - ctx: cancels the watch
//   - path: the scene file
//   - onChange: receives every successfully decoded version
//   - onError: receives read, decode and watcher errors, may be nil
//
// Returns:
//   - error: error if the watcher cannot be created
func Watch(ctx context.Context, path string, onChange func(session.Props), onError func(error)) error {
	if onError == nil {
		onError = func(error) {}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve scene path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()

		var settle *time.Timer
		fire := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				if settle != nil {
					settle.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if settle != nil {
					settle.Stop()
				}
				settle = time.AfterFunc(settleDelay, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				props, err := Load(abs)
				if err != nil {
					onError(err)
					continue
				}
				onChange(props)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onError(err)
			}
		}
	}()
	return nil
}
