// Package filewatch binds the lifetime of a context to files on disk.
//
// The server watches its own config file with this package: once the
// file changes on disk, the in-memory configuration is stale, and the
// cleanest recovery is to shut down and let the supervisor restart the
// process with the new file.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext derives a context from ctx that is canceled as soon as
// any of targetFilePath is modified (written, created, removed or renamed).
//
// The cancel cause records which file changed and how.
//
// The returned func() stops watching and releases the context.
// On error, both the context and the func() are nil.
func UntilModifyContext(ctx context.Context, targetFilePath ...string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op.String()))
			}
		}
	}()

	for _, f := range targetFilePath {
		if err = w.Add(f); err != nil {
			cancel(err)
			return nil, nil, err
		}
	}
	return cctx, func() { cancel(nil) }, nil
}
