/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package awful

import "fmt"
import "time"
import "context"
import "path/filepath"
import "github.com/fsnotify/fsnotify"

// Watch runs a batch file and runs it again whenever it changes, until ctx
// is done. Problems of a rerun are printed and do not stop the watch.
func (r *Runner) Watch(ctx context.Context, filename string) error {
	filename, err := filepath.Abs(r.resolve(filename))
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("watch %s: %w", filename, err)
	}

	reread := func() {
		defer func() {
			if p := recover(); p != nil {
				// error happens during reload: log to console
				fmt.Fprintln(r.Out, "panic:", p)
			}
		}()
		if err := r.Batch(ctx, filename); err != nil {
			fmt.Fprintln(r.Out, "Error:", err)
		}
	}
	reread()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.Interp.Logger().Warn("watch failed", "file", filename, "error", err)
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// flush all other events
			for {
				time.Sleep(10 * time.Millisecond) // delay a bit, so we don't read empty files
				select {
				case <-watcher.Events:
					continue
				default:
				}
				break
			}
			r.Interp.Logger().Info("file changed, running again", "file", filename)
			reread()
			watcher.Add(filename) // text editors rename, so we have to rewatch
		}
	}
}
