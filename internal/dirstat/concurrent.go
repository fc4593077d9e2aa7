package dirstat

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/charlievieth/fastwalk"
)

// WalkConcurrent is the parallel counterpart of Walk, backed by fastwalk with
// the given number of workers. It ignores w.Lister and always reads the local
// filesystem.
//
// Totals and tracked membership match Walk. Which of several equally sized
// entries ends up in the tracker is not deterministic.
func (w *Walker) WalkConcurrent(ctx context.Context, root string, workers int) (uint64, error) {
	if len(root) > 1 && os.IsPathSeparator(root[len(root)-1]) {
		root = root[:len(root)-1]
	}

	var (
		mu   sync.Mutex
		dirs = make(map[string]uint64)
	)

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A cancelled walk aborts readDir too; that is not a read failure.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			// fastwalk calls back a second time for a directory it failed to read.
			mu.Lock()
			delete(dirs, path)
			mu.Unlock()

			w.fail(path, err)

			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path == root && !d.IsDir() {
			w.fail(root, &fs.PathError{Op: "readdirent", Path: root, Err: syscall.ENOTDIR})

			return nil
		}

		if path != root {
			if re := shouldExcludeByPattern(path, w.Excludes); re != nil {
				w.log.printf("[debug]: excluding %s\n", filepath.ToSlash(path))
				w.log.printf("	 matched regex: %s\n", re.String())

				if d.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}
		}

		if d.IsDir() {
			mu.Lock()
			if _, ok := dirs[path]; !ok {
				dirs[path] = 0
			}
			mu.Unlock()

			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.skipped(path, err)

			return nil
		}

		size := uint64(info.Size()) //nolint:gosec // Sizes from lstat are never negative

		mu.Lock()
		dirs[parentOf(path)] += size
		mu.Unlock()

		w.count.addFile(size)

		if !w.FolderMode {
			w.Tracker.Report(path, size)
		}

		return nil
	})

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return 0, walkErr
		}

		// The root itself could not be read, e.g. it does not exist.
		w.fail(root, walkErr)

		return 0, nil
	}

	return w.rollUp(ctx, root, dirs)
}

// rollUp adds every directory's total to its parent, deepest first, and in
// folder mode reports each directory once its total is complete.
func (w *Walker) rollUp(ctx context.Context, root string, dirs map[string]uint64) (uint64, error) {
	paths := make([]string, 0, len(dirs))
	for path := range dirs {
		paths = append(paths, path)
	}

	// A child path is always longer than its parent's.
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) > len(paths[j])
		}

		return paths[i] < paths[j]
	})

	for _, path := range paths {
		w.count.addDir()

		if w.FolderMode {
			if err := ctx.Err(); err != nil {
				return dirs[root], err
			}

			w.Tracker.Report(path, dirs[path])
		}

		if path == root {
			continue
		}

		if parent := parentOf(path); parent != path {
			if _, ok := dirs[parent]; ok {
				dirs[parent] += dirs[path]
			}
		}
	}

	return dirs[root], nil
}

// parentOf returns path with its last element removed, keeping the prefix
// exactly as fastwalk built it. Unlike filepath.Dir it does not clean.
func parentOf(path string) string {
	i := strings.LastIndexByte(path, os.PathSeparator)
	if i <= 0 {
		return path[:i+1]
	}

	return path[:i]
}
