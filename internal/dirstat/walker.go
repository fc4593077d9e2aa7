package dirstat

import (
	"context"
	"path/filepath"
	"regexp"
	"sync"
)

// ReadError records a directory that could not be listed.
type ReadError struct {
	// Path is the directory that failed.
	Path string `json:"path"`
	// Err is the underlying error message.
	Err string `json:"error"`
}

// counters tracks walk progress. The concurrent walker updates it from
// several goroutines and the progress reporter reads it on every tick.
type counters struct {
	mu     sync.Mutex
	files  int64
	dirs   int64
	bytes  uint64
	errors []ReadError
}

func (c *counters) addFile(size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files++
	c.bytes += size
}

func (c *counters) addDir() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirs++
}

func (c *counters) addError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, ReadError{Path: path, Err: err.Error()})
}

func (c *counters) snapshot() (files, dirs int64, bytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.files, c.dirs, c.bytes
}

// Walker descends a directory tree and reports candidates to a Tracker.
//
// In folder mode every readable directory is reported with the total size of
// the files below it; otherwise every file is reported individually.
type Walker struct {
	// Lister enumerates directories. Defaults to OSLister.
	Lister Lister
	// Tracker receives candidates.
	Tracker *Tracker
	// FolderMode reports directories by aggregate size instead of files.
	FolderMode bool
	// Excludes skips any path whose slash form matches a pattern.
	Excludes []*regexp.Regexp
	// OnError is called for every directory that cannot be listed.
	OnError func(path string, err error)

	log   logger
	count counters
}

// frame is a directory being processed on the walk stack.
type frame struct {
	path     string
	children []Child
	next     int
	total    uint64
}

// Walk traverses the tree at root depth-first and returns its total size.
//
// A directory that cannot be listed is passed to OnError and contributes 0;
// the walk carries on with its siblings. If ctx is cancelled, Walk stops and
// returns the partial total together with the context error.
func (w *Walker) Walk(ctx context.Context, root string) (uint64, error) {
	var stack []*frame

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if f, ok := w.open(root); ok {
		stack = append(stack, f)
	}

	var total uint64

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next == len(top.children) {
			stack = stack[:len(stack)-1]
			w.count.addDir()

			if w.FolderMode {
				if err := ctx.Err(); err != nil {
					return partialTotal(stack) + top.total, err
				}

				w.Tracker.Report(top.path, top.total)
			}

			if len(stack) == 0 {
				total = top.total
			} else {
				stack[len(stack)-1].total += top.total
			}

			continue
		}

		child := top.children[top.next]
		top.next++

		path := joinPath(top.path, child.Name)

		if re := shouldExcludeByPattern(path, w.Excludes); re != nil {
			w.log.printf("[debug]: excluding %s\n", filepath.ToSlash(path))
			w.log.printf("	 matched regex: %s\n", re.String())

			continue
		}

		if child.Dir {
			if err := ctx.Err(); err != nil {
				return partialTotal(stack), err
			}

			if f, ok := w.open(path); ok {
				stack = append(stack, f)
			}

			continue
		}

		if w.FolderMode {
			top.total += child.Size
			w.count.addFile(child.Size)

			continue
		}

		if err := ctx.Err(); err != nil {
			return partialTotal(stack), err
		}

		top.total += child.Size
		w.count.addFile(child.Size)
		w.Tracker.Report(path, child.Size)
	}

	return total, nil
}

// open lists path and returns a new stack frame for it.
// On failure the error is recorded and ok is false.
func (w *Walker) open(path string) (*frame, bool) {
	lister := w.Lister
	if lister == nil {
		lister = OSLister{Skipped: w.skipped}
	}

	children, err := lister.List(path)
	if err != nil {
		w.fail(path, err)

		return nil, false
	}

	return &frame{path: path, children: children}, true
}

// fail records a directory that could not be read.
func (w *Walker) fail(path string, err error) {
	w.log.printf("[debug]: error reading %s: %v\n", path, err)
	w.count.addError(path, err)

	if w.OnError != nil {
		w.OnError(path, err)
	}
}

// skipped logs an entry whose metadata could not be read.
func (w *Walker) skipped(path string, err error) {
	w.log.printf("[debug]: skipping %s: %v\n", path, err)
}

// partialTotal sums the sizes accumulated by every open frame.
func partialTotal(stack []*frame) uint64 {
	var total uint64
	for _, f := range stack {
		total += f.total
	}

	return total
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}
