package dirstat

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// logger provides conditional debug output.
type logger struct {
	enabled bool
	out     io.Writer
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled && l.out != nil {
		fmt.Fprintf(l.out, format, args...)
	}
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, c *counters, hook func(int64, uint64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				files, _, bytes := c.snapshot()
				hook(files, bytes)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Run scans the directory tree at opt.Path and returns the opt.Track largest
// files, or directories when opt.FolderMode is set.
//
// Directories that cannot be read, the root included, are passed to
// hooks.Error and recorded in Stats.Errors; they never fail the scan. An
// error is returned only when an exclude pattern does not compile or ctx is
// cancelled.
func Run(ctx context.Context, opt Options, hooks Hooks) (*Stats, error) {
	out := opt.DebugOutput
	if out == nil {
		out = os.Stderr
	}

	log := logger{enabled: opt.Debug, out: out}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if opt.Track < 0 {
		opt.Track = 0
	}

	if opt.Threads < 1 {
		opt.Threads = 1
	}

	excludeRegexes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	log.printf("[debug]: root: %s\n", opt.Path)
	log.printf("[debug]: folder mode: %t, track: %d, threads: %d\n", opt.FolderMode, opt.Track, opt.Threads)
	log.printf("[debug]: exclude regexes:\n")

	for _, re := range excludeRegexes {
		log.printf("[debug]:   - %s\n", re.String())
	}

	tracker := NewTracker(opt.Track)
	walker := &Walker{
		Tracker:    tracker,
		FolderMode: opt.FolderMode,
		Excludes:   excludeRegexes,
		OnError:    hooks.Error,
		log:        log,
	}

	// Create child context to ensure progress reporter cleanup
	progressCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(progressCtx, &walker.count, hooks.Progress, opt.ProgressInterval)

	start := time.Now()

	var (
		total uint64
		err   error
	)

	if opt.Threads > 1 {
		total, err = walker.WalkConcurrent(ctx, opt.Path, opt.Threads)
	} else {
		total, err = walker.Walk(ctx, opt.Path)
	}

	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", opt.Path, err)
	}

	files, dirs, _ := walker.count.snapshot()

	walker.count.mu.Lock()
	readErrors := walker.count.errors
	walker.count.mu.Unlock()

	if readErrors == nil {
		readErrors = []ReadError{}
	}

	return &Stats{
		Root:       opt.Path,
		Entries:    tracker.Finalize(),
		TotalBytes: total,
		FileCount:  files,
		DirCount:   dirs,
		Errors:     readErrors,
		Elapsed:    time.Since(start),
		FolderMode: opt.FolderMode,
		Track:      opt.Track,
		Threads:    opt.Threads,
	}, nil
}
