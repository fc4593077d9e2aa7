package dirstat

import (
	"io"
	"time"
)

// Stats holds the result of a scan.
type Stats struct {
	// Root is the scanned directory.
	Root string `json:"root"`
	// Entries contains the tracked files or directories, largest first.
	// Unfilled slots are zero-valued placeholders.
	Entries []Entry `json:"entries"`
	// TotalBytes is the cumulative size of every file below Root.
	TotalBytes uint64 `json:"total_bytes"`
	// FileCount is the number of files visited.
	FileCount int64 `json:"file_count"`
	// DirCount is the number of directories read.
	DirCount int64 `json:"dir_count"`
	// Errors lists the directories that could not be read.
	Errors []ReadError `json:"errors"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
	// FolderMode indicates whether directories were tracked instead of files.
	FolderMode bool `json:"folder_mode"`
	// Track is the number of tracked slots.
	Track int `json:"track"`
	// Threads is the number of walker threads used.
	Threads int `json:"threads"`
}

// Hooks receives callbacks while a scan runs. Both are optional.
type Hooks struct {
	// Progress is called periodically with the files and bytes seen so far.
	Progress func(files int64, bytes uint64)
	// Error is called for every directory that cannot be read.
	Error func(path string, err error)
}

// Options configures a scan.
type Options struct {
	// Path is the directory to scan.
	Path string
	// FolderMode tracks directories by aggregate size instead of files.
	FolderMode bool
	// Track is the number of largest entries to keep.
	Track int
	// Threads selects the concurrent walker when greater than 1.
	Threads int
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug enables debug output.
	Debug bool
	// DebugOutput receives debug output. Defaults to os.Stderr.
	DebugOutput io.Writer
}
