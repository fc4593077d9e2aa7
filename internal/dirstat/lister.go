package dirstat

import (
	"os"
)

// Child is a direct child of a listed directory.
type Child struct {
	// Name is the base name of the entry.
	Name string
	// Dir reports whether the entry is a directory to descend into.
	Dir bool
	// Size is the size in bytes as reported by lstat.
	Size uint64
}

// Lister enumerates the direct children of a directory.
type Lister interface {
	List(path string) ([]Child, error)
}

// OSLister lists directories on the local filesystem.
//
// Symbolic links are never followed: a link to a directory is returned as a
// leaf with the size of the link itself. Entries whose metadata cannot be
// read are passed to Skipped, when set, and left out.
type OSLister struct {
	Skipped func(path string, err error)
}

// List implements Lister.
func (l OSLister) List(path string) ([]Child, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	children := make([]Child, 0, len(entries))

	for _, e := range entries { //nolint:varnamelen // e is standard for element in range
		info, err := e.Info()
		if err != nil {
			if l.Skipped != nil {
				l.Skipped(joinPath(path, e.Name()), err)
			}

			continue
		}

		children = append(children, Child{
			Name: e.Name(),
			Dir:  info.IsDir(),
			Size: uint64(info.Size()), //nolint:gosec // Sizes from lstat are never negative
		})
	}

	return children, nil
}

// joinPath appends name to parent with the platform separator.
// Unlike filepath.Join it keeps parent exactly as given.
func joinPath(parent, name string) string {
	if parent != "" && os.IsPathSeparator(parent[len(parent)-1]) {
		return parent + name
	}

	return parent + string(os.PathSeparator) + name
}
