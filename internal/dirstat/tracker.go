package dirstat

import (
	"sort"
	"sync"
)

// MBFactor is the number of bytes in a megabyte.
const MBFactor = 1024 * 1024

// ToMB converts bytes to whole megabytes, truncating.
func ToMB(bytes uint64) uint64 {
	return bytes / MBFactor
}

// Entry is a single tracked file or directory.
type Entry struct {
	// Name is the file or directory path.
	Name string `json:"name"`
	// Size is the size in bytes.
	Size uint64 `json:"size"`
}

// IsPlaceholder reports whether e is an unfilled tracker slot.
func (e Entry) IsPlaceholder() bool {
	return e == Entry{}
}

// Tracker keeps the K largest entries out of an unbounded stream of reports.
//
// Slots start out as placeholders of size 0, so a Tracker always yields
// exactly K entries. Report and Finalize are safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex // Protect concurrent reports from the parallel walker
	slots     []Entry
	min       uint64
	minPos    int
	finalized bool
}

// NewTracker creates a Tracker holding capacity slots.
func NewTracker(capacity int) *Tracker {
	if capacity < 0 {
		capacity = 0
	}

	return &Tracker{slots: make([]Entry, capacity)}
}

// Len returns the capacity of the tracker.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.slots)
}

// Min returns the smallest size currently held.
func (t *Tracker) Min() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.min
}

// Report offers an entry to the tracker.
//
// Sizes below the current minimum are dropped. Otherwise the minimum slot is
// overwritten and the slots are rescanned for the new minimum; among equal
// minima the highest index wins.
func (t *Tracker) Report(name string, size uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized || len(t.slots) == 0 || size < t.min {
		return
	}

	t.slots[t.minPos] = Entry{Name: name, Size: size}

	newMin, newPos := size, t.minPos
	for i := range t.slots {
		if t.slots[i].Size <= newMin {
			newMin = t.slots[i].Size
			newPos = i
		}
	}

	t.min = newMin
	t.minPos = newPos
}

// Finalize returns the tracked entries sorted by size, largest first.
// Equal sizes keep their slot order. The tracker is consumed: later reports
// are ignored and a second call returns nil.
func (t *Tracker) Finalize() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return nil
	}

	t.finalized = true

	entries := t.slots
	t.slots = nil

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Size > entries[j].Size
	})

	return entries
}
