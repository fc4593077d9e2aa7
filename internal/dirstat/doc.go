// Package dirstat finds the largest files or directories below a root.
//
// A Walker descends the tree, summing directory sizes bottom-up, and feeds
// every candidate to a Tracker, a fixed-capacity container that keeps only
// the K largest entries seen. With more than one thread the walk runs on
// fastwalk's worker pool instead.
package dirstat
