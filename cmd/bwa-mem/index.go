package main

import "fmt"

// loadIndex is the point at which an Index is resolved from an on-disk index
// directory produced by a separate indexing tool (FM-index/suffix-array
// construction, reference packing, and annotation-table generation are all
// out of scope for this package, per mem's package doc). No loader for any
// index format is configured, so it always returns an error; replacing its
// body with a real loader is what lets this command run end to end.
func loadIndex(dir string) (*Index, error) {
	return nil, fmt.Errorf("bwa-mem: no FM-index/packed-reference loader configured for %s", dir)
}
