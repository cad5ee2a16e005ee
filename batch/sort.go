package batch

import "slices"

// Entry pairs a sort key with the index of the item it was extracted from.
type Entry struct {
	Key   Key
	Index int
}

// Sort orders entries by Key. Entries with equal keys keep their relative
// order, so sorting an already sorted slice leaves it unchanged.
func Sort(entries []Entry) {
	slices.SortStableFunc(entries, compareEntries)
}

// IsSorted reports whether entries are ordered by Key.
func IsSorted(entries []Entry) bool {
	return slices.IsSortedFunc(entries, compareEntries)
}

func compareEntries(a, b Entry) int { return Compare(a.Key, b.Key) }
