package flow

import "sort"

// DiffAssignments reconciles a staged assignment set against the stored one.
// toAdd holds ids present in staged but not in storage, toRemove the ids
// present in storage but absent from staged. Shops untouched by the user come
// back in neither slice, so nothing is written for them even if storage moved
// underneath the session. Both slices come back sorted.
func DiffAssignments(stored []int64, staged map[int64]bool) (toAdd, toRemove []int64) {
	storedSet := make(map[int64]bool, len(stored))
	for _, id := range stored {
		storedSet[id] = true
	}
	for id := range staged {
		if !storedSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range stored {
		if !staged[id] {
			toRemove = append(toRemove, id)
		}
	}
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}
