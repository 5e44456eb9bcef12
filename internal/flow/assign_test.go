package flow

import (
	"reflect"
	"testing"
)

func TestDiffAssignments(t *testing.T) {
	stored := []int64{1, 2, 3}
	staged := map[int64]bool{2: true, 3: true, 4: true}

	toAdd, toRemove := DiffAssignments(stored, staged)

	if !reflect.DeepEqual(toAdd, []int64{4}) {
		t.Fatalf("toAdd = %v, want [4]", toAdd)
	}
	if !reflect.DeepEqual(toRemove, []int64{1}) {
		t.Fatalf("toRemove = %v, want [1]", toRemove)
	}
}

func TestDiffAssignmentsUntouchedLeftAlone(t *testing.T) {
	// 2 was neither toggled on nor off relative to storage: no write at all.
	toAdd, toRemove := DiffAssignments([]int64{2}, map[int64]bool{2: true})
	if len(toAdd) != 0 || len(toRemove) != 0 {
		t.Fatalf("expected empty diff, got add=%v remove=%v", toAdd, toRemove)
	}
}

func TestDiffAssignmentsEmptySides(t *testing.T) {
	toAdd, toRemove := DiffAssignments(nil, map[int64]bool{5: true, 1: true})
	if !reflect.DeepEqual(toAdd, []int64{1, 5}) || len(toRemove) != 0 {
		t.Fatalf("unexpected diff: add=%v remove=%v", toAdd, toRemove)
	}

	toAdd, toRemove = DiffAssignments([]int64{5, 1}, map[int64]bool{})
	if len(toAdd) != 0 || !reflect.DeepEqual(toRemove, []int64{1, 5}) {
		t.Fatalf("unexpected diff: add=%v remove=%v", toAdd, toRemove)
	}
}
