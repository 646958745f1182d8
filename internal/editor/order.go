package editor

import (
	"sort"

	"github.com/edugen/studio/internal/model"
)

// SortByPosition orders assignments, questions and options by their
// position fields, in place. Documents fetched from a backend are not
// guaranteed to arrive in display order.
func SortByPosition(t *model.Test) {
	if t == nil {
		return
	}
	sort.SliceStable(t.Assignments, func(i, j int) bool {
		return t.Assignments[i].Position < t.Assignments[j].Position
	})
	for ai := range t.Assignments {
		qs := t.Assignments[ai].Questions
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].Position < qs[j].Position })
		for qi := range qs {
			opts := qs[qi].Options
			sort.SliceStable(opts, func(i, j int) bool { return opts[i].Position < opts[j].Position })
		}
	}
}
