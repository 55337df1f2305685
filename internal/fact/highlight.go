package fact

import (
	"sort"

	"github.com/stratumlang/stratum/internal/span"
)

// ResolveOverlappingHighlights takes a set of editor-category facts whose
// subject spans may overlap (e.g. several highlight_color assertions
// nested inside each other) and returns a non-overlapping projection
// where, at each byte position, the most recently started span still
// open wins: for nested spans that is the innermost one, and for spans
// that only partly overlap it is the one that starts later. It is
// adapted from the teacher's resolveOverlaps sweep
// (gotreesitter/highlight.go), generalised from HighlightRange/Capture to
// Fact/Predicate so any editor-category predicate can use it, not only a
// hardcoded "capture name".
func ResolveOverlappingHighlights(facts []Fact) []Fact {
	if len(facts) == 0 {
		return nil
	}

	sorted := make([]Fact, len(facts))
	copy(sorted, facts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Subject.Start != sorted[j].Subject.Start {
			return sorted[i].Subject.Start < sorted[j].Subject.Start
		}
		// Wider spans first, so narrower (higher index) sorts later and
		// is treated as "more specific" below.
		return sorted[i].Subject.Len() > sorted[j].Subject.Len()
	})

	type event struct {
		pos     uint32
		isStart bool
		idx     int
	}
	events := make([]event, 0, len(sorted)*2)
	for i, f := range sorted {
		events = append(events,
			event{pos: f.Subject.Start, isStart: true, idx: i},
			event{pos: f.Subject.End, isStart: false, idx: i},
		)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].pos != events[j].pos {
			return events[i].pos < events[j].pos
		}
		if events[i].isStart != events[j].isStart {
			return !events[i].isStart // ends before starts
		}
		if events[i].isStart {
			return events[i].idx < events[j].idx // wider pushed first
		}
		return events[i].idx > events[j].idx // narrower ends first
	})

	var stack []int
	var out []Fact
	var lastPos uint32
	hasLast := false

	flush := func(endPos uint32) {
		if !hasLast || endPos <= lastPos || len(stack) == 0 {
			return
		}
		top := sorted[stack[len(stack)-1]]
		f := top
		f.Subject = span.New(lastPos, endPos)
		out = append(out, f)
	}

	for _, ev := range events {
		flush(ev.pos)
		if ev.isStart {
			stack = append(stack, ev.idx)
		} else {
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == ev.idx {
					stack = append(stack[:i], stack[i+1:]...)
					break
				}
			}
		}
		lastPos = ev.pos
		hasLast = true
	}
	return out
}
