package refdata

import "sort"

// IntervalIndex provides O(log n + k) UTR overlap queries using a
// sorted-slice approach. UTRs are loaded once and never modified after build.
type IntervalIndex struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[:i+1]
}

type interval struct {
	start int64
	end   int64
	utr   *UTR
}

// BuildIntervalIndex creates an interval index from a slice of UTRs.
func BuildIntervalIndex(utrs []*UTR) *IntervalIndex {
	if len(utrs) == 0 {
		return &IntervalIndex{}
	}

	intervals := make([]interval, len(utrs))
	for i, u := range utrs {
		intervals[i] = interval{start: u.Start, end: u.End, utr: u}
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start < intervals[j].start
	})

	// Build prefix-max array: maxEnd[i] = max(end) for intervals[:i+1]
	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = intervals[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &IntervalIndex{intervals: intervals, maxEnd: maxEnd}
}

// FindOverlaps returns all UTRs whose [Start, End] range contains pos.
func (t *IntervalIndex) FindOverlaps(pos int64) []*UTR {
	if len(t.intervals) == 0 {
		return nil
	}

	var result []*UTR

	// Binary search: find rightmost interval with start <= pos.
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].start > pos
	})
	// hi is the first index with start > pos; candidates are [0, hi).

	for i := hi - 1; i >= 0; i-- {
		// Prune: maxEnd[i] covers intervals[:i+1], so once it drops below
		// pos nothing earlier can contain it either.
		if t.maxEnd[i] < pos {
			break
		}
		if t.intervals[i].end >= pos {
			result = append(result, t.intervals[i].utr)
		}
	}

	return result
}
