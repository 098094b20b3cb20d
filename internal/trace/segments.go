package trace

// Segment is a maximal run of contiguous "on" samples in a binary signal.
// Start and End are inclusive sample indices; Len is End-Start+1.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of samples covered by the segment.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

// OnSegments returns the maximal "on" runs of a binary signal in ascending
// order. A run still open at the last sample closes there.
func OnSegments(signal []int) []Segment {
	var segs []Segment
	start := -1
	for i, v := range signal {
		switch {
		case v != 0 && start < 0:
			start = i
		case v == 0 && start >= 0:
			segs = append(segs, Segment{Start: start, End: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		segs = append(segs, Segment{Start: start, End: len(signal) - 1})
	}
	return segs
}
