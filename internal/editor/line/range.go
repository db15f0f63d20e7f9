package line

// Range is a half-open byte range [Start, End) within a line's content.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool { return r.End <= r.Start }
