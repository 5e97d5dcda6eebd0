package tokenizer

import "strings"

// accumulator captures content that may span multiple Process calls.
//
// While the content lives entirely within the current buffer, it is
// addressed by a plain (start, cursor) slice — no copy happens. Only when a
// chunk boundary forces the buffer to be discarded does the slice get
// materialized into partial, exactly the "(start_index, partial)" pair this
// is named for.
type accumulator struct {
	active     bool
	start      int
	partial    strings.Builder
	hasPartial bool
}

// begin starts a new capture at byte offset start within the current buffer.
func (a *accumulator) begin(start int) {
	a.active = true
	a.start = start
	a.hasPartial = false
	a.partial.Reset()
}

// flush is called just before the tokenizer discards its buffer at a chunk
// boundary. It copies whatever has been scanned so far into partial so the
// capture survives the buffer being replaced.
func (a *accumulator) flush(buf string, cursor int) {
	if !a.active {
		return
	}
	if cursor > a.start {
		a.partial.WriteString(buf[a.start:cursor])
		a.hasPartial = true
	}
	a.start = 0
}

// length reports the number of bytes captured so far (across a flush, if
// one has happened), without materializing or clearing the accumulator.
func (a *accumulator) length(cursor int) int {
	n := 0
	if a.hasPartial {
		n = a.partial.Len()
	}
	if cursor > a.start {
		n += cursor - a.start
	}
	return n
}

// finish materializes the captured content up to cursor and clears the
// accumulator for reuse.
func (a *accumulator) finish(buf string, cursor int) string {
	var result string
	if a.hasPartial {
		if cursor > a.start {
			a.partial.WriteString(buf[a.start:cursor])
		}
		result = a.partial.String()
	} else if cursor > a.start {
		result = buf[a.start:cursor]
	}
	a.active = false
	a.hasPartial = false
	a.partial.Reset()
	return result
}
