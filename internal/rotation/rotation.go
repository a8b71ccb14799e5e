package rotation

import (
	"fmt"
	"strings"
)

// Entry is a single map slot in the rotation
type Entry struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// Rotation holds the current map and, when known, the next one
type Rotation struct {
	Current Entry  `json:"current"`
	Next    *Entry `json:"next,omitempty"`
	// Source records which heuristic produced the result ("primary" or "fallback")
	Source string `json:"source"`
}

const (
	SourcePrimary  = "primary"
	SourceFallback = "fallback"
)

// HasNext reports whether the next map is known
func (r *Rotation) HasNext() bool {
	return r != nil && r.Next != nil
}

// ExtractionError is returned when no heuristic could produce a rotation.
// Excerpt carries a bounded slice of the normalized lines that were inspected.
type ExtractionError struct {
	Reason  string
	Excerpt []string
}

func (e *ExtractionError) Error() string {
	if len(e.Excerpt) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s\n---DEBUG---\n%s", e.Reason, strings.Join(e.Excerpt, "\n"))
}

// excerpt returns lines[start:start+n] clamped to the slice bounds
func excerpt(lines []string, start, n int) []string {
	if start < 0 {
		start = 0
	}
	if start >= len(lines) {
		return nil
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, end-start)
	copy(out, lines[start:end])
	return out
}
