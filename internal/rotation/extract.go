package rotation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pfrederiksen/apex-rankmap/internal/scraper"
)

// PageSource returns the raw markup of one page. The pipeline binds it to
// an HTTP fetch; tests bind it to canned HTML.
type PageSource func(ctx context.Context) (string, error)

// Options tunes the extraction heuristics. None of these values are
// guaranteed by the source site; they only guard against layout drift.
type Options struct {
	// MaxHeadingLen drops primary entries whose heading is longer than this. 0 disables.
	MaxHeadingLen int `yaml:"maxHeadingLen"`
	// SkipDetailHeadings drops primary entries whose heading itself starts with "from".
	SkipDetailHeadings bool `yaml:"skipDetailHeadings"`
	// Marker is the fallback section heading, compared case-insensitively.
	Marker string `yaml:"marker"`
	// DetailWindow is how many lines after the current map name are searched for its detail.
	DetailWindow int `yaml:"detailWindow"`
	// NextWindow is how many lines after the current map name are searched for "next map is".
	NextWindow int `yaml:"nextWindow"`
	// ExcerptLines bounds the diagnostic excerpt attached to extraction errors.
	ExcerptLines int `yaml:"excerptLines"`
}

// DefaultOptions returns the thresholds observed to work against the live site
func DefaultOptions() Options {
	return Options{
		MaxHeadingLen:      60,
		SkipDetailHeadings: true,
		Marker:             "br ranked",
		DetailWindow:       18,
		NextWindow:         28,
		ExcerptLines:       80,
	}
}

// fallbackExcerptLines is the size of the excerpt taken from the marker onwards
const fallbackExcerptLines = 50

var (
	headingMarkerPattern = regexp.MustCompile(`^#+\s*`)
	nextMapPattern       = regexp.MustCompile(`(?i)next map is\s+(.*?),\s*from\s+(.*)$`)
)

// Extract fetches the primary page and extracts the rotation from it. The
// fallback page is fetched only when the primary page was fetched fine but
// yielded no entries. Fetch errors are returned unmodified.
func Extract(ctx context.Context, primary, fallback PageSource, opts Options) (*Rotation, error) {
	markup, err := primary(ctx)
	if err != nil {
		return nil, err
	}

	rot, primaryErr := ExtractPrimary(scraper.NormalizeLines(markup), opts)
	if primaryErr == nil {
		return rot, nil
	}

	if fallback == nil {
		return nil, primaryErr
	}

	markup, err = fallback(ctx)
	if err != nil {
		return nil, err
	}

	return ExtractFallback(scraper.NormalizeLines(markup), opts)
}

// ExtractPrimary pairs every detail line (one starting with "from") with the
// heading line above it. The first pair is the current map, the second the next.
func ExtractPrimary(lines []string, opts Options) (*Rotation, error) {
	entries := PrimaryEntries(lines, opts)
	if len(entries) == 0 {
		return nil, &ExtractionError{
			Reason:  "no rotation entries found on ranked page",
			Excerpt: excerpt(lines, 0, opts.excerptLines()),
		}
	}

	rot := &Rotation{Current: entries[0], Source: SourcePrimary}
	if len(entries) >= 2 {
		next := entries[1]
		rot.Next = &next
	}
	return rot, nil
}

// PrimaryEntries returns every heading/detail pair in document order.
// Line 0 is never treated as a detail line.
func PrimaryEntries(lines []string, opts Options) []Entry {
	entries := make([]Entry, 0, 2)
	for i := 1; i < len(lines); i++ {
		if !startsWithFrom(lines[i]) {
			continue
		}

		heading := strings.TrimSpace(lines[i-1])
		heading = strings.TrimSpace(headingMarkerPattern.ReplaceAllString(heading, ""))

		if isNoiseHeading(heading, opts) {
			continue
		}

		entries = append(entries, Entry{Name: heading, Detail: lines[i]})
	}
	return entries
}

// isNoiseHeading reports whether a heading is more likely stray text than a map name
func isNoiseHeading(heading string, opts Options) bool {
	if heading == "" {
		return true
	}
	if opts.MaxHeadingLen > 0 && len([]rune(heading)) > opts.MaxHeadingLen {
		return true
	}
	return opts.SkipDetailHeadings && startsWithFrom(heading)
}

// ExtractFallback reads the "BR Ranked" section of the all-modes page:
// the line after the marker is the current map, the first "from" line in
// the detail window is its time window, and the "Next map is X, from Y"
// sentence describes the next map.
func ExtractFallback(lines []string, opts Options) (*Rotation, error) {
	marker := strings.ToLower(strings.TrimSpace(opts.Marker))
	if marker == "" {
		marker = DefaultOptions().Marker
	}

	idx := -1
	for i, ln := range lines {
		if strings.ToLower(ln) == marker {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(lines) {
		return nil, &ExtractionError{
			Reason:  fmt.Sprintf("section %q not found on all-modes page", opts.Marker),
			Excerpt: excerpt(lines, 0, opts.excerptLines()),
		}
	}

	current := Entry{Name: lines[idx+1]}
	for _, ln := range window(lines, idx+2, opts.detailWindow()) {
		if startsWithFrom(ln) {
			current.Detail = ln
			break
		}
	}

	var match []string
	for _, ln := range window(lines, idx+2, opts.nextWindow()) {
		if strings.Contains(strings.ToLower(ln), "next map is") {
			match = nextMapPattern.FindStringSubmatch(ln)
			break
		}
	}

	if current.Detail == "" || match == nil {
		return nil, &ExtractionError{
			Reason:  fmt.Sprintf("could not extract rotation from section %q", opts.Marker),
			Excerpt: excerpt(lines, idx, fallbackExcerptLines),
		}
	}

	next := Entry{
		Name:   strings.TrimSpace(match[1]),
		Detail: "From " + strings.TrimSpace(match[2]),
	}

	return &Rotation{Current: current, Next: &next, Source: SourceFallback}, nil
}

// window returns lines[start:start+n] clamped to the slice bounds
func window(lines []string, start, n int) []string {
	if start >= len(lines) || n <= 0 {
		return nil
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}

func startsWithFrom(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "from")
}

func (o Options) excerptLines() int {
	if o.ExcerptLines <= 0 {
		return DefaultOptions().ExcerptLines
	}
	return o.ExcerptLines
}

func (o Options) detailWindow() int {
	if o.DetailWindow <= 0 {
		return DefaultOptions().DetailWindow
	}
	return o.DetailWindow
}

func (o Options) nextWindow() int {
	if o.NextWindow <= 0 {
		return DefaultOptions().NextWindow
	}
	return o.NextWindow
}
