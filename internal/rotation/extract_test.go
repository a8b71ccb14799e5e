package rotation

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestExtractPrimary(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantErr   bool
		wantCur   Entry
		wantNext  *Entry
		checkFunc func(*testing.T, *Rotation)
	}{
		{
			name:     "current and next in document order",
			lines:    []string{"Apex Ranked", "Olympus", "From 10:00 to 10:45", "Storm Point", "From 10:45 to 11:30"},
			wantCur:  Entry{Name: "Olympus", Detail: "From 10:00 to 10:45"},
			wantNext: &Entry{Name: "Storm Point", Detail: "From 10:45 to 11:30"},
		},
		{
			name:    "single entry has no next",
			lines:   []string{"Apex Ranked", "Olympus", "From 10:00 to 10:45"},
			wantCur: Entry{Name: "Olympus", Detail: "From 10:00 to 10:45"},
		},
		{
			name:    "case-insensitive and no space after from",
			lines:   []string{"header", "Broken Moon", "FROM10:00"},
			wantCur: Entry{Name: "Broken Moon", Detail: "FROM10:00"},
		},
		{
			name:    "heading markers are stripped",
			lines:   []string{"header", "### E-District", "From 10:00 to 10:45"},
			wantCur: Entry{Name: "E-District", Detail: "From 10:00 to 10:45"},
		},
		{
			name:    "line zero is never a detail line",
			lines:   []string{"From the makers of Apex", "Olympus", "From 10:00 to 10:45"},
			wantCur: Entry{Name: "Olympus", Detail: "From 10:00 to 10:45"},
		},
		{
			name:    "only line zero matches",
			lines:   []string{"From 10:00 to 10:45", "Olympus"},
			wantErr: true,
		},
		{
			name: "heading that is itself a detail line is noise",
			lines: []string{
				"header", "Olympus", "From 10:00 to 10:45", "From 10:45 to 11:30", "Storm Point", "From 11:30 to 12:15",
			},
			wantCur:  Entry{Name: "Olympus", Detail: "From 10:00 to 10:45"},
			wantNext: &Entry{Name: "Storm Point", Detail: "From 11:30 to 12:15"},
		},
		{
			name: "overlong heading is noise",
			lines: []string{
				"header",
				strings.Repeat("very long promotional text ", 4),
				"From our sponsors",
				"Kings Canyon",
				"From 10:00 to 10:45",
			},
			wantCur: Entry{Name: "Kings Canyon", Detail: "From 10:00 to 10:45"},
		},
		{
			name:    "no detail lines",
			lines:   []string{"Apex Ranked", "Olympus", "10:00 - 10:45"},
			wantErr: true,
		},
		{
			name:    "empty input",
			lines:   nil,
			wantErr: true,
		},
		{
			name:  "source is recorded",
			lines: []string{"x", "Olympus", "From 1"},
			checkFunc: func(t *testing.T, rot *Rotation) {
				if rot.Source != SourcePrimary {
					t.Errorf("Source = %q, want %q", rot.Source, SourcePrimary)
				}
			},
			wantCur: Entry{Name: "Olympus", Detail: "From 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, err := ExtractPrimary(tt.lines, DefaultOptions())

			if tt.wantErr {
				var extractErr *ExtractionError
				if !errors.As(err, &extractErr) {
					t.Fatalf("ExtractPrimary() error = %v, want *ExtractionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractPrimary() unexpected error: %v", err)
			}

			assertRotation(t, rot, tt.wantCur, tt.wantNext)
			if tt.checkFunc != nil {
				tt.checkFunc(t, rot)
			}
		})
	}
}

func TestPrimaryEntries_NoiseFilterDisabled(t *testing.T) {
	lines := []string{"header", "Olympus", "From 10:00", "From 10:45"}
	opts := DefaultOptions()
	opts.SkipDetailHeadings = false
	opts.MaxHeadingLen = 0

	entries := PrimaryEntries(lines, opts)
	if len(entries) != 2 {
		t.Fatalf("PrimaryEntries() returned %d entries, want 2", len(entries))
	}
	if entries[1].Name != "From 10:00" {
		t.Errorf("entries[1].Name = %q, want %q", entries[1].Name, "From 10:00")
	}
}

func TestPrimaryEntries_EveryDetailLinePaired(t *testing.T) {
	lines := []string{"top", "A", "from 1", "B", "from 2", "C", "from 3", "D", "from 4"}

	entries := PrimaryEntries(lines, DefaultOptions())
	if len(entries) != 4 {
		t.Fatalf("PrimaryEntries() returned %d entries, want 4", len(entries))
	}
	for i, e := range entries {
		if e.Name != lines[2*i+1] || e.Detail != lines[2*i+2] {
			t.Errorf("entries[%d] = %+v, want {%s %s}", i, e, lines[2*i+1], lines[2*i+2])
		}
	}
}

func TestExtractFallback(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		wantErr     bool
		wantReason  string
		wantCur     Entry
		wantNext    *Entry
		wantExcerpt string
	}{
		{
			name: "marker section with next map",
			lines: []string{
				"Battle Royale", "Kings Canyon", "From 08:00",
				"BR Ranked", "Broken Moon", "Ends in 12 minutes", "From 09:00 to 09:30",
				"Next map is Olympus, from 09:30 to 10:15",
			},
			wantCur:  Entry{Name: "Broken Moon", Detail: "From 09:00 to 09:30"},
			wantNext: &Entry{Name: "Olympus", Detail: "From 09:30 to 10:15"},
		},
		{
			name: "case-insensitive next map sentence",
			lines: []string{
				"br ranked", "World's Edge", "from 09:00 to 09:30", "NEXT MAP IS Storm Point, FROM 09:30 to 10:15",
			},
			wantCur:  Entry{Name: "World's Edge", Detail: "from 09:00 to 09:30"},
			wantNext: &Entry{Name: "Storm Point", Detail: "From 09:30 to 10:15"},
		},
		{
			name:        "marker missing",
			lines:       []string{"Battle Royale", "Kings Canyon"},
			wantErr:     true,
			wantReason:  "not found",
			wantExcerpt: "Battle Royale",
		},
		{
			name:       "marker is last line",
			lines:      []string{"Battle Royale", "BR Ranked"},
			wantErr:    true,
			wantReason: "not found",
		},
		{
			name:        "detail line missing",
			lines:       []string{"BR Ranked", "Olympus", "Next map is Storm Point, from 10:00 to 11:00"},
			wantErr:     true,
			wantReason:  "could not extract",
			wantExcerpt: "BR Ranked",
		},
		{
			name:       "next map sentence does not match pattern",
			lines:      []string{"BR Ranked", "Olympus", "From 09:00", "Next map is unknown"},
			wantErr:    true,
			wantReason: "could not extract",
		},
		{
			name:       "next map sentence missing",
			lines:      []string{"BR Ranked", "Olympus", "From 09:00"},
			wantErr:    true,
			wantReason: "could not extract",
		},
		{
			name: "detail outside look-ahead window",
			lines: append(append([]string{"BR Ranked", "Olympus"}, filler(18)...),
				"From 09:00", "Next map is Storm Point, from 09:30"),
			wantErr:    true,
			wantReason: "could not extract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, err := ExtractFallback(tt.lines, DefaultOptions())

			if tt.wantErr {
				var extractErr *ExtractionError
				if !errors.As(err, &extractErr) {
					t.Fatalf("ExtractFallback() error = %v, want *ExtractionError", err)
				}
				if !strings.Contains(extractErr.Reason, tt.wantReason) {
					t.Errorf("Reason = %q, want to contain %q", extractErr.Reason, tt.wantReason)
				}
				if tt.wantExcerpt != "" && !strings.Contains(err.Error(), tt.wantExcerpt) {
					t.Errorf("Error() = %q, want excerpt containing %q", err.Error(), tt.wantExcerpt)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractFallback() unexpected error: %v", err)
			}

			assertRotation(t, rot, tt.wantCur, tt.wantNext)
			if rot.Source != SourceFallback {
				t.Errorf("Source = %q, want %q", rot.Source, SourceFallback)
			}
		})
	}
}

func TestExtractionError_ExcerptIsBounded(t *testing.T) {
	lines := filler(500)

	_, err := ExtractFallback(lines, DefaultOptions())

	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("ExtractFallback() error = %v, want *ExtractionError", err)
	}
	if len(extractErr.Excerpt) != DefaultOptions().ExcerptLines {
		t.Errorf("excerpt has %d lines, want %d", len(extractErr.Excerpt), DefaultOptions().ExcerptLines)
	}
}

func TestExtract(t *testing.T) {
	primaryOK := "<h1>Apex Ranked</h1><h3>Olympus</h3><p>From 10:00 to 10:45</p><h3>Storm Point</h3><p>From 10:45 to 11:30</p>"
	primaryEmpty := "<h1>Apex Ranked</h1><p>Maintenance</p>"
	fallbackOK := "<h2>BR Ranked</h2><h3>Broken Moon</h3><p>From 09:00 to 09:30</p><p>Next map is Olympus, from 09:30 to 10:15</p>"
	fetchErr := errors.New("fetch failed")

	tests := []struct {
		name           string
		primary        string
		primaryErr     error
		fallback       string
		fallbackErr    error
		wantErr        error
		wantExtractErr bool
		wantCur        string
		wantSource     string
		wantFallback   int
	}{
		{
			name:         "primary succeeds without touching fallback",
			primary:      primaryOK,
			wantCur:      "Olympus",
			wantSource:   SourcePrimary,
			wantFallback: 0,
		},
		{
			name:         "empty primary triggers fallback",
			primary:      primaryEmpty,
			fallback:     fallbackOK,
			wantCur:      "Broken Moon",
			wantSource:   SourceFallback,
			wantFallback: 1,
		},
		{
			name:         "primary fetch error is not retried against fallback",
			primaryErr:   fetchErr,
			wantErr:      fetchErr,
			wantFallback: 0,
		},
		{
			name:         "fallback fetch error propagates",
			primary:      primaryEmpty,
			fallbackErr:  fetchErr,
			wantErr:      fetchErr,
			wantFallback: 1,
		},
		{
			name:           "both heuristics fail",
			primary:        primaryEmpty,
			fallback:       "<p>nothing here</p>",
			wantExtractErr: true,
			wantFallback:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallbackCalls := 0
			primary := func(ctx context.Context) (string, error) {
				return tt.primary, tt.primaryErr
			}
			fallback := func(ctx context.Context) (string, error) {
				fallbackCalls++
				return tt.fallback, tt.fallbackErr
			}

			rot, err := Extract(context.Background(), primary, fallback, DefaultOptions())

			if fallbackCalls != tt.wantFallback {
				t.Errorf("fallback fetched %d times, want %d", fallbackCalls, tt.wantFallback)
			}

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Extract() error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.wantExtractErr:
				var extractErr *ExtractionError
				if !errors.As(err, &extractErr) {
					t.Errorf("Extract() error = %v, want *ExtractionError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}
			if rot.Current.Name != tt.wantCur {
				t.Errorf("Current.Name = %q, want %q", rot.Current.Name, tt.wantCur)
			}
			if rot.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", rot.Source, tt.wantSource)
			}
		})
	}
}

func TestExtract_Fixtures(t *testing.T) {
	ranked := loadFixture(t, "ranked.html")
	drifted := loadFixture(t, "ranked_drifted.html")
	allModes := loadFixture(t, "all_modes.html")

	t.Run("ranked page", func(t *testing.T) {
		rot, err := Extract(context.Background(), static(ranked), static(allModes), DefaultOptions())
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		assertRotation(t, rot,
			Entry{Name: "Olympus", Detail: "From 10:00 to 10:45"},
			&Entry{Name: "Storm Point", Detail: "From 10:45 to 11:30"})
	})

	t.Run("drifted ranked page falls back to all-modes page", func(t *testing.T) {
		rot, err := Extract(context.Background(), static(drifted), static(allModes), DefaultOptions())
		if err != nil {
			t.Fatalf("Extract() unexpected error: %v", err)
		}
		assertRotation(t, rot,
			Entry{Name: "Broken Moon", Detail: "From 09:00 to 09:30"},
			&Entry{Name: "Olympus", Detail: "From 09:30 to 10:15"})
	})
}

func assertRotation(t *testing.T, rot *Rotation, wantCur Entry, wantNext *Entry) {
	t.Helper()

	if rot == nil {
		t.Fatal("rotation is nil")
	}
	if rot.Current != wantCur {
		t.Errorf("Current = %+v, want %+v", rot.Current, wantCur)
	}
	if wantNext == nil {
		if rot.HasNext() {
			t.Errorf("Next = %+v, want nil", *rot.Next)
		}
		return
	}
	if !rot.HasNext() {
		t.Fatalf("Next = nil, want %+v", *wantNext)
	}
	if *rot.Next != *wantNext {
		t.Errorf("Next = %+v, want %+v", *rot.Next, *wantNext)
	}
}

func filler(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "filler"
	}
	return lines
}

func static(markup string) PageSource {
	return func(ctx context.Context) (string, error) {
		return markup, nil
	}
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}
