package notifier

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
)

func TestFormatTweet(t *testing.T) {
	tests := []struct {
		name     string
		rot      *rotation.Rotation
		contains []string
		excludes []string
	}{
		{
			name: "current and next",
			rot: &rotation.Rotation{
				Current: rotation.Entry{Name: "Olympus", Detail: "From 10:00 to 10:45"},
				Next:    &rotation.Entry{Name: "Storm Point", Detail: "From 10:45 to 11:30"},
			},
			contains: []string{
				"🗺️",
				"Now: オリンパス (Olympus)",
				"From 10:00 to 10:45",
				"Next: ストームポイント (Storm Point)",
				"From 10:45 to 11:30",
				"#ApexLegends",
				"#ApexRanked",
			},
		},
		{
			name: "current only",
			rot: &rotation.Rotation{
				Current: rotation.Entry{Name: "Broken Moon", Detail: "From 09:00 to 09:30"},
			},
			contains: []string{"Now: ブロークンムーン (Broken Moon)"},
			excludes: []string{"Next:"},
		},
		{
			name: "untranslated name is not repeated",
			rot: &rotation.Rotation{
				Current: rotation.Entry{Name: "Mystery Map", Detail: "From 09:00"},
			},
			contains: []string{"Now: Mystery Map\n"},
			excludes: []string{"(Mystery Map)"},
		},
		{
			name: "very long detail gets truncated",
			rot: &rotation.Rotation{
				Current: rotation.Entry{Name: "Olympus", Detail: "From " + strings.Repeat("10:00 ", 80)},
			},
			contains: []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTweet(tt.rot, mapnames.Default())

			if n := utf8.RuneCountInString(got); n > maxTweetRunes {
				t.Errorf("formatTweet() length = %d runes, want <= %d", n, maxTweetRunes)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatTweet() missing %q in tweet:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("formatTweet() unexpectedly contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestNewTwitterNotifier_MissingCredentials(t *testing.T) {
	creds := TwitterCredentials{APIKey: "key", APISecret: "secret", AccessToken: "token"}

	if _, err := NewTwitterNotifier(creds, mapnames.Default()); err == nil {
		t.Error("NewTwitterNotifier() expected error for incomplete credentials")
	}

	creds.AccessSecret = "access-secret"
	if _, err := NewTwitterNotifier(creds, mapnames.Default()); err != nil {
		t.Errorf("NewTwitterNotifier() unexpected error: %v", err)
	}
}
