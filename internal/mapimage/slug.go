package mapimage

import (
	"regexp"
	"strings"
)

var (
	apostropheReplacer = strings.NewReplacer("\u2019", "", "'", "")
	whitespacePattern  = regexp.MustCompile(`\s+`)
	unsafeSlugPattern  = regexp.MustCompile(`[^A-Za-z0-9_\-]`)
)

// SlugCandidates returns the filename stems to try for mapName, most likely
// first. Every candidate matches [A-Za-z0-9_-]+ and appears only once.
func SlugCandidates(mapName string) []string {
	base := strings.TrimSpace(mapName)
	base = apostropheReplacer.Replace(base)
	base = whitespacePattern.ReplaceAllString(base, " ")

	underscored := strings.ReplaceAll(base, " ", "_")
	allUnderscored := strings.ReplaceAll(underscored, "-", "_")
	noHyphens := strings.ReplaceAll(underscored, "-", "")
	compact := strings.ReplaceAll(allUnderscored, "_", "")

	candidates := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	for _, c := range []string{underscored, allUnderscored, noHyphens, compact} {
		c = unsafeSlugPattern.ReplaceAllString(c, "")
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	return candidates
}
