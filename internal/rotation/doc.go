// Package rotation extracts the current and next ranked battle royale maps
// from the normalized text lines of a scraped rotation page.
//
// Two independent heuristics are applied. The primary one pairs every line
// starting with "from" with the line directly above it on the ranked-only
// page. The fallback one looks for the "BR Ranked" section of the all-modes
// page and reads the current map plus the "Next map is ..." sentence. The
// fallback page is only fetched when the primary page yields nothing.
package rotation
