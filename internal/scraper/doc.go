// Package scraper provides HTTP fetching and text normalization for the
// Apex Legends Status map rotation pages.
//
// The scraper fetches a page with a fixed identifying User-Agent and a
// bounded timeout, and flattens its markup into an ordered list of
// non-empty, trimmed text lines. Line order is preserved because the
// rotation heuristics rely on adjacency between a map name and its time
// window.
package scraper
