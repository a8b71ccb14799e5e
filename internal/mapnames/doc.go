// Package mapnames translates canonical English map names into their
// localized display names. Unknown names pass through unchanged.
package mapnames
