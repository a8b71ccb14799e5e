package mapimage

import (
	"context"
	"mime"
	"strings"
	"time"
)

const (
	AssetBaseURL = "https://apexlegendsstatus.com/assets/maps/"
	CheckTimeout = 15 * time.Second
)

// Checker performs an existence check against a URL
type Checker interface {
	Check(ctx context.Context, url string) (status int, contentType string, err error)
}

// Resolver turns a map name into an image URL
type Resolver struct {
	baseURL string
	checker Checker
	timeout time.Duration
	// OnMiss, if set, is called for every candidate that failed verification
	OnMiss func(url string, status int, err error)
}

// NewResolver creates a resolver. A nil checker disables live verification
// and the first slug candidate is trusted as is.
func NewResolver(baseURL string, checker Checker) *Resolver {
	if baseURL == "" {
		baseURL = AssetBaseURL
	}
	return &Resolver{
		baseURL: baseURL,
		checker: checker,
		timeout: CheckTimeout,
	}
}

// SetTimeout sets the budget for a single candidate check
func (r *Resolver) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Verifies reports whether candidates are confirmed over the network
func (r *Resolver) Verifies() bool {
	return r.checker != nil
}

// CandidateURLs returns the asset URL for every slug candidate, in order
func (r *Resolver) CandidateURLs(mapName string) []string {
	slugs := SlugCandidates(mapName)
	urls := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		urls = append(urls, r.baseURL+slug+".png")
	}
	return urls
}

// ResolveURL returns the image URL for mapName, or "" if none could be
// determined. Without a checker the first candidate is returned. With a
// checker, candidates are tried in order and the first one answering with a
// 2xx status and an image content type wins; failing candidates are skipped.
func (r *Resolver) ResolveURL(ctx context.Context, mapName string) string {
	urls := r.CandidateURLs(mapName)
	if len(urls) == 0 {
		return ""
	}
	if r.checker == nil {
		return urls[0]
	}

	for _, url := range urls {
		if r.verify(ctx, url) {
			return url
		}
	}
	return ""
}

func (r *Resolver) verify(ctx context.Context, url string) bool {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	status, contentType, err := r.checker.Check(ctx, url)
	if err == nil && status >= 200 && status <= 299 && isImage(contentType) {
		return true
	}

	if r.OnMiss != nil {
		r.OnMiss(url, status, err)
	}
	return false
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.HasPrefix(mediaType, "image/")
}
