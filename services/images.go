package services

import (
	"strings"

	"github.com/leanttro/leanttrotech/models"
)

// ImageResolver turns CMS file references into absolute asset URLs.
type ImageResolver struct {
	base string
}

// NewImageResolver resolves ids against <cmsBaseURL>/assets/.
func NewImageResolver(cmsBaseURL string) ImageResolver {
	return ImageResolver{base: strings.TrimRight(cmsBaseURL, "/")}
}

// Resolve returns "" for an empty reference, absolute URLs unchanged, and
// <base>/assets/<id> for everything else. Resolving a resolved URL is a no-op.
func (r ImageResolver) Resolve(ref models.ImageRef) string {
	s := strings.TrimSpace(string(ref))
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "http"):
		return s
	default:
		return r.base + "/assets/" + s
	}
}

// FirstOf resolves the first non-empty reference, or returns fallback.
func (r ImageResolver) FirstOf(fallback string, refs ...models.ImageRef) string {
	for _, ref := range refs {
		if u := r.Resolve(ref); u != "" {
			return u
		}
	}
	return fallback
}
