package tui

import (
	"net/url"

	"github.com/rshade/pokedeck/internal/catalog"
)

// Placeholder images used when a record has no usable image URL.
const (
	PlaceholderCard  = "https://via.placeholder.com/128x128?text=Pokemon"
	PlaceholderFront = "https://via.placeholder.com/96x96?text=Front"
	PlaceholderBack  = "https://via.placeholder.com/96x96?text=Back"
)

// Resolvable reports whether raw is an absolute http(s) URL with a host.
// Anything else is treated the way a browser treats an image that fails to load.
func Resolvable(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// resolveImage returns primary if usable, otherwise placeholder.
func resolveImage(primary, placeholder string) string {
	if Resolvable(primary) {
		return primary
	}
	return placeholder
}

// CardImage resolves the summary card image: front image, then sprite, then placeholder.
func CardImage(rec catalog.Record) string {
	return resolveImage(rec.FrontImageURL(), PlaceholderCard)
}

// FrontImage resolves the detail view front image.
func FrontImage(rec catalog.Record) string {
	return resolveImage(rec.FrontImageURL(), PlaceholderFront)
}

// BackImage resolves the detail view back image.
func BackImage(rec catalog.Record) string {
	return resolveImage(rec.BackImageURL(), PlaceholderBack)
}
