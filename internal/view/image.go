package view

import "strings"

// ImageResolver turns a stored image reference into a URL the page can
// load. Absolute http(s) URLs pass through untouched; anything else is
// placed under Prefix on Origin exactly once.
type ImageResolver struct {
	Origin string
	Prefix string
}

func NewImageResolver(origin, prefix string) ImageResolver {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "/"
	} else {
		prefix = "/" + prefix + "/"
	}
	return ImageResolver{Origin: strings.TrimRight(origin, "/"), Prefix: prefix}
}

func (r ImageResolver) Resolve(image string) string {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	if strings.HasPrefix(image, r.Prefix) {
		return r.Origin + image
	}
	rel := strings.TrimPrefix(image, strings.TrimPrefix(r.Prefix, "/"))
	return r.Origin + r.Prefix + strings.TrimLeft(rel, "/")
}
