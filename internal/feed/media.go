package feed

import "strings"

// ResolveImageURL makes a server-relative image path absolute against base.
// Absolute URLs are returned unchanged.
func ResolveImageURL(base, raw string) string {
	if !strings.HasPrefix(raw, "/") || base == "" {
		return raw
	}
	return strings.TrimRight(base, "/") + raw
}

func resolveImages(base string, images []string) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = ResolveImageURL(base, img)
	}
	return out
}
