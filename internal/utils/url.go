package utils

import (
	"net/url"
	"strings"
)

func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// JoinURL joins a base URL with path segments, escaping each segment.
func JoinURL(base string, segments ...string) string {
	base = strings.TrimRight(base, "/")
	escaped := make([]string, 0, len(segments))
	for _, seg := range segments {
		for _, part := range strings.Split(strings.Trim(seg, "/"), "/") {
			if part != "" {
				escaped = append(escaped, url.PathEscape(part))
			}
		}
	}
	if len(escaped) == 0 {
		return base
	}
	return base + "/" + strings.Join(escaped, "/")
}
