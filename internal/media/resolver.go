package media

import (
	"net/url"
	"strings"
)

// Resolver turns stored image paths into URLs the browser can load.
type Resolver struct {
	base        string
	placeholder string
}

func NewResolver(baseURL, placeholder string) *Resolver {
	return &Resolver{
		base:        strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		placeholder: strings.TrimSpace(placeholder),
	}
}

// URL returns the placeholder for an empty path, absolute URLs unchanged, and
// any other path joined onto the base URL with each segment escaped.
func (r *Resolver) URL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return r.placeholder
	}
	if u, err := url.Parse(path); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" || s == "." || s == ".." {
			continue
		}
		escaped = append(escaped, url.PathEscape(s))
	}
	if len(escaped) == 0 {
		return r.placeholder
	}
	return r.base + "/" + strings.Join(escaped, "/")
}

func (r *Resolver) URLs(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, r.URL(p))
	}
	return out
}
