package gallery

import "net/url"

// Navigator changes the client route. It is supplied by the presentation layer.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Clickable reports whether the record has a detail page.
func Clickable(r Record) bool {
	return r.Slug() != ""
}

// DetailPath returns /projects/{slug} for clickable records.
func DetailPath(r Record) (string, bool) {
	slug := r.Slug()
	if slug == "" {
		return "", false
	}
	return "/projects/" + url.PathEscape(slug), true
}

type Dispatcher struct {
	nav Navigator
}

func NewDispatcher(nav Navigator) *Dispatcher {
	return &Dispatcher{nav: nav}
}

// Dispatch navigates to the record's detail page. Records without one are
// ignored; it reports whether navigation happened.
func (d *Dispatcher) Dispatch(r Record) bool {
	path, ok := DetailPath(r)
	if !ok || d.nav == nil {
		return false
	}
	d.nav.Navigate(path)
	return true
}
