package media

import "testing"

func TestResolverURL(t *testing.T) {
	r := NewResolver("https://cdn.example.co.id/storage/", "/images/placeholder.jpg")

	cases := []struct {
		in   string
		want string
	}{
		{"", "/images/placeholder.jpg"},
		{"   ", "/images/placeholder.jpg"},
		{"projects/tol-cipali.jpg", "https://cdn.example.co.id/storage/projects/tol-cipali.jpg"},
		{"/projects/tol cipali.jpg", "https://cdn.example.co.id/storage/projects/tol%20cipali.jpg"},
		{"../../etc/passwd", "https://cdn.example.co.id/storage/etc/passwd"},
		{"https://images.example.com/a.png", "https://images.example.com/a.png"},
		{"/", "/images/placeholder.jpg"},
	}
	for _, tc := range cases {
		if got := r.URL(tc.in); got != tc.want {
			t.Fatalf("URL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolverURLsSkipsBlank(t *testing.T) {
	r := NewResolver("/images", "/images/placeholder.jpg")
	got := r.URLs([]string{"a.jpg", "", "b.jpg"})
	if len(got) != 2 || got[0] != "/images/a.jpg" || got[1] != "/images/b.jpg" {
		t.Fatalf("URLs() = %v", got)
	}
}
