package classify

import "testing"

func TestIsStatic(t *testing.T) {
	cases := []struct {
		target, prefix string
		want           bool
	}{
		{"/static/x.txt", "/static", true},
		{"/static", "/static", true},
		{"/staticfoo", "/static", false},
		{"/s/x", "/s", true},
		{"/other", "/static", false},
		{"", "/static", false},
	}
	for _, c := range cases {
		if got := IsStatic(c.target, c.prefix); got != c.want {
			t.Errorf("IsStatic(%q, %q) = %v, want %v", c.target, c.prefix, got, c.want)
		}
	}
}
