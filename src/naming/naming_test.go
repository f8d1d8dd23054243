package naming

import "testing"

func TestSegment(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"main", "Main"},
		{"side-car", "SideCar"},
		{"db_init", "DbInit"},
		{"myImage", "MyImage"},
		{"ghcr.io", "GhcrIo"},
		{"a1-b2", "A1B2"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Segment(c.in); got != c.want {
			t.Errorf("Segment(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSegment_CollapsesSeparatorVariants(t *testing.T) {
	// Documented limitation: separator and case variants collapse.
	variants := []string{"my-image", "my_image", "my.image", "myImage"}
	for _, v := range variants {
		if got := Segment(v); got != "MyImage" {
			t.Errorf("Segment(%q) = %q, want MyImage", v, got)
		}
	}
}

func TestSegment_Stable(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Segment("side-car"); got != "SideCar" {
			t.Fatalf("Segment not stable: got %q", got)
		}
	}
}

func TestPathPrefix(t *testing.T) {
	if got := PathPrefix("foo"); got != "foo/" {
		t.Errorf("PathPrefix(foo) = %q, want foo/", got)
	}
	if got := PathPrefix("foo/"); got != "foo/" {
		t.Errorf("PathPrefix(foo/) = %q, want foo/", got)
	}
	if got := PathPrefix(PathPrefix("foo")); got != "foo/" {
		t.Errorf("PathPrefix not idempotent: got %q", got)
	}
	if got := PathPrefix(""); got != "" {
		t.Errorf("PathPrefix(\"\") = %q, want \"\"", got)
	}
}
