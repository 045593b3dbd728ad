package legalname

import (
	"errors"
	"slices"
	"testing"
)

func newTestResolver(t *testing.T) (*Resolver, *Normalizer) {
	t.Helper()

	n := NewNormalizer()
	idx, err := BuildIndex(TermData{
		Types: map[string][]string{
			"Limited":             {"ltd", "oy", "ab", "gmbh"},
			"Limited Partnership": {"gmbh & co. kg", "kg"},
			"Corporation":         {"inc", "& co"},
		},
		Countries: map[string][]string{
			"Finland": {"oy"},
			"Sweden":  {"ab"},
			"Germany": {"gmbh", "kg", "gmbh & co. kg"},
		},
	}, n)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	a := NewAutomaton[*TermInfo]()
	for _, e := range idx.Entries() {
		if err := a.Add(e.Term, e); err != nil {
			t.Fatalf("Add(%q): %v", e.Term, err)
		}
	}
	if err := a.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	return NewResolver(idx, a), n
}

func TestResolver_Resolve(t *testing.T) {
	r, n := newTestResolver(t)

	tests := []struct {
		input     string
		mode      Mode
		base      string
		types     []string
		countries []string
	}{
		{"Hello World Oy", DefaultMode, "Hello World", []string{"Limited"}, []string{"Finland"}},
		{"Hello World Ab Oy", DefaultMode, "Hello World", []string{"Limited"}, []string{"Finland", "Sweden"}},
		{"Ab Oy Hello World", DefaultMode, "Hello World", []string{"Limited"}, []string{"Finland", "Sweden"}},
		{"Oy Hello World Oy", StripSuffix, "Oy Hello World", []string{"Limited"}, []string{"Finland"}},
		{"Oy Hello World Oy", StripPrefix, "Hello World Oy", []string{"Limited"}, []string{"Finland"}},
		{"Oy Hello World Ab", DefaultMode, "Hello World", []string{"Limited"}, []string{"Finland", "Sweden"}},
		{"Hello Oy World", DefaultMode, "Hello Oy World", []string{}, []string{}},
		{"Germany gmbh & co. kg", DefaultMode, "Germany", []string{"Limited Partnership"}, []string{"Germany"}},
		{"Acme & Co Inc", StripSuffix, "Acme", []string{"Corporation"}, []string{}},
		{"Ab Oy", StripSuffix, "", []string{"Limited"}, []string{"Finland", "Sweden"}},
		{"Ab Oy", DefaultMode, "", []string{"Limited"}, []string{"Finland", "Sweden"}},
		{"Hello World Oy", 0, "Hello World Oy", []string{}, []string{}},
		{"", DefaultMode, "", []string{}, []string{}},
	}

	for _, tt := range tests {
		toks := n.Split(tt.input)
		labels, err := r.Resolve(toks, tt.mode)
		if err != nil {
			t.Errorf("Resolve(%q, %v): %v", tt.input, tt.mode, err)
			continue
		}
		if got := toks.Join(); got != tt.base {
			t.Errorf("Resolve(%q, %v) left %q, want %q", tt.input, tt.mode, got, tt.base)
		}
		if got := uniqueSorted(labels.Types); !slices.Equal(got, tt.types) {
			t.Errorf("Resolve(%q, %v) types = %q, want %q", tt.input, tt.mode, got, tt.types)
		}
		if got := uniqueSorted(labels.Countries); !slices.Equal(got, tt.countries) {
			t.Errorf("Resolve(%q, %v) countries = %q, want %q", tt.input, tt.mode, got, tt.countries)
		}
		if len(toks.Raw) != len(toks.Norm) {
			t.Errorf("Resolve(%q, %v) broke token alignment", tt.input, tt.mode)
		}
	}
}

func TestResolver_NoDoubleCounting(t *testing.T) {
	r, n := newTestResolver(t)

	labels, err := r.Resolve(n.Split("Oy"), DefaultMode)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(labels.Countries, []string{"Finland"}) {
		t.Errorf("Countries = %q, want a single Finland", labels.Countries)
	}
}

func TestResolver_MiddleStrip(t *testing.T) {
	r, n := newTestResolver(t)

	toks := n.Split("Hello Oy World")
	_, err := r.Resolve(toks, DefaultMode|StripMiddle)
	if !errors.Is(err, ErrMiddleStrip) {
		t.Errorf("Resolve with StripMiddle = %v, want ErrMiddleStrip", err)
	}
	if toks.Len() != 3 {
		t.Errorf("Tokens changed on error: %q", toks.Raw)
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{DefaultMode, "suffix|prefix"},
		{StripSuffix, "suffix"},
		{StripPrefix, "prefix"},
		{StripMiddle, "middle"},
		{0, "none"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
		}
	}
}
