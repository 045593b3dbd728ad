package legalname

import "strings"

// Tokens holds the raw tokens of a name together with their normalized forms.
// Raw and Norm always have the same length and are index-aligned; mutate them
// only through Delete.
type Tokens struct {
	Raw  []string
	Norm []string
	CJK  bool
}

// Split tokenizes text and normalizes every token with n.
func (n *Normalizer) Split(text string) *Tokens {
	cjk := IsCJK(text)

	var raw []string
	if cjk {
		raw = splitRunes(text)
	} else {
		raw = strings.Fields(text)
	}

	return &Tokens{
		Raw:  raw,
		Norm: n.NormalizeAll(raw),
		CJK:  cjk,
	}
}

// Len returns the number of tokens.
func (t *Tokens) Len() int {
	return len(t.Raw)
}

// Delete removes tokens [start, end) from both sequences. The range is clamped
// to the current length.
func (t *Tokens) Delete(start, end int) {
	start = max(start, 0)
	end = min(end, len(t.Raw))
	if start >= end {
		return
	}
	t.Raw = append(t.Raw[:start], t.Raw[end:]...)
	t.Norm = append(t.Norm[:start], t.Norm[end:]...)
}

// Join reassembles the raw tokens: concatenated for CJK text, space-separated
// otherwise.
func (t *Tokens) Join() string {
	if t.CJK {
		return strings.Join(t.Raw, "")
	}
	return strings.Join(t.Raw, " ")
}
