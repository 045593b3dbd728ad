package legalname

import (
	"slices"
	"strings"
)

// Mode selects which edges of a name are stripped.
type Mode uint8

const (
	StripSuffix Mode = 1 << iota
	StripPrefix
	// StripMiddle is rejected with ErrMiddleStrip.
	StripMiddle

	DefaultMode = StripSuffix | StripPrefix
)

// Suffix reports whether m strips the end of a name.
func (m Mode) Suffix() bool { return m&StripSuffix != 0 }

// Prefix reports whether m strips the start of a name.
func (m Mode) Prefix() bool { return m&StripPrefix != 0 }

// Middle reports whether m asks for middle-of-name stripping.
func (m Mode) Middle() bool { return m&StripMiddle != 0 }

func (m Mode) String() string {
	var parts []string
	if m.Suffix() {
		parts = append(parts, "suffix")
	}
	if m.Prefix() {
		parts = append(parts, "prefix")
	}
	if m.Middle() {
		parts = append(parts, "middle")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Labels collects the labels of stripped terms. It may hold duplicates.
type Labels struct {
	Types     []string
	Countries []string
}

func (l *Labels) add(info *TermInfo) {
	l.Types = append(l.Types, info.Types...)
	l.Countries = append(l.Countries, info.Countries...)
}

// Resolver strips dictionary terms that touch the edges of a tokenized name.
type Resolver struct {
	index     *TermIndex
	automaton *Automaton[*TermInfo]
}

// NewResolver pairs a term index with the built automaton over its entries.
func NewResolver(index *TermIndex, automaton *Automaton[*TermInfo]) *Resolver {
	return &Resolver{index: index, automaton: automaton}
}

// Resolve removes chained term matches from the end and/or start of toks, as
// selected by mode, and returns the labels of every removed match. Matches
// strictly inside the name are never removed.
func (r *Resolver) Resolve(toks *Tokens, mode Mode) (Labels, error) {
	var labels Labels
	if mode.Middle() {
		return labels, ErrMiddleStrip
	}

	n := toks.Len()
	if n == 0 {
		return labels, nil
	}
	if !(mode.Suffix() && r.index.CanEnd(toks.Norm[n-1])) &&
		!(mode.Prefix() && r.index.CanStart(toks.Norm[0])) {
		return labels, nil
	}

	matches := r.automaton.FindMatches(toks.Norm)
	if len(matches) == 0 {
		return labels, nil
	}

	// Descending End. Matches do not overlap, so this is also descending Start.
	byEnd := slices.Clone(matches)
	slices.Reverse(byEnd)

	if mode.Suffix() {
		for _, m := range byEnd {
			if m.End != toks.Len() {
				break
			}
			labels.add(m.Value)
			toks.Delete(m.Start, m.End)
		}
	}

	if mode.Prefix() {
		offset := 0
		for i := len(byEnd) - 1; i >= 0; i-- {
			m := byEnd[i]
			// Matches past the current end were already stripped as suffixes.
			if m.Start != offset || m.End > toks.Len() {
				break
			}
			offset = m.End
			labels.add(m.Value)
		}
		toks.Delete(0, offset)
	}

	return labels, nil
}
