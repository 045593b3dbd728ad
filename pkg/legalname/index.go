package legalname

import (
	"bytes"
	"slices"
	"sort"
	"strings"

	"github.com/blevesearch/vellum"
	"github.com/rotisserie/eris"
)

// TermInfo is the merged record for one normalized term: every raw term that
// normalizes to Term contributes its labels here.
type TermInfo struct {
	Term      []string
	Types     []string
	Countries []string
}

// Token position flags stored as FST values.
const (
	tokenMember uint64 = 1 << iota
	tokenStarts
	tokenEnds
)

// TermIndex is the normalized, deduplicated view of a TermData dictionary.
// It is read-only once built.
type TermIndex struct {
	entries []*TermInfo
	byKey   map[string]*TermInfo
	skipped []string

	tokens     *vellum.FST
	tokenCount int
	emptyToken uint64
}

// termGroup accumulates labels for one normalized sequence.
type termGroup struct {
	term      []string
	types     map[string]struct{}
	countries map[string]struct{}
}

// BuildIndex inverts data to term → labels, normalizes every term with n and
// merges terms that normalize to the same token sequence.
func BuildIndex(data TermData, n *Normalizer) (*TermIndex, error) {
	groups := make(map[string]*termGroup)
	var skipped []string

	add := func(byTerm map[string]map[string]struct{}, pick func(*termGroup) map[string]struct{}) {
		for raw, labels := range byTerm {
			seq := n.Split(raw).Norm
			if len(seq) == 0 {
				skipped = append(skipped, raw)
				continue
			}
			key := sequenceKey(seq)
			g, ok := groups[key]
			if !ok {
				g = &termGroup{
					term:      seq,
					types:     make(map[string]struct{}),
					countries: make(map[string]struct{}),
				}
				groups[key] = g
			}
			dst := pick(g)
			for label := range labels {
				dst[label] = struct{}{}
			}
		}
	}
	add(invertTerms(data.Types), func(g *termGroup) map[string]struct{} { return g.types })
	add(invertTerms(data.Countries), func(g *termGroup) map[string]struct{} { return g.countries })

	idx := &TermIndex{
		entries: make([]*TermInfo, 0, len(groups)),
		byKey:   make(map[string]*TermInfo, len(groups)),
		skipped: dedupeSorted(skipped),
	}
	for key, g := range groups {
		info := &TermInfo{
			Term:      g.term,
			Types:     sortedKeys(g.types),
			Countries: sortedKeys(g.countries),
		}
		idx.entries = append(idx.entries, info)
		idx.byKey[key] = info
	}

	// Longest first, then lexicographic, so the build never depends on map order.
	sort.Slice(idx.entries, func(i, j int) bool {
		a, b := idx.entries[i].Term, idx.entries[j].Term
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return slices.Compare(a, b) < 0
	})

	if err := idx.buildTokenSet(); err != nil {
		return nil, err
	}
	return idx, nil
}

// invertTerms turns label → terms into term → labels.
func invertTerms(byLabel map[string][]string) map[string]map[string]struct{} {
	inv := make(map[string]map[string]struct{})
	for label, terms := range byLabel {
		for _, term := range terms {
			labels, ok := inv[term]
			if !ok {
				labels = make(map[string]struct{})
				inv[term] = labels
			}
			labels[label] = struct{}{}
		}
	}
	return inv
}

// buildTokenSet compiles every token of every term into an in-memory FST whose
// value records where in a term the token occurs.
func (idx *TermIndex) buildTokenSet() error {
	flags := make(map[string]uint64)
	for _, e := range idx.entries {
		for i, tok := range e.Term {
			f := tokenMember
			if i == 0 {
				f |= tokenStarts
			}
			if i == len(e.Term)-1 {
				f |= tokenEnds
			}
			flags[tok] |= f
		}
	}
	idx.tokenCount = len(flags)

	// A term token can normalize to "" ("-"); keep it out of the FST.
	if f, ok := flags[""]; ok {
		idx.emptyToken = f
		delete(flags, "")
	}
	if len(flags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(flags))
	for tok := range flags {
		keys = append(keys, tok)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return eris.Wrap(err, "create token fst builder")
	}
	for _, tok := range keys {
		if err := builder.Insert([]byte(tok), flags[tok]); err != nil {
			builder.Close()
			return eris.Wrapf(err, "insert token %q", tok)
		}
	}
	if err := builder.Close(); err != nil {
		return eris.Wrap(err, "close token fst builder")
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return eris.Wrap(err, "load token fst")
	}
	idx.tokens = fst
	return nil
}

func (idx *TermIndex) tokenFlags(tok string) uint64 {
	if tok == "" {
		return idx.emptyToken
	}
	if idx.tokens == nil {
		return 0
	}
	v, ok, err := idx.tokens.Get([]byte(tok))
	if err != nil || !ok {
		return 0
	}
	return v
}

// HasPattern reports whether the normalized token occurs in any term.
func (idx *TermIndex) HasPattern(tok string) bool {
	return idx.tokenFlags(tok)&tokenMember != 0
}

// CanStart reports whether some term begins with the normalized token.
func (idx *TermIndex) CanStart(tok string) bool {
	return idx.tokenFlags(tok)&tokenStarts != 0
}

// CanEnd reports whether some term ends with the normalized token.
func (idx *TermIndex) CanEnd(tok string) bool {
	return idx.tokenFlags(tok)&tokenEnds != 0
}

// Lookup returns the merged record for a normalized token sequence.
func (idx *TermIndex) Lookup(seq []string) (*TermInfo, bool) {
	info, ok := idx.byKey[sequenceKey(seq)]
	return info, ok
}

// Entries returns the merged records, longest term first, ties in
// lexicographic order. The slice must not be modified.
func (idx *TermIndex) Entries() []*TermInfo {
	return idx.entries
}

// Len returns the number of distinct normalized terms.
func (idx *TermIndex) Len() int {
	return len(idx.entries)
}

// TokenCount returns the number of distinct normalized tokens across all terms.
func (idx *TermIndex) TokenCount() int {
	return idx.tokenCount
}

// Skipped returns the raw terms that normalized to nothing.
func (idx *TermIndex) Skipped() []string {
	return idx.skipped
}

// sequenceKey joins tokens with NUL, which does not occur in names or terms.
func sequenceKey(seq []string) string {
	return strings.Join(seq, "\x00")
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupeSorted(items []string) []string {
	sort.Strings(items)
	return slices.Compact(items)
}
