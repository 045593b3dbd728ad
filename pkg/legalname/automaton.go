package legalname

import "sort"

// Match is one occurrence of a pattern in a token sequence, covering tokens
// [Start, End).
type Match[V any] struct {
	Start int
	End   int
	Elems []string
	Value V
}

// Len returns the number of tokens the match covers.
func (m Match[V]) Len() int {
	return m.End - m.Start
}

// node is a trie state. fail is the longest proper suffix state; out is the
// nearest state (itself or along fail links) that ends a pattern, -1 if none.
type node struct {
	next    map[string]int
	fail    int
	out     int
	pattern int
}

// Automaton is an Aho-Corasick automaton whose alphabet is tokens rather than
// bytes. Patterns are added while it is unbuilt; Build freezes it, after which
// it is read-only and safe for concurrent matching.
type Automaton[V any] struct {
	nodes    []node
	patterns [][]string
	values   []V
	built    bool
}

// NewAutomaton creates an empty, unbuilt automaton.
func NewAutomaton[V any]() *Automaton[V] {
	return &Automaton[V]{
		nodes: []node{newNode()},
	}
}

func newNode() node {
	return node{next: make(map[string]int), out: -1, pattern: -1}
}

// Add inserts a pattern with its value into the trie.
func (a *Automaton[V]) Add(pattern []string, value V) error {
	if a.built {
		return ErrAutomatonBuilt
	}
	if len(pattern) == 0 {
		return ErrEmptyPattern
	}

	s := 0
	for _, tok := range pattern {
		next, ok := a.nodes[s].next[tok]
		if !ok {
			next = len(a.nodes)
			a.nodes = append(a.nodes, newNode())
			a.nodes[s].next[tok] = next
		}
		s = next
	}
	if a.nodes[s].pattern >= 0 {
		return ErrDuplicatePattern
	}

	a.nodes[s].pattern = len(a.patterns)
	a.patterns = append(a.patterns, append([]string(nil), pattern...))
	a.values = append(a.values, value)
	return nil
}

// Build computes failure and output links breadth-first. It can run once.
func (a *Automaton[V]) Build() error {
	if a.built {
		return ErrAutomatonBuilt
	}

	queue := make([]int, 0, len(a.nodes))
	for _, child := range a.nodes[0].next {
		a.nodes[child].fail = 0
		a.nodes[child].out = a.outOf(child)
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for tok, v := range a.nodes[u].next {
			f := a.nodes[u].fail
			for f != 0 {
				if _, ok := a.nodes[f].next[tok]; ok {
					break
				}
				f = a.nodes[f].fail
			}
			if w, ok := a.nodes[f].next[tok]; ok {
				a.nodes[v].fail = w
			} else {
				a.nodes[v].fail = 0
			}
			a.nodes[v].out = a.outOf(v)
			queue = append(queue, v)
		}
	}

	a.built = true
	return nil
}

// outOf resolves the output link of s; its fail state must already be linked.
func (a *Automaton[V]) outOf(s int) int {
	if a.nodes[s].pattern >= 0 {
		return s
	}
	return a.nodes[a.nodes[s].fail].out
}

// Built reports whether Build has completed.
func (a *Automaton[V]) Built() bool {
	return a.built
}

// Len returns the number of patterns.
func (a *Automaton[V]) Len() int {
	return len(a.patterns)
}

// Get returns the value stored for an exact pattern.
func (a *Automaton[V]) Get(pattern []string) (V, bool) {
	var zero V
	s := 0
	for _, tok := range pattern {
		next, ok := a.nodes[s].next[tok]
		if !ok {
			return zero, false
		}
		s = next
	}
	if p := a.nodes[s].pattern; p >= 0 {
		return a.values[p], true
	}
	return zero, false
}

func (a *Automaton[V]) step(s int, tok string) int {
	for {
		if next, ok := a.nodes[s].next[tok]; ok {
			return next
		}
		if s == 0 {
			return 0
		}
		s = a.nodes[s].fail
	}
}

// FindAll returns every occurrence of every pattern in seq, including
// overlapping ones, ordered by End and then by decreasing length. Elems
// aliases seq. It returns nil until the automaton is built.
func (a *Automaton[V]) FindAll(seq []string) []Match[V] {
	if !a.built {
		return nil
	}

	var matches []Match[V]
	s := 0
	for i, tok := range seq {
		s = a.step(s, tok)
		for o := a.nodes[s].out; o >= 0; o = a.nodes[a.nodes[o].fail].out {
			p := a.nodes[o].pattern
			end := i + 1
			start := end - len(a.patterns[p])
			matches = append(matches, Match[V]{
				Start: start,
				End:   end,
				Elems: seq[start:end],
				Value: a.values[p],
			})
		}
	}
	return matches
}

// FindMatches returns a non-overlapping subset of FindAll ordered by Start.
// Longer matches win; among equally long ones the leftmost wins.
func (a *Automaton[V]) FindMatches(seq []string) []Match[V] {
	all := a.FindAll(seq)
	if len(all) <= 1 {
		return all
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Len() != all[j].Len() {
			return all[i].Len() > all[j].Len()
		}
		return all[i].Start < all[j].Start
	})

	taken := make([]bool, len(seq))
	kept := all[:0]
	for _, m := range all {
		if overlapsTaken(taken, m.Start, m.End) {
			continue
		}
		for i := m.Start; i < m.End; i++ {
			taken[i] = true
		}
		kept = append(kept, m)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Start < kept[j].Start
	})
	return kept
}

func overlapsTaken(taken []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if taken[i] {
			return true
		}
	}
	return false
}
