// Package glossary resolves ambiguous legal and technical terms to their canonical
// expansions and rewrites free text with those expansions inline.
package glossary

import (
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/iajur/internal/domain/text"
)

// Entry is an immutable glossary record.
type Entry struct {
	Term        string   `json:"term"`
	Expansion   string   `json:"expansion"`
	Context     string   `json:"context"`
	Description string   `json:"description"`
	Legislation []string `json:"legislation,omitempty"`
	Variants    []string `json:"variants"`
}

func (e Entry) clone() Entry {
	e.Legislation = slices.Clone(e.Legislation)
	e.Variants = slices.Clone(e.Variants)
	return e
}

// Stats summarizes the glossary.
type Stats struct {
	Total     int            `json:"total"`
	ByContext map[string]int `json:"by_context"`
}

// Resolver looks terms up in a read-only table.
type Resolver struct {
	entries []Entry
	byKey   map[string]int
}

// New builds a resolver over entries. The slice is copied.
func New(entries []Entry) *Resolver {
	r := &Resolver{
		entries: make([]Entry, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		r.entries[i] = e.clone()
		r.byKey[strings.ToLower(e.Term)] = i
	}
	return r
}

// Default returns a resolver over the built-in technical-legal glossary.
func Default() *Resolver {
	return New(defaultEntries)
}

// Expand finds the entry for term: case-insensitive match on the canonical term first,
// then a scan of every entry's variants. No partial matching.
func (r *Resolver) Expand(term string) (Entry, bool) {
	if term == "" {
		return Entry{}, false
	}
	if i, ok := r.byKey[strings.ToLower(term)]; ok {
		return r.entries[i].clone(), true
	}
	for _, e := range r.entries {
		for _, v := range e.Variants {
			if strings.EqualFold(v, term) {
				return e.clone(), true
			}
		}
	}
	return Entry{}, false
}

// DetectAmbiguousTerms returns the distinct whitespace tokens of s, stripped of surrounding
// punctuation, that resolve to a glossary entry, in order of first appearance. A lowercase
// token that is a stopword ("das") is never treated as a term.
func (r *Resolver) DetectAmbiguousTerms(s string) []string {
	var found []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		tok = strings.TrimFunc(tok, unicode.IsPunct)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		if tok == strings.ToLower(tok) && text.IsStopword(tok) {
			continue
		}
		if _, ok := r.Expand(tok); ok {
			seen[tok] = struct{}{}
			found = append(found, tok)
		}
	}
	return found
}

type splice struct {
	start, end int
	insert     string
}

// ExpandText rewrites the first word-bounded occurrence of each detected term as
// "term (expansion)". Positions are taken from the input, so inserted expansions are
// never scanned again.
func (r *Resolver) ExpandText(s string) string {
	var splices []splice
	for _, term := range r.DetectAmbiguousTerms(s) {
		e, _ := r.Expand(term)
		from := 0
		for {
			i := text.IndexWord(s, term, from)
			if i < 0 {
				break
			}
			end := i + len(term)
			if !overlaps(splices, i, end) {
				splices = append(splices, splice{start: i, end: end, insert: term + " (" + e.Expansion + ")"})
				break
			}
			from = end
		}
	}
	if len(splices) == 0 {
		return s
	}
	sort.Slice(splices, func(a, b int) bool { return splices[a].start < splices[b].start })

	var b strings.Builder
	last := 0
	for _, sp := range splices {
		b.WriteString(s[last:sp.start])
		b.WriteString(sp.insert)
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}

func overlaps(splices []splice, start, end int) bool {
	for _, sp := range splices {
		if start < sp.end && sp.start < end {
			return true
		}
	}
	return false
}

// ContextOf returns the context tag of term, or ContextGeneral when unknown.
func (r *Resolver) ContextOf(term string) string {
	if e, ok := r.Expand(term); ok && e.Context != "" {
		return e.Context
	}
	return ContextGeneral
}

// Entries returns a copy of the table in definition order.
func (r *Resolver) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.clone()
	}
	return out
}

// Stats returns the entry count and the distribution per context tag.
func (r *Resolver) Stats() Stats {
	st := Stats{Total: len(r.entries), ByContext: make(map[string]int)}
	for _, e := range r.entries {
		st.ByContext[e.Context]++
	}
	return st
}
