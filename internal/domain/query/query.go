// Package query turns a raw legal question into the bounded set of search variants and
// a lightweight analysis (detected terms, context, query type).
package query

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/iajur/internal/domain/glossary"
	"github.com/kailas-cloud/iajur/internal/domain/text"
)

const (
	// MaxVariants bounds the variant set of one query.
	MaxVariants = 3
	// keywordVariantSize is the number of keywords joined into the keyword variant.
	keywordVariantSize = 5
)

// Type classifies the subject of a question.
type Type string

// Query types.
const (
	TypeLeave        Type = "licenças_afastamentos"
	TypeProgression  Type = "progressao_funcional"
	TypeIndemnity    Type = "indenizacoes_auxilios"
	TypeRetirement   Type = "aposentadoria_pensao"
	TypeAccumulation Type = "acumulacao_cargos"
	TypeGeneral      Type = "consulta_geral"
)

var typeRules = []struct {
	typ   Type
	terms []string
}{
	{TypeLeave, []string{"licença", "férias", "afastamento"}},
	{TypeProgression, []string{"progressão", "promoção", "evolução"}},
	{TypeIndemnity, []string{"indenização", "auxílio", "ajuda de custo"}},
	{TypeRetirement, []string{"aposentadoria", "abono permanência"}},
	{TypeAccumulation, []string{"acumulação", "cargo", "função"}},
}

// synonyms is ordered: the first source term found in the query wins.
var synonyms = []struct{ from, to string }{
	{"servidor", "funcionário"},
	{"licença", "afastamento"},
	{"indenização", "auxílio"},
	{"progressão", "promoção"},
}

var contextCues = []struct {
	context string
	words   []string
}{
	{glossary.ContextLegal, []string{"precedente", "jurisprudência", "decisão", "acórdão"}},
	{"técnico", []string{"técnico", "engenharia", "projeto", "obra"}},
	{glossary.ContextAdministrative, []string{"servidor", "cargo", "funcionário", "administração"}},
}

// Query is a user question with an optional prior-context addendum.
type Query struct {
	Question string
	Addendum string
}

// Outgoing returns the text sent downstream: the question followed by the addendum.
func (q Query) Outgoing() string {
	return q.Question + q.Addendum
}

// Analysis is the pre-search view of a query.
type Analysis struct {
	Original string   `json:"original"`
	Expanded string   `json:"expanded"`
	Terms    []string `json:"ambiguous_terms"`
	Keywords []string `json:"keywords"`
	Context  string   `json:"context"`
	Type     Type     `json:"type"`
	Variants []string `json:"variants"`
}

// Engine builds query variants using a glossary resolver.
type Engine struct {
	resolver *glossary.Resolver
}

// NewEngine creates an expansion engine.
func NewEngine(resolver *glossary.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// Analyze expands the glossary terms of the question and derives the variant set.
// Variant A is the expanded question plus addendum, variant B the top keywords of the
// question, variant C the lowercase expanded question with one synonym substituted.
func (e *Engine) Analyze(q Query) Analysis {
	terms := e.resolver.DetectAmbiguousTerms(q.Question)
	expanded := e.resolver.ExpandText(q.Question)
	keywords := text.Keywords(q.Question, text.MaxKeywords)

	return Analysis{
		Original: q.Question,
		Expanded: expanded,
		Terms:    terms,
		Keywords: keywords,
		Context:  e.context(q.Question, terms),
		Type:     Classify(q.Question),
		Variants: Variants(expanded+q.Addendum, expanded, keywords),
	}
}

// Variants assembles the deduplicated, capped variant list. base is always first.
func Variants(base, synonymSource string, keywords []string) []string {
	candidates := []string{base}
	if len(keywords) > 0 {
		n := min(len(keywords), keywordVariantSize)
		candidates = append(candidates, strings.Join(keywords[:n], " "))
	}
	if v, ok := substituteSynonym(synonymSource); ok {
		candidates = append(candidates, v)
	}

	out := make([]string, 0, MaxVariants)
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == MaxVariants {
			break
		}
	}
	return out
}

func substituteSynonym(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, syn := range synonyms {
		if strings.Contains(lower, syn.from) {
			return strings.ReplaceAll(lower, syn.from, syn.to), true
		}
	}
	return "", false
}

// Classify assigns a query type from subject keywords; first matching rule wins.
func Classify(question string) Type {
	lower := strings.ToLower(question)
	for _, rule := range typeRules {
		if text.ContainsAny(lower, rule.terms) {
			return rule.typ
		}
	}
	return TypeGeneral
}

func (e *Engine) context(question string, terms []string) string {
	set := make(map[string]struct{})
	for _, t := range terms {
		set[e.resolver.ContextOf(t)] = struct{}{}
	}
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text.Normalize(question)) {
		words[w] = struct{}{}
	}
	for _, cue := range contextCues {
		for _, w := range cue.words {
			if _, ok := words[w]; ok {
				set[cue.context] = struct{}{}
				break
			}
		}
	}
	if len(set) == 0 {
		return glossary.ContextGeneral
	}
	contexts := make([]string, 0, len(set))
	for c := range set {
		contexts = append(contexts, c)
	}
	sort.Strings(contexts)
	return strings.Join(contexts, "-")
}
