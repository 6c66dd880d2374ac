// Package quality grades a finished search: how relevant the results are, whether the
// glossary expansion matched the context of the documents found, and what the user
// could do to refine the question.
package quality

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/iajur/internal/domain/glossary"
	"github.com/kailas-cloud/iajur/internal/domain/search/result"
)

// Overall relevance labels.
const (
	RelevanceHigh   = "alta"
	RelevanceMedium = "média"
	RelevanceLow    = "baixa"
)

// Classification labels.
const (
	ClassExcellent = "excelente"
	ClassGood      = "boa"
	ClassFair      = "regular"
	ClassPoor      = "baixa"
)

const (
	relevantScore = 0.7
	partialScore  = 0.5
	manyResults   = 50
)

// Suggestions.
const (
	SuggestExpand        = "Considerar expandir a query com termos mais específicos"
	SuggestCheckTerms    = "Verificar se os termos de busca estão corretos"
	SuggestPrecision     = "Refinar os critérios de busca para melhorar a precisão"
	SuggestContext       = "Especificar melhor o contexto da consulta"
	SuggestSpecificTerms = "Usar termos mais específicos para evitar ambiguidade"
	SuggestBroaden       = "Ampliar os critérios de busca"
	SuggestCheckSpelling = "Verificar se os termos estão corretos"
	SuggestNarrow        = "Refinar a busca para obter resultados mais específicos"
)

// contentCues classify a document by the first cue group found in its content.
var contentCues = []struct {
	context string
	words   []string
}{
	{glossary.ContextLegal, []string{"jurídico", "legal", "processo", "decisão"}},
	{"técnico", []string{"técnico", "engenharia", "projeto", "obra"}},
	{glossary.ContextAdministrative, []string{"administrativo", "servidor", "cargo", "funcionário"}},
}

// Relevance counts results per score band.
type Relevance struct {
	Overall      string  `json:"overall"`
	Relevant     int     `json:"relevant"`
	Partial      int     `json:"partially_relevant"`
	Irrelevant   int     `json:"irrelevant"`
	AverageScore float64 `json:"average_score"`
}

// Problem is a detected term whose glossary context disagrees with the documents found.
type Problem struct {
	Term     string `json:"term"`
	Expected string `json:"expected_context"`
	Found    string `json:"found_context"`
}

// Ambiguity reports whether the glossary expansion resolved the detected terms.
type Ambiguity struct {
	Detected           bool      `json:"detected"`
	Resolved           bool      `json:"resolved"`
	Expanded           bool      `json:"query_expanded"`
	PredominantContext string    `json:"predominant_context"`
	Problems           []Problem `json:"problems"`
}

// Report is the full post-search assessment.
type Report struct {
	TotalResults   int       `json:"total_results"`
	Relevance      Relevance `json:"relevance"`
	Ambiguity      Ambiguity `json:"ambiguity"`
	Suggestions    []string  `json:"suggestions"`
	Score          float64   `json:"quality_score"`
	RelevanceRate  float64   `json:"relevance_rate"`
	Classification string    `json:"classification"`
}

// Input is what the assessment needs from the query side.
type Input struct {
	Original string
	Expanded string
	Terms    []string
}

// Assess grades results for the query described by in.
func Assess(resolver *glossary.Resolver, in Input, results []result.Result) Report {
	rel := assessRelevance(results)
	amb := assessAmbiguity(resolver, in, results)
	rep := Report{
		TotalResults: len(results),
		Relevance:    rel,
		Ambiguity:    amb,
		Suggestions:  suggestions(len(results), rel, amb),
	}
	if len(results) > 0 {
		rep.RelevanceRate = float64(rel.Relevant) / float64(len(results))
	}
	rep.Score = score(len(results), rel, amb)
	rep.Classification = Classify(rep.Score)
	return rep
}

func assessRelevance(results []result.Result) Relevance {
	rel := Relevance{Overall: RelevanceLow}
	if len(results) == 0 {
		return rel
	}
	var sum float64
	for i := range results {
		s := results[i].Score()
		sum += s
		switch {
		case s >= relevantScore:
			rel.Relevant++
		case s >= partialScore:
			rel.Partial++
		default:
			rel.Irrelevant++
		}
	}
	n := float64(len(results))
	rel.AverageScore = sum / n
	switch {
	case float64(rel.Relevant) > 0.6*n:
		rel.Overall = RelevanceHigh
	case float64(rel.Relevant) > 0.3*n:
		rel.Overall = RelevanceMedium
	}
	return rel
}

func assessAmbiguity(resolver *glossary.Resolver, in Input, results []result.Result) Ambiguity {
	amb := Ambiguity{
		Detected:           len(in.Terms) > 0,
		Expanded:           in.Original != in.Expanded,
		PredominantContext: PredominantContext(results),
		Problems:           []Problem{},
	}
	if !amb.Detected {
		amb.Resolved = true
		return amb
	}
	if amb.PredominantContext != glossary.ContextGeneral {
		for _, term := range in.Terms {
			tag := resolver.ContextOf(term)
			if !hasContext(tag, amb.PredominantContext) {
				amb.Problems = append(amb.Problems, Problem{Term: term, Expected: tag, Found: amb.PredominantContext})
			}
		}
	}
	amb.Resolved = len(amb.Problems) == 0 && amb.Expanded
	return amb
}

// PredominantContext returns the most frequent content context among results, ties
// going to the context seen first, or "geral" when no result carries a cue.
func PredominantContext(results []result.Result) string {
	counts := make(map[string]int)
	var order []string
	for i := range results {
		c, ok := contentContext(results[i].Content())
		if !ok {
			continue
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	best := glossary.ContextGeneral
	bestN := 0
	for _, c := range order {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}

func contentContext(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, cue := range contentCues {
		for _, w := range cue.words {
			if strings.Contains(lower, w) {
				return cue.context, true
			}
		}
	}
	return "", false
}

// hasContext reports whether a compound tag such as "jurídico-técnico" includes ctx.
func hasContext(tag, ctx string) bool {
	for _, part := range strings.Split(tag, "-") {
		if part == ctx {
			return true
		}
	}
	return false
}

func suggestions(total int, rel Relevance, amb Ambiguity) []string {
	out := []string{}
	if rel.Overall == RelevanceLow {
		out = append(out, SuggestExpand, SuggestCheckTerms)
	}
	if float64(rel.Irrelevant) > 0.5*float64(total) {
		out = append(out, SuggestPrecision)
	}
	if !amb.Resolved {
		out = append(out, SuggestContext, SuggestSpecificTerms)
	}
	for _, p := range amb.Problems {
		out = append(out, fmt.Sprintf("Especificar contexto para '%s' (%s)", p.Term, p.Expected))
	}
	switch {
	case total == 0:
		out = append(out, SuggestBroaden, SuggestCheckSpelling)
	case total > manyResults:
		out = append(out, SuggestNarrow)
	}
	return out
}

func score(total int, rel Relevance, amb Ambiguity) float64 {
	var s float64
	switch rel.Overall {
	case RelevanceHigh:
		s += 0.4
	case RelevanceMedium:
		s += 0.2
	}
	if amb.Resolved {
		s += 0.3
	}
	switch {
	case total >= 5 && total <= 30:
		s += 0.3
	case total >= 1 && total <= manyResults:
		s += 0.15
	}
	return s
}

// Classify maps a quality score to its label.
func Classify(score float64) string {
	switch {
	case score >= 0.8:
		return ClassExcellent
	case score >= 0.6:
		return ClassGood
	case score >= 0.4:
		return ClassFair
	default:
		return ClassPoor
	}
}
