// Package followup decides whether a question continues the recent exchanges of a
// session, using a graded score over three lexical signals.
package followup

import (
	"strings"

	"github.com/kailas-cloud/iajur/internal/domain/session"
	"github.com/kailas-cloud/iajur/internal/domain/text"
)

const (
	// Threshold is the minimum score of a follow-up.
	Threshold = 0.3
	// HistoryWindow is the number of recent interactions compared against.
	HistoryWindow = 3

	patternWeight  = 0.4
	overlapWeight  = 0.4
	implicitWeight = 0.2

	patternSaturation  = 3
	implicitSaturation = 2
)

// patternGroups are connector and reference cues. A group counts once when any of its
// phrases occurs on word boundaries.
var patternGroups = [][]string{
	{"e", "mas", "porém", "contudo", "entretanto", "no entanto", "and", "but", "however"},
	{"também", "além disso", "adicionalmente", "outro", "outra", "also", "another", "additionally"},
	{"como", "quando", "onde", "por que", "porque", "how", "when", "where", "why"},
	{"qual", "quais", "quem", "o que", "que", "what", "which", "who"},
	{"pode", "deve", "é possível", "é permitido", "can", "could", "should", "may"},
	{"exemplo", "exemplos", "caso", "casos", "example", "examples", "case"},
	{"detalhe", "detalhes", "mais", "maior", "menor", "detail", "details", "more"},
	{"sobre", "acerca", "relativo", "relacionado", "about", "regarding"},
}

// implicitRefs are demonstrative and anaphoric terms; each distinct one counts once.
var implicitRefs = []string{
	"isso", "isto", "aquilo", "ele", "ela", "eles", "elas",
	"o mesmo", "a mesma", "os mesmos", "as mesmas",
	"anterior", "anteriormente", "antes", "depois",
	"that", "this", "it", "those", "these", "same", "previous", "previously", "before", "earlier",
}

// Signals breaks a score into its weighted contributions.
type Signals struct {
	Patterns float64 `json:"patterns"`
	Overlap  float64 `json:"keyword_overlap"`
	Implicit float64 `json:"implicit_reference"`
}

// Result is a follow-up decision.
type Result struct {
	IsFollowup bool    `json:"is_followup"`
	Score      float64 `json:"score"`
	Signals    Signals `json:"signals"`
}

// Detect scores query against history (oldest first). Only the last HistoryWindow
// interactions are considered. Empty history is never a follow-up.
func Detect(history []session.Interaction, query string) Result {
	if len(history) == 0 {
		return Result{}
	}
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	lower := strings.ToLower(query)

	var sig Signals
	matched := 0
	for _, group := range patternGroups {
		if text.CountWords(lower, group) > 0 {
			matched++
		}
	}
	sig.Patterns = patternWeight * min(float64(matched)/patternSaturation, 1)

	if newKw := text.KeywordSet(query); len(newKw) > 0 {
		recent := make(map[string]struct{})
		for _, in := range history {
			for _, k := range in.Keywords() {
				recent[k] = struct{}{}
			}
		}
		overlap := 0
		for k := range newKw {
			if _, ok := recent[k]; ok {
				overlap++
			}
		}
		sig.Overlap = overlapWeight * float64(overlap) / float64(len(newKw))
	}

	refs := text.CountWords(lower, implicitRefs)
	sig.Implicit = implicitWeight * min(float64(refs)/implicitSaturation, 1)

	score := sig.Patterns + sig.Overlap + sig.Implicit
	return Result{IsFollowup: score >= Threshold, Score: score, Signals: sig}
}
