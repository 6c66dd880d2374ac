// Package synthesis defines the structured answer produced by the generation service,
// the evidence prompt that requests it and the strict parser that validates it.
package synthesis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/iajur/internal/domain"
)

// Outcome tags how a synthesis was produced.
type Outcome string

// Outcomes.
const (
	OutcomeParsed     Outcome = "parsed"
	OutcomeMalformed  Outcome = "malformed"
	OutcomeNoEvidence Outcome = "no_evidence"
	OutcomeFailed     Outcome = "failed"
	OutcomeNoResults  Outcome = "no_results"
)

// Section is a titled block of prose.
type Section struct {
	Title   string `json:"titulo"`
	Content string `json:"conteudo"`
}

// LegalTopic is one key legal concept with its technical analysis.
type LegalTopic struct {
	KeyTerm  string `json:"termo_chave"`
	Analysis string `json:"analise_tecnica"`
}

// LegalDetail is the in-depth analysis for legal professionals.
type LegalDetail struct {
	Title  string       `json:"titulo"`
	Topics []LegalTopic `json:"topicos"`
}

// SourceList lists the cited sources.
type SourceList struct {
	Title string   `json:"titulo"`
	Items []string `json:"lista"`
}

// Answer is the schema the generation service must return.
type Answer struct {
	Query      string      `json:"consulta_recebida"`
	Quick      Section     `json:"resposta_imediata"`
	Summary    Section     `json:"resumo_explicativo"`
	Legal      LegalDetail `json:"detalhamento_juridico"`
	Practical  Section     `json:"implicacoes_praticas"`
	Sources    SourceList  `json:"fontes_consultadas"`
	Disclaimer string      `json:"aviso_legal"`
}

// Validate checks that every required field is present.
func (a *Answer) Validate() error {
	var missing []string
	req := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	req("consulta_recebida", a.Query)
	req("resposta_imediata.conteudo", a.Quick.Content)
	req("resumo_explicativo.conteudo", a.Summary.Content)
	req("implicacoes_praticas.conteudo", a.Practical.Content)
	req("aviso_legal", a.Disclaimer)
	if len(a.Legal.Topics) == 0 {
		missing = append(missing, "detalhamento_juridico.topicos")
	}
	for i, t := range a.Legal.Topics {
		req(fmt.Sprintf("detalhamento_juridico.topicos[%d].termo_chave", i), t.KeyTerm)
		req(fmt.Sprintf("detalhamento_juridico.topicos[%d].analise_tecnica", i), t.Analysis)
	}
	if a.Sources.Items == nil {
		missing = append(missing, "fontes_consultadas.lista")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrMalformedOutput, strings.Join(missing, ", "))
	}
	return nil
}

// Text is the plain-text form kept in conversational memory.
func (a *Answer) Text() string {
	return strings.TrimSpace(a.Quick.Content + "\n\n" + a.Summary.Content)
}

// Parse decodes raw generation output into an Answer. A surrounding markdown code fence
// is tolerated; anything else that is not exactly one schema-conforming JSON object is
// rejected with ErrMalformedOutput.
func Parse(raw string) (Answer, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return Answer{}, fmt.Errorf("%w: empty response", domain.ErrMalformedOutput)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	var a Answer
	if err := dec.Decode(&a); err != nil {
		return Answer{}, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}
	if dec.More() {
		return Answer{}, fmt.Errorf("%w: trailing data after object", domain.ErrMalformedOutput)
	}
	if err := a.Validate(); err != nil {
		return Answer{}, err
	}
	return a, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// IsMalformed reports whether err came from schema validation.
func IsMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedOutput)
}
