package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/iajur/internal/domain/glossary"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		keywords []string
		want     []string
	}{
		{
			name:     "all three",
			base:     "Prazo da licença do servidor",
			keywords: []string{"prazo", "licença", "servidor"},
			want: []string{
				"Prazo da licença do servidor",
				"prazo licença servidor",
				"prazo da licença do funcionário",
			},
		},
		{
			name:     "keyword variant capped at five",
			base:     "x",
			keywords: []string{"um1", "dois", "três", "quatro", "cinco", "seis"},
			want:     []string{"x", "um1 dois três quatro cinco"},
		},
		{
			name:     "no keywords no synonym",
			base:     "o que é",
			keywords: nil,
			want:     []string{"o que é"},
		},
		{
			name:     "duplicate collapses",
			base:     "progressão",
			keywords: []string{"progressão"},
			want:     []string{"progressão", "promoção"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Variants(tt.base, tt.base, tt.keywords)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Variants() = %q, want %q", got, tt.want)
			}
			if len(got) > MaxVariants || got[0] != tt.base {
				t.Errorf("variant set must start with base and hold at most %d", MaxVariants)
			}
		})
	}
}

func TestVariants_FirstSynonymWins(t *testing.T) {
	got := Variants("Licença do Servidor", "Licença do Servidor", nil)
	want := []string{"Licença do Servidor", "licença do funcionário"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Variants() = %q, want %q", got, want)
	}
}

func TestAnalyze(t *testing.T) {
	e := NewEngine(glossary.Default())
	a := e.Analyze(Query{Question: "Quem paga a ART do servidor no DNIT?"})

	if !strings.Contains(a.Expanded, "ART (Anotação de Responsabilidade Técnica)") {
		t.Errorf("Expanded = %q", a.Expanded)
	}
	if !reflect.DeepEqual(a.Terms, []string{"ART", "DNIT"}) {
		t.Errorf("Terms = %v", a.Terms)
	}
	if a.Context != "administrativo-jurídico-técnico" {
		t.Errorf("Context = %q", a.Context)
	}
	if a.Type != TypeGeneral {
		t.Errorf("Type = %q", a.Type)
	}
	if len(a.Variants) != 3 || a.Variants[0] != a.Expanded {
		t.Fatalf("Variants = %q", a.Variants)
	}
	if a.Variants[1] != "paga art servidor dnit" {
		t.Errorf("keyword variant = %q", a.Variants[1])
	}
	if !strings.Contains(a.Variants[2], "funcionário") {
		t.Errorf("synonym variant = %q", a.Variants[2])
	}
}

func TestAnalyze_AddendumOnlyInFirstVariant(t *testing.T) {
	e := NewEngine(glossary.Default())
	a := e.Analyze(Query{Question: "E a progressão?", Addendum: "\n\nCONTEXTO: anterior"})
	if !strings.HasSuffix(a.Variants[0], "CONTEXTO: anterior") {
		t.Errorf("first variant lacks addendum: %q", a.Variants[0])
	}
	for _, v := range a.Variants[1:] {
		if strings.Contains(v, "CONTEXTO") {
			t.Errorf("addendum leaked into %q", v)
		}
	}
	if a.Type != TypeProgression {
		t.Errorf("Type = %q", a.Type)
	}
}

func TestAnalyze_GeneralContext(t *testing.T) {
	a := NewEngine(glossary.Default()).Analyze(Query{Question: "prazo de férias"})
	if a.Context != glossary.ContextGeneral {
		t.Errorf("Context = %q", a.Context)
	}
	if a.Type != TypeLeave {
		t.Errorf("Type = %q", a.Type)
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]Type{
		"Como pedir ajuda de custo?":          TypeIndemnity,
		"abono permanência após 2019":         TypeRetirement,
		"Acumulação de cargo de professor":    TypeAccumulation,
		"licença e aposentadoria":             TypeLeave,
		"competência do TCU":                  TypeGeneral,
	}
	for q, want := range tests {
		if got := Classify(q); got != want {
			t.Errorf("Classify(%q) = %q, want %q", q, got, want)
		}
	}
}

func TestQueryOutgoing(t *testing.T) {
	q := Query{Question: "Q?", Addendum: " +ctx"}
	if q.Outgoing() != "Q? +ctx" {
		t.Errorf("Outgoing() = %q", q.Outgoing())
	}
}
