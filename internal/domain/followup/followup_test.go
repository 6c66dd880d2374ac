package followup

import (
	"math"
	"testing"

	"github.com/kailas-cloud/iajur/internal/domain/session"
)

func history(pairs ...string) []session.Interaction {
	m := session.New(session.DefaultCapacity)
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Add("s", pairs[i], pairs[i+1])
	}
	return m.Get("s")
}

func TestDetect_EmptyHistory(t *testing.T) {
	for _, q := range []string{"", "E isso?", "Can you explain more about that?", "licença capacitação"} {
		r := Detect(nil, q)
		if r.IsFollowup || r.Score != 0 {
			t.Errorf("Detect(nil, %q) = %+v, want (false, 0)", q, r)
		}
	}
}

func TestDetect_EnglishImplicitReference(t *testing.T) {
	h := history("What is ART?", "ART is the technical responsibility record.")
	r := Detect(h, "Can you explain more about that?")
	if !r.IsFollowup {
		t.Fatalf("expected follow-up, got %+v", r)
	}
	if r.Signals.Implicit <= 0 || r.Signals.Patterns <= 0 {
		t.Errorf("expected implicit and pattern signals, got %+v", r.Signals)
	}
}

func TestDetect_PortugueseFollowup(t *testing.T) {
	h := history("Qual o prazo da licença para capacitação?", "Até 90 dias a cada quinquênio.")
	r := Detect(h, "E como isso se aplica ao estágio probatório?")
	if !r.IsFollowup {
		t.Errorf("expected follow-up, got %+v", r)
	}
}

func TestDetect_KeywordOverlap(t *testing.T) {
	h := history("prazo licença capacitação", "r")
	r := Detect(h, "licença capacitação parcelamento")
	want := overlapWeight * 2.0 / 3.0
	if math.Abs(r.Signals.Overlap-want) > 1e-9 {
		t.Errorf("Overlap = %v, want %v", r.Signals.Overlap, want)
	}
	if r.IsFollowup {
		t.Errorf("overlap alone below the threshold must not trigger: %+v", r)
	}
	if full := Detect(h, "licença capacitação"); !full.IsFollowup {
		t.Errorf("full overlap should trigger: %+v", full)
	}
}

func TestDetect_UnrelatedQuestion(t *testing.T) {
	h := history("Qual o prazo da licença para capacitação?", "r")
	r := Detect(h, "Aposentadoria especial de engenheiro")
	if r.IsFollowup {
		t.Errorf("unrelated question detected as follow-up: %+v", r)
	}
}

func TestDetect_SignalsSaturate(t *testing.T) {
	h := history("x y z", "r")
	r := Detect(h, "e também como qual pode exemplo mais sobre isso isto aquilo antes")
	if r.Signals.Patterns != patternWeight || r.Signals.Implicit != implicitWeight {
		t.Errorf("signals must saturate at their weights: %+v", r.Signals)
	}
	if r.Score < 0 || r.Score > 1 {
		t.Errorf("Score out of [0,1]: %v", r.Score)
	}
}

func TestDetect_WindowIsLastThree(t *testing.T) {
	h := history(
		"aposentadoria especial", "r",
		"q2", "r", "q3", "r", "q4", "r",
	)
	r := Detect(h, "aposentadoria especial")
	if r.Signals.Overlap != 0 {
		t.Errorf("keywords outside the window must not count: %+v", r.Signals)
	}
}

func TestDetect_SubstringIsNotReference(t *testing.T) {
	h := history("q", "r")
	r := Detect(h, "processo eletrônico antecipado")
	if r.Signals.Implicit != 0 {
		t.Errorf("substring matched as reference: %+v", r.Signals)
	}
}
