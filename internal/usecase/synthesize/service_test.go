package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/query"
	"github.com/kailas-cloud/iajur/internal/domain/relevance"
	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/domain/synthesis"
)

// --- Mocks ---

type mockGenerator struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.out, m.err
}

// stepClock advances by one second per call.
func stepClock() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

const validAnswer = `{
  "consulta_recebida": "Quem custeia a ART?",
  "resposta_imediata": {"titulo": "Resposta Rápida", "conteudo": "O contratado custeia a ART."},
  "resumo_explicativo": {"titulo": "Entenda o Essencial", "conteudo": "A ART é obrigatória."},
  "detalhamento_juridico": {"titulo": "Análise", "topicos": [{"termo_chave": "ART", "analise_tecnica": "Lei 6496."}]},
  "implicacoes_praticas": {"titulo": "O Que Fazer", "conteudo": "Exija a ART."},
  "fontes_consultadas": {"titulo": "Principais Fontes", "lista": ["Nota Técnica 12"]},
  "aviso_legal": "Atenção."
}`

func fixture() ([]result.Result, relevance.Set) {
	results := []result.Result{
		result.New("a", "Nota Técnica 12", "custeio da ART", 0.9, nil),
		result.New("b", "Nota Técnica 7", "licença", 0.75, nil),
		result.New("c", "Parecer 3", "aposentadoria", 0.5, nil),
		result.New("d", "Parecer 4", "outros", 0.35, nil),
	}
	return results, relevance.Categorize(results)
}

// --- Tests ---

func TestSynthesize_Parsed(t *testing.T) {
	gen := &mockGenerator{out: validAnswer}
	svc := New(gen, WithClock(stepClock()))
	results, set := fixture()

	got := svc.Synthesize(context.Background(), query.Query{Question: "Quem custeia a ART?"}, results, set)

	if got.Outcome != synthesis.OutcomeParsed {
		t.Fatalf("expected parsed, got %q", got.Outcome)
	}
	if got.Answer == nil || got.Answer.Quick.Content != "O contratado custeia a ART." {
		t.Errorf("unexpected answer: %+v", got.Answer)
	}
	if got.TotalDocuments != 4 {
		t.Errorf("expected 4 documents, got %d", got.TotalDocuments)
	}
	if len(got.TopSources) != 3 || got.TopSources[0] != "Nota Técnica 12 (Relevância: 90.0%)" {
		t.Errorf("unexpected sources: %v", got.TopSources)
	}
	if got.ProcessingTime != 1 {
		t.Errorf("expected 1s processing time, got %v", got.ProcessingTime)
	}
	if got.Error != "" || got.RawResponse != "" {
		t.Errorf("parsed synthesis carries fallback fields: %+v", got)
	}
}

func TestSynthesize_PromptUsesHighTierOnly(t *testing.T) {
	gen := &mockGenerator{out: validAnswer}
	results, set := fixture()

	New(gen).Synthesize(context.Background(), query.Query{Question: "Quem custeia a ART?"}, results, set)

	if !strings.Contains(gen.prompt, "Nota Técnica 12") || !strings.Contains(gen.prompt, "Nota Técnica 7") {
		t.Error("prompt is missing high-tier evidence")
	}
	if strings.Contains(gen.prompt, "Parecer 3") {
		t.Error("prompt contains medium-tier evidence")
	}
	if !strings.Contains(gen.prompt, `"Quem custeia a ART?"`) {
		t.Error("prompt is missing the question")
	}
}

func TestSynthesize_NoEvidenceSkipsGeneration(t *testing.T) {
	gen := &mockGenerator{out: validAnswer}
	results := []result.Result{result.New("c", "Parecer 3", "x", 0.5, nil)}

	got := New(gen).Synthesize(context.Background(), query.Query{Question: "licença?"}, results, relevance.Categorize(results))

	if gen.calls != 0 {
		t.Errorf("expected no generation call, got %d", gen.calls)
	}
	if got.Outcome != synthesis.OutcomeNoEvidence {
		t.Errorf("expected no_evidence, got %q", got.Outcome)
	}
	if got.Message != synthesis.NoEvidenceMessage("licença?") {
		t.Errorf("unexpected message %q", got.Message)
	}
	if got.TotalDocuments != 1 {
		t.Errorf("expected 1 document, got %d", got.TotalDocuments)
	}
}

func TestSynthesize_Malformed(t *testing.T) {
	gen := &mockGenerator{out: "Desculpe, não consigo responder."}
	results, set := fixture()

	got := New(gen, WithClock(stepClock())).Synthesize(context.Background(), query.Query{Question: "q"}, results, set)

	if got.Outcome != synthesis.OutcomeMalformed {
		t.Fatalf("expected malformed, got %q", got.Outcome)
	}
	if got.RawResponse != "Desculpe, não consigo responder." {
		t.Errorf("raw response not preserved: %q", got.RawResponse)
	}
	if got.Error != synthesis.FallbackError {
		t.Errorf("unexpected error label %q", got.Error)
	}
	if got.Answer != nil {
		t.Error("malformed synthesis must not carry an answer")
	}
	if got.TotalDocuments != 4 || got.ProcessingTime != 1 {
		t.Errorf("missing metadata: %+v", got)
	}
}

func TestSynthesize_MissingFieldIsMalformed(t *testing.T) {
	gen := &mockGenerator{out: `{"consulta_recebida": "q"}`}
	results, set := fixture()

	got := New(gen).Synthesize(context.Background(), query.Query{Question: "q"}, results, set)
	if got.Outcome != synthesis.OutcomeMalformed {
		t.Errorf("expected malformed, got %q", got.Outcome)
	}
}

func TestSynthesize_GenerationError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota exceeded")}
	results, set := fixture()

	got := New(gen).Synthesize(context.Background(), query.Query{Question: "custeio"}, results, set)

	if got.Outcome != synthesis.OutcomeFailed {
		t.Fatalf("expected failed, got %q", got.Outcome)
	}
	if got.Error != synthesis.FallbackError {
		t.Errorf("unexpected error label %q", got.Error)
	}
	if !strings.Contains(got.Message, "Nota Técnica 12") {
		t.Errorf("fallback message should name the evidence: %q", got.Message)
	}
	if got.Text() != got.Message {
		t.Error("failed synthesis text should be the message")
	}
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestSynthesize_Timeout(t *testing.T) {
	results, set := fixture()

	got := New(blockingGenerator{}, WithTimeout(10*time.Millisecond)).
		Synthesize(context.Background(), query.Query{Question: "q"}, results, set)
	if got.Outcome != synthesis.OutcomeFailed {
		t.Errorf("expected failed after timeout, got %q", got.Outcome)
	}
}

func TestSynthesize_PromptCarriesContextAddendum(t *testing.T) {
	gen := &mockGenerator{out: validAnswer}
	results, set := fixture()
	q := query.Query{
		Question: "Pode explicar melhor?",
		Addendum: "\n\nCONTEXTO DAS CONVERSAS ANTERIORES:\nPergunta anterior: Quem custeia a ART?",
	}

	New(gen).Synthesize(context.Background(), q, results, set)

	if !strings.Contains(gen.prompt, "Pergunta anterior: Quem custeia a ART?") {
		t.Error("prompt is missing the prior context")
	}
	if !strings.Contains(gen.prompt, "Pode explicar melhor?") {
		t.Error("prompt is missing the question")
	}
}

func TestSynthesize_FallbackMessageOmitsAddendum(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota exceeded")}
	results, set := fixture()
	q := query.Query{Question: "custeio", Addendum: "\n\nCONTEXTO DAS CONVERSAS ANTERIORES:\n"}

	got := New(gen).Synthesize(context.Background(), q, results, set)

	if got.Message != synthesis.FailedMessage("custeio", set.High) {
		t.Errorf("unexpected message %q", got.Message)
	}
}

type panickingGenerator struct{}

func (panickingGenerator) Generate(context.Context, string) (string, error) {
	panic("nil response body")
}

func TestSynthesize_GeneratorPanicFallsBack(t *testing.T) {
	results, set := fixture()

	got := New(panickingGenerator{}).Synthesize(context.Background(), query.Query{Question: "q"}, results, set)

	if got.Outcome != synthesis.OutcomeFailed {
		t.Fatalf("expected failed, got %q", got.Outcome)
	}
	if got.Error != synthesis.FallbackError {
		t.Errorf("unexpected error label %q", got.Error)
	}
}

func TestGenerate_PanicWrapsGenerationFailed(t *testing.T) {
	_, err := New(panickingGenerator{}).generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}
