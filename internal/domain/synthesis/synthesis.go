package synthesis

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/domain/text"
)

const (
	// MaxEvidence is the number of high-tier documents placed in the prompt.
	MaxEvidence = 5
	// EvidenceChars bounds each document preview in the prompt.
	EvidenceChars = 1500
	// TopSources is the number of sources listed next to an answer.
	TopSources = 3

	// FallbackError is the error label of a malformed or failed synthesis.
	FallbackError = "Erro ao processar resposta JSON"
	// Disclaimer closes every answer.
	Disclaimer = "Atenção: Esta é uma análise baseada nas informações fornecidas e na legislação vigente. " +
		"Não constitui aconselhamento jurídico formal. Para casos concretos, é fundamental consultar " +
		"um advogado ou o setor de recursos humanos do seu órgão."
)

// Synthesis is the well-formed object returned for every question. Exactly one of
// Answer, Message or RawResponse carries the content, depending on Outcome.
type Synthesis struct {
	Outcome Outcome `json:"outcome"`
	*Answer
	Message        string   `json:"message,omitempty"`
	Error          string   `json:"error,omitempty"`
	RawResponse    string   `json:"raw_response,omitempty"`
	ProcessingTime float64  `json:"processing_time"`
	TotalDocuments int      `json:"total_documents"`
	TopSources     []string `json:"principais_fontes"`
}

// Text is the plain-text form of the synthesis kept in conversational memory.
func (s *Synthesis) Text() string {
	switch {
	case s.Answer != nil:
		return s.Answer.Text()
	case s.Message != "":
		return s.Message
	default:
		return s.RawResponse
	}
}

// NoEvidenceMessage is returned when no high-tier document exists.
func NoEvidenceMessage(question string) string {
	return fmt.Sprintf("Nenhum documento altamente relevante encontrado para '%s'.", question)
}

// NoResultsMessage is returned when the search produced nothing at all.
func NoResultsMessage(question string) string {
	return fmt.Sprintf("Nenhum documento encontrado para '%s'.", question)
}

// FailedMessage points the user at the evidence when generation is unavailable.
func FailedMessage(question string, evidence []result.Result) string {
	titles := make([]string, 0, TopSources)
	for i := range evidence {
		if i == TopSources {
			break
		}
		titles = append(titles, evidence[i].Title())
	}
	msg := fmt.Sprintf("Encontrados %d documentos relevantes sobre '%s'. Para resposta específica, consulte os documentos", len(evidence), question)
	if len(titles) == 0 {
		return msg + "."
	}
	return msg + ": " + strings.Join(titles, ", ") + "."
}

// FormatSource renders a source line such as "Nota Técnica 12 (Relevância: 85.0%)".
func FormatSource(r result.Result) string {
	return fmt.Sprintf("%s (Relevância: %s)", r.Title(), Percent(r.Score()))
}

// SourceLines formats the first TopSources results.
func SourceLines(results []result.Result) []string {
	out := make([]string, 0, TopSources)
	for i := range results {
		if i == TopSources {
			break
		}
		out = append(out, FormatSource(results[i]))
	}
	return out
}

// Percent renders a [0,1] score with one decimal, e.g. 0.853 -> "85.3%".
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// BuildPrompt assembles the generation prompt from the question and at most MaxEvidence
// documents, each preview cut to EvidenceChars.
func BuildPrompt(question string, evidence []result.Result) string {
	var docs strings.Builder
	for i := range evidence {
		if i == MaxEvidence {
			break
		}
		r := evidence[i]
		content := r.Content()
		if content == "" {
			content = "Conteúdo não disponível"
		}
		fmt.Fprintf(&docs, "\nDOCUMENTO %d:\nTítulo: %s\nProcesso: %s\nRelevância: %s\nConteúdo: %s\n",
			i+1, r.Title(), r.Meta("numero_processo", "N/A"), Percent(r.Score()),
			text.Truncate(content, EvidenceChars, ""))
	}

	var b strings.Builder
	b.WriteString(promptPersona)
	fmt.Fprintf(&b, "\nPERGUNTA DO USUÁRIO:\n\"%s\"\n\nBASE DE CONHECIMENTO DISPONÍVEL:\n%s\n", question, docs.String())
	b.WriteString(promptRules)
	b.WriteString(promptSchema)
	return b.String()
}

const promptPersona = `# Persona e Objetivo

Você é um Assistente Jurídico Especialista em Direito Administrativo, com foco no regime de servidores públicos federais. Comunique informações jurídicas complexas de forma clara, precisa e acessível para profissionais do direito e para cidadãos leigos.
`

const promptRules = `
# REGRAS CRÍTICAS DE FONTES

Use EXCLUSIVAMENTE as informações e fontes presentes nos documentos acima. NÃO invente, adicione ou mencione fontes que não estejam explicitamente nos documentos fornecidos. Se uma informação não estiver nos documentos, não a inclua na resposta. Cite as notas técnicas pelo número ou título real, nunca como "DOCUMENTO X".

# Regras de Saída

1. Responda APENAS com um objeto JSON, sem texto antes ou depois e sem marcadores de código.
2. Siga exatamente a estrutura abaixo. Todos os campos são obrigatórios.
3. Não use preâmbulo.
`

const promptSchema = `
# Estrutura do JSON

{
  "consulta_recebida": "A pergunta original feita pelo usuário.",
  "resposta_imediata": {
    "titulo": "Resposta Rápida",
    "conteudo": "Resposta direta em 2-3 frases curtas, em linguagem leiga, sem jargões."
  },
  "resumo_explicativo": {
    "titulo": "Entenda o Essencial",
    "conteudo": "Resumo explicativo com os pontos principais e a definição dos termos técnicos essenciais."
  },
  "detalhamento_juridico": {
    "titulo": "Análise Técnica Detalhada",
    "topicos": [
      {
        "termo_chave": "Nome do instituto jurídico principal.",
        "analise_tecnica": "Fundamentação legal presente nos documentos fornecidos, em linguagem técnica."
      }
    ]
  },
  "implicacoes_praticas": {
    "titulo": "O Que Fazer com esta Informação?",
    "conteudo": "O que a informação significa no dia a dia do servidor, com exemplos práticos."
  },
  "fontes_consultadas": {
    "titulo": "Principais Fontes",
    "lista": ["Apenas fontes explicitamente mencionadas nos documentos fornecidos."]
  },
  "aviso_legal": "` + Disclaimer + `"
}

RESPOSTA JSON:`
