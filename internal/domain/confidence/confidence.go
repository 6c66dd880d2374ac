// Package confidence scores a categorized result set and derives advisory
// recommendations from it. Everything here is pure.
package confidence

import "github.com/kailas-cloud/iajur/internal/domain/relevance"

// Advisory strings.
const (
	AdviceHigh     = "✅ Alta confiança nos resultados encontrados"
	AdviceModerate = "⚠️ Confiança moderada - considere refinar a busca"
	AdviceLow      = "❌ Baixa confiança - recomenda-se busca manual adicional"

	AdviceRobustSources = "📚 Fontes suficientes para análise robusta"
	AdviceBasicSources  = "📖 Fontes adequadas para análise básica"
	AdviceFewSources    = "🔍 Poucas fontes relevantes - ampliar busca"

	AdviceMultiTopic = "🎯 Consulta abrange múltiplos aspectos do tema"
)

// Score returns 100 * high/total clamped to [0,100], or 0 for an empty set.
func Score(high, total int) float64 {
	if total <= 0 || high <= 0 {
		return 0
	}
	c := 100 * float64(high) / float64(total)
	if c > 100 {
		return 100
	}
	return c
}

// Of scores a categorized set.
func Of(s relevance.Set) float64 {
	return Score(len(s.High), s.Total())
}

// Recommendations returns the ordered advisories for a confidence value, the high-tier
// count and the number of covered topics.
func Recommendations(confidence float64, high, topics int) []string {
	recs := make([]string, 0, 3)
	switch {
	case confidence >= 80:
		recs = append(recs, AdviceHigh)
	case confidence >= 60:
		recs = append(recs, AdviceModerate)
	default:
		recs = append(recs, AdviceLow)
	}

	switch {
	case high >= 5:
		recs = append(recs, AdviceRobustSources)
	case high >= 2:
		recs = append(recs, AdviceBasicSources)
	default:
		recs = append(recs, AdviceFewSources)
	}

	if topics >= 3 {
		recs = append(recs, AdviceMultiTopic)
	}
	return recs
}

// Report bundles the confidence and its advisories for a set.
type Report struct {
	Confidence      float64                `json:"confidence"`
	Distribution    relevance.Distribution `json:"relevance_distribution"`
	Topics          []relevance.Topic      `json:"topics_covered"`
	Recommendations []string               `json:"recommendations"`
}

// Assess builds the report for s.
func Assess(s relevance.Set) Report {
	c := Of(s)
	topics := s.TopicNames()
	return Report{
		Confidence:      c,
		Distribution:    s.Distribution(),
		Topics:          topics,
		Recommendations: Recommendations(c, len(s.High), len(topics)),
	}
}
