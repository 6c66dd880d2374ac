// Package relevance partitions aggregated search results into score tiers and topics.
package relevance

import (
	"strings"

	"github.com/kailas-cloud/iajur/internal/domain/search/result"
	"github.com/kailas-cloud/iajur/internal/domain/text"
)

// Tier bounds. Scores below LowThreshold belong to no tier.
const (
	HighThreshold   = 0.6
	MediumThreshold = 0.4
	LowThreshold    = 0.3
)

// Tier is a relevance bucket.
type Tier string

// Tiers.
const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Topic is a subject bucket derived from a result title.
type Topic string

// Topics.
const (
	TopicLeave       Topic = "leave_absence"
	TopicProgression Topic = "career_progression"
	TopicIndemnity   Topic = "indemnity_allowance"
	TopicRetirement  Topic = "retirement_benefits"
	TopicOther       Topic = "other"
)

var topicRules = []struct {
	topic Topic
	terms []string
}{
	{TopicLeave, []string{"licença", "afastamento"}},
	{TopicProgression, []string{"progressão", "promoção"}},
	{TopicIndemnity, []string{"indenização", "auxílio"}},
	{TopicRetirement, []string{"aposentadoria", "abono"}},
}

// Set is the categorized view of a result list. Every counted result sits in exactly
// one tier and one topic.
type Set struct {
	High   []result.Result
	Medium []result.Result
	Low    []result.Result
	Topics map[Topic][]result.Result
	// topicOrder keeps topics in first-seen order for stable output.
	topicOrder []Topic
}

// Distribution is the per-tier count summary.
type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Categorize assigns each result to its tier and topic. Results scoring below
// LowThreshold are dropped and not counted.
func Categorize(results []result.Result) Set {
	s := Set{Topics: make(map[Topic][]result.Result)}
	for _, r := range results {
		tier, ok := TierOf(r.Score())
		if !ok {
			continue
		}
		switch tier {
		case TierHigh:
			s.High = append(s.High, r)
		case TierMedium:
			s.Medium = append(s.Medium, r)
		case TierLow:
			s.Low = append(s.Low, r)
		}
		topic := TopicOf(r.Title())
		if _, seen := s.Topics[topic]; !seen {
			s.topicOrder = append(s.topicOrder, topic)
		}
		s.Topics[topic] = append(s.Topics[topic], r)
	}
	return s
}

// TierOf returns the tier for score, false when the score is below every tier.
func TierOf(score float64) (Tier, bool) {
	switch {
	case score >= HighThreshold:
		return TierHigh, true
	case score >= MediumThreshold:
		return TierMedium, true
	case score >= LowThreshold:
		return TierLow, true
	default:
		return "", false
	}
}

// TopicOf classifies a title; the first matching keyword group wins.
func TopicOf(title string) Topic {
	lower := strings.ToLower(title)
	for _, rule := range topicRules {
		if text.ContainsAny(lower, rule.terms) {
			return rule.topic
		}
	}
	return TopicOther
}

// Total is the number of categorized results.
func (s Set) Total() int {
	return len(s.High) + len(s.Medium) + len(s.Low)
}

// Distribution returns the tier counts.
func (s Set) Distribution() Distribution {
	return Distribution{High: len(s.High), Medium: len(s.Medium), Low: len(s.Low)}
}

// TopicNames returns the covered topics in first-seen order.
func (s Set) TopicNames() []Topic {
	out := make([]Topic, len(s.topicOrder))
	copy(out, s.topicOrder)
	return out
}
