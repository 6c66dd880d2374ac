// Package text holds the tokenization rules shared by the query, follow-up and
// glossary components.
package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeywords caps the number of keywords extracted from one text.
const MaxKeywords = 10

var stopwords = map[string]struct{}{
	"sobre": {}, "acerca": {}, "quanto": {}, "como": {}, "quando": {}, "onde": {},
	"por": {}, "para": {}, "em": {}, "de": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"na": {}, "no": {}, "nas": {}, "nos": {}, "a": {}, "o": {}, "as": {}, "os": {},
	"e": {}, "ou": {}, "mas": {}, "que": {}, "se": {}, "é": {}, "foi": {}, "será": {},
	"pode": {}, "deve": {}, "tem": {}, "há": {}, "sua": {}, "seu": {}, "suas": {}, "seus": {},
	"qual": {}, "quais": {}, "quem": {}, "um": {}, "uma": {}, "uns": {}, "umas": {},
}

// IsStopword reports whether the lowercase token is a legal-domain stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// IsWordRune reports whether r belongs to a word (letter, digit or underscore).
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Normalize lowercases s and replaces every non-word, non-space rune with a space.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if IsWordRune(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
}

// Keywords extracts at most limit significant words from s: lowercased, punctuation
// removed, tokens of two runes or fewer and stopwords dropped. Order follows s and
// duplicates are kept, as they carry weight for variant B.
func Keywords(s string, limit int) []string {
	var out []string
	for _, w := range strings.Fields(Normalize(s)) {
		if utf8.RuneCountInString(w) <= 2 || IsStopword(w) {
			continue
		}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}

// KeywordSet returns the distinct keywords of s.
func KeywordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, k := range Keywords(s, MaxKeywords) {
		set[k] = struct{}{}
	}
	return set
}

// IndexWord returns the byte offset of the first occurrence of word in s at or after from
// that is not part of a longer word, or -1.
func IndexWord(s, word string, from int) int {
	if word == "" {
		return -1
	}
	for from <= len(s) {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(word)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return start
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return -1
}

// ContainsWord reports whether word occurs in s on word boundaries.
func ContainsWord(s, word string) bool {
	return IndexWord(s, word, 0) >= 0
}

// CountWords counts how many of words occur in s on word boundaries.
func CountWords(s string, words []string) int {
	n := 0
	for _, w := range words {
		if ContainsWord(s, w) {
			n++
		}
	}
	return n
}

// ContainsAny reports whether s contains any of subs as a plain substring.
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Truncate cuts s to at most limit runes, appending suffix when it was cut.
func Truncate(s string, limit int, suffix string) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + suffix
		}
		n++
	}
	return s
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !IsWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !IsWordRune(r)
}
