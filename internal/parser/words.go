package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// countWords splits text into words and counts them.
// cases.Caser is not safe for concurrent use, so one is made per call.
func (p *Parser) countWords(text string) map[string]int {
	lower := cases.Lower(language.Und)
	counts := make(map[string]int)

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.Is(unicode.Mn, r)
	})

	for _, field := range fields {
		word := lower.String(norm.NFC.String(field))
		if word == "" || p.isIgnoredWord(word) {
			continue
		}
		counts[word]++
	}

	return counts
}

// isIgnoredWord reports whether word fully matches an ignored word pattern.
func (p *Parser) isIgnoredWord(word string) bool {
	for _, re := range p.ignoredWords {
		if re.MatchString(word) {
			return true
		}
	}
	return false
}
