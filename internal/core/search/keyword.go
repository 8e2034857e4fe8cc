package search

import (
	"strings"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
)

// Tokenize splits a keyword on runs of ASCII or ideographic spaces. Other whitespace is
// part of a token.
func Tokenize(keyword string) []string {
	fields := strings.FieldsFunc(keyword, isKeywordSeparator)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := foldText(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func isKeywordSeparator(r rune) bool {
	return r == ' ' || r == '\u3000'
}

// foldText lowercases only; character widths are compared as written.
func foldText(s string) string {
	return strings.ToLower(s)
}

// keywordHaystack is the folded text a keyword token may appear in.
func keywordHaystack(p domain.Property) []string {
	fields := []string{
		p.Title,
		p.Address,
		strings.Join(p.CuisineTypes, " "),
		strings.Join(p.Regions, " "),
	}
	if v, ok := p.DetailValue(FormerBusinessLabel); ok {
		fields = append(fields, v)
	}
	for i := range fields {
		fields[i] = foldText(fields[i])
	}
	return fields
}

// MatchesKeyword requires every token to occur in at least one scanned field.
func MatchesKeyword(p domain.Property, keyword string) bool {
	tokens := Tokenize(keyword)
	if len(tokens) == 0 {
		return true
	}
	haystack := keywordHaystack(p)
	for _, token := range tokens {
		found := false
		for _, field := range haystack {
			if strings.Contains(field, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
