package openapi

import (
	"regexp"
	"strings"
)

var wordSeparators = regexp.MustCompile(`[_\-\s:/{}]+`)

// splitWords breaks a property or operation name into lowercase words,
// honoring underscores, dashes, path separators, and camelCase boundaries.
func splitWords(name string) []string {
	var words []string
	for _, chunk := range wordSeparators.Split(name, -1) {
		if chunk == "" {
			continue
		}
		for _, word := range strings.Fields(splitCamel(chunk)) {
			words = append(words, strings.ToLower(word))
		}
	}
	return words
}

// labelFor derives a human-friendly label: "passportNumber" and
// "passport_number" both become "Passport Number".
func labelFor(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// kebabCase derives a field or form identifier: "passportNumber" becomes
// "passport-number".
func kebabCase(name string) string {
	return strings.Join(splitWords(name), "-")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isCamelBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isCamelBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
