package classify

import (
	"strings"
	"unicode"

	"github.com/tabnorm/tabnorm/pkg/models"
)

// NormalizeHeader converts one header token to canonical snake_case:
// existing word separators become underscores, an interior lower-to-upper
// boundary starts a new word, everything is lowercased and repeated
// separators collapse. "TransactionDate" -> "transaction_date",
// "Amount_USD" -> "amount_usd".
func NormalizeHeader(s string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var words []string
	for _, part := range parts {
		words = append(words, splitWords(part)...)
	}
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// NormalizeHeaders canonicalizes a declared header row in order. The result
// is not validated against the required field set; headered statements are
// trusted as-is.
func NormalizeHeaders(header []string) []models.Field {
	fields := make([]models.Field, len(header))
	for i, h := range header {
		fields[i] = models.Field(NormalizeHeader(h))
	}
	return fields
}

// splitWords breaks a token at each uppercase rune that follows a
// non-uppercase rune, so "TransactionDate" splits while "USD" stays whole.
func splitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := 0
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && !unicode.IsUpper(runes[i-1]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}
