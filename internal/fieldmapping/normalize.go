package fieldmapping

import (
	"strings"
	"unicode"
)

// NormalizeHeader chuẩn hóa header: chữ thường, dấu câu thành khoảng trắng,
// gộp khoảng trắng liên tiếp, trim hai đầu.
func NormalizeHeader(header string) string {
	lower := strings.ToLower(header)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// headerTokens tách header đã chuẩn hóa thành các token.
func headerTokens(normalized string) []string {
	return strings.Fields(normalized)
}
