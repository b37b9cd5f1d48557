package format

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiReplacer = strings.NewReplacer("đ", "d", "Đ", "D", "₫", "VND")

// ASCII strips Vietnamese diacritics for outputs limited to Latin-1 core fonts,
// e.g. "Quận 1" -> "Quan 1".
func ASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, asciiReplacer.Replace(s))
	if err != nil {
		return s
	}
	return out
}
