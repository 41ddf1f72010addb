package tabular

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var cleanReplacer = strings.NewReplacer(
	"R$", "",
	"r$", "",
	"%", "",
	"\u00a0", "",
	" ", "",
)

// CoerceFloat parses a locale-formatted numeric cell. Currency markers,
// percent signs and (non-breaking) spaces are stripped; when both comma and
// dot are present the dot is treated as thousands separator, otherwise the
// comma is the decimal point. Returns nil for blank or unparsable values.
func CoerceFloat(value string) *float64 {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	text = cleanReplacer.Replace(text)

	if strings.Contains(text, ",") && strings.Contains(text, ".") {
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
	} else {
		text = strings.ReplaceAll(text, ",", ".")
	}

	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

var headerReplacer = strings.NewReplacer("%", "", "-", " ", "/", " ")

// NormalizeHeader lowers a header to an accent-free snake_case token so it
// can be compared regardless of how the source file spells it.
func NormalizeHeader(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}

	chain := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	if stripped, _, err := transform.String(chain, text); err == nil {
		text = stripped
	}

	text = headerReplacer.Replace(strings.ToLower(text))
	return strings.Join(strings.Fields(text), "_")
}
