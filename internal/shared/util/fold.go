package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	folder = cases.Fold()
	upper  = cases.Upper(language.English)
)

// Fold returns s trimmed, NFC-normalized and case-folded for comparisons.
func Fold(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Upper returns s in English upper case.
func Upper(s string) string {
	return upper.String(s)
}

// CleanHeader trims whitespace and a leading byte order mark and normalizes to NFC.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(s))
}
