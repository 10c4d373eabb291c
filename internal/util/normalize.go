package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCell returns the canonical form of an operator-entered cell value.
// Sheet cells arrive with mixed Unicode composition (Arabic names entered on
// different platforms), so everything is folded to NFC before any comparison
// against device-side comments.
func NormalizeCell(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// EqualFoldNormalized reports whether two cell values are equal after NFC
// normalization and case folding.
func EqualFoldNormalized(a, b string) bool {
	return strings.EqualFold(NormalizeCell(a), NormalizeCell(b))
}
