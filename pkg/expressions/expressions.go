// Package expressions deals with the ${{ ... }} expression syntax of
// workflow files. Expression values are only known at run time, so the
// scanner recognizes them instead of evaluating them.
package expressions

import "strings"

const (
	exprOpen  = "${{"
	exprClose = "}}"
)

// FromCurly reports whether the whole value is a single ${{ ... }} delimited
// expression and returns the inner expression text. Values that merely
// contain an expression somewhere inside do not match.
func FromCurly(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, exprOpen) || !strings.HasSuffix(v, exprClose) {
		return "", false
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(v, exprOpen), exprClose)
	// A nested closing delimiter would mean the value continues past the
	// first expression, e.g. "${{ a }}-${{ b }}".
	if strings.Contains(inner, exprClose) {
		return "", false
	}

	return strings.TrimSpace(inner), true
}

// IsExpression reports whether the whole value is an unresolved expression.
func IsExpression(value string) bool {
	_, ok := FromCurly(value)
	return ok
}
