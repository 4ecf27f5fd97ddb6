package utils

import "strings"

// EscapeLike escapes LIKE metacharacters so user input matches literally
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// ContainsPattern builds a LIKE/ILIKE argument matching s anywhere
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
