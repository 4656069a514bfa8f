package dbexec

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotReadOnly = errors.New("only read-only SELECT/WITH statements are allowed")

// IsReadOnly accepts only statements that start with SELECT or WITH. The
// prompt-level restriction is not authoritative; this check is the boundary.
func IsReadOnly(sqlText string) bool {
	normalized := strings.ToLower(strings.TrimSpace(sqlText))
	if normalized == "" {
		return false
	}
	return strings.HasPrefix(normalized, "select") || strings.HasPrefix(normalized, "with")
}

// StripTerminators removes trailing statement terminators so the statement
// can be wrapped or extended safely.
func StripTerminators(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}

// ApplyRowLimit caps the result set by wrapping the statement in an outer
// LIMIT. Inner limits still apply; the wrap only tightens.
func ApplyRowLimit(sqlText string, limit int) string {
	if limit <= 0 {
		return sqlText
	}
	return fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d", sqlText, limit)
}
