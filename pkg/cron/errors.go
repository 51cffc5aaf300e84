package cron

import (
	"fmt"
	"strings"
)

// ErrInvalidExpression reports a cron expression that fails basic
// structural validation (wrong field count, or a field that does not
// parse). Matches itself never returns this — it resolves malformed
// expressions to "no match" — while Validate reports it to callers that
// want to reject an expression up front.
func ErrInvalidExpression(expr string) error {
	return fmt.Errorf("invalid cron expression: %q", expr)
}

// Validate checks that expr is a well-formed 5-field cron expression.
func Validate(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return ErrInvalidExpression(expr)
	}
	for i, field := range fields {
		if _, ok := parseField(field, fieldRanges[i]); !ok {
			return ErrInvalidExpression(expr)
		}
	}
	return nil
}
