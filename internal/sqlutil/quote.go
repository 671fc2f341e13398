// Package sqlutil provides helpers for building SQL against configurable tables.
package sqlutil

import (
	"regexp"
	"strings"
)

// tableNamePattern restricts configured table names to plain identifiers.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// InvalidTableError is returned for table names that cannot be quoted safely.
type InvalidTableError struct {
	Name string
}

func (e *InvalidTableError) Error() string {
	return "invalid table name " + strings.TrimSpace(e.Name) + ": only letters, digits and underscores are allowed"
}

// QuoteIdentifier wraps name in backticks, doubling embedded backticks.
// Both MySQL and SQLite accept backtick quoting.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteTable validates and quotes a configured table name.
func QuoteTable(name string) (string, error) {
	if !tableNamePattern.MatchString(name) {
		return "", &InvalidTableError{Name: name}
	}
	return QuoteIdentifier(name), nil
}
