package filter

import (
	"strconv"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithPlaceholder is an option to replace the placeholder syntax of the
// generated SQL. The function receives the 1-based parameter index and
// returns the placeholder text. The default is PostgreSQL's $1, $2, ...
//
// Example for MySQL-style placeholders:
//
//	c := filter.NewCompiler(filter.WithPlaceholder(func(int) string { return "?" }))
func WithPlaceholder(f func(index int) string) Option {
	return func(c *Compiler) {
		c.placeholder = f
	}
}

// WithAllowColumns is an option to allow only the specified columns in
// conditions and sort orders. Without it all columns are allowed and
// column names are the caller's responsibility.
func WithAllowColumns(columns ...string) Option {
	return func(c *Compiler) {
		c.allowedColumns = append(c.allowedColumns, columns...)
	}
}

// WithDisallowColumns is an option to disallow the specified columns in
// conditions and sort orders.
func WithDisallowColumns(columns ...string) Option {
	return func(c *Compiler) {
		c.disallowedColumns = append(c.disallowedColumns, columns...)
	}
}

func postgresPlaceholder(index int) string {
	return "$" + strconv.Itoa(index)
}
