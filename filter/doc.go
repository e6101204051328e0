// Package filter describes filtered, sorted, paginated queries in a
// storage-agnostic way and compiles them into parameterized PostgreSQL
// statements. Values are always bound through positional placeholders and
// never interpolated into the statement text.
//
// Column names are interpolated, so they are restricted to plain
// identifiers and can additionally be allowlisted per Compiler.
package filter
