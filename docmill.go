// Package docmill turns web documentation into structured Markdown.
// It crawls documentation sites recursively with scope and rate control,
// strips boilerplate, extracts hierarchical tables of contents, and
// writes per-page Markdown artifacts plus an append-only URL ledger.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// htmltomarkdown/, sqlite/).
package docmill
