package docmill

import "time"

// PageDocument is a fully processed documentation page. It is owned
// exclusively by the worker processing its URL; ownership transfers to
// the PageStore on write and the document is never mutated afterwards.
type PageDocument struct {
	SourceURL   string
	Title       string
	MainContent string // post-filter markup
	TOC         []*TOCEntry
	Markdown    string
	ContentHash string
	FetchedAt   time.Time
}
