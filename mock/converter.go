package mock

import "github.com/docmill/docmill"

var _ docmill.Converter = (*Converter)(nil)

// Converter is a mock implementation of docmill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
