// Package export renders tabular datasets. The client's export operations
// know nothing about output formats; they hand denormalized rows to an
// injected formatter that produces a Dataset and to a Renderer that encodes
// it.
package export

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Renderer encodes a dataset into an output format.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
}
