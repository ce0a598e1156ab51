package property

import "github.com/chazu/trellis/pkg/graph"

// Buffer is a destination for accessor data when the document is written.
type Buffer struct {
	Property
}

func newBuffer(g *graph.Graph, name string) *Buffer {
	b := &Buffer{}
	b.init(g, b, name, graph.Attrs{"uri": graph.Literal("")})
	return b
}

func (b *Buffer) URI() string       { return b.Get("uri").(string) }
func (b *Buffer) SetURI(uri string) { b.Set("uri", uri) }
