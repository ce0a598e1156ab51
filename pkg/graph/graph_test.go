package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/trellis/pkg/graph"
)

// item is a minimal node type exercising every shared attribute shape.
type item struct {
	graph.NodeBase
}

func newItem(g *graph.Graph) *item {
	n := &item{}
	n.Init(g, n, graph.Attrs{
		"name":  graph.Literal(""),
		"x":     graph.Ref(),
		"y":     graph.Ref(),
		"items": graph.RefList(),
		"named": graph.RefMap(),
	})
	return n
}

// holder owns an item under "info".
type holder struct {
	graph.NodeBase
}

func newHolder(g *graph.Graph) *holder {
	n := &holder{}
	n.Init(g, n, graph.Attrs{
		"info": graph.Owned(newItem(g)),
		"x":    graph.Ref(),
	})
	return n
}

func linksTouching(g *graph.Graph, n graph.Node) []*graph.Link {
	var out []*graph.Link
	for _, l := range g.Links() {
		if l.Parent() == n || l.Child() == n {
			out = append(out, l)
		}
	}
	return out
}

func TestLinkNilChildIsNoop(t *testing.T) {
	g := graph.New()
	a := newItem(g)

	l, err := g.Link("x", a, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, l)

	var typedNil *item
	l, err = g.Link("x", a, typedNil, nil)
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.Zero(t, g.LinkCount())
}

func TestLinkRegistersAndDeregisters(t *testing.T) {
	g := graph.New()
	a, b := newItem(g), newItem(g)

	l, err := g.Link("x", a, b, nil)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "x", l.Name())
	assert.Same(t, a, l.Parent())
	assert.Same(t, b, l.Child())
	assert.Equal(t, []*graph.Link{l}, g.Links())

	l.Dispose()
	assert.True(t, l.IsDisposed())
	assert.Empty(t, g.Links())
	assert.Empty(t, g.ListParents(b))
	assert.Empty(t, g.ListChildren(a))
}

func TestLinkDisposeFiresObserversOnce(t *testing.T) {
	g := graph.New()
	a, b := newItem(g), newItem(g)
	l, err := g.Link("x", a, b, nil)
	require.NoError(t, err)

	var calls []string
	l.OnDispose(graph.DisposeFunc(func(*graph.Link) { calls = append(calls, "first") }))
	l.OnDispose(graph.DisposeFunc(func(*graph.Link) { calls = append(calls, "second") }))

	l.Dispose()
	l.Dispose()
	assert.Equal(t, []string{"first", "second"}, calls)

	l.OnDispose(graph.DisposeFunc(func(*graph.Link) { calls = append(calls, "late") }))
	assert.Len(t, calls, 2, "observers registered after disposal never fire")
}

func TestLinksCreationOrder(t *testing.T) {
	g := graph.New()
	a, b, c := newItem(g), newItem(g), newItem(g)

	l1, _ := g.Link("x", a, b, nil)
	l2, _ := g.Link("y", b, c, nil)
	l3, _ := g.Link("x", c, a, nil)
	l2.Dispose()

	assert.Equal(t, []*graph.Link{l1, l3}, g.Links())
}

func TestCrossGraphRejection(t *testing.T) {
	g1, g2 := graph.New(), graph.New()
	a := newItem(g1)
	b := newItem(g2)

	_, err := g1.Link("x", a, b, nil)
	assert.ErrorIs(t, err, graph.ErrCrossGraph)

	err = a.SetRef("x", b, nil)
	assert.ErrorIs(t, err, graph.ErrCrossGraph)
	assert.ErrorIs(t, a.AddRef("items", b, nil), graph.ErrCrossGraph)
	assert.ErrorIs(t, a.SetRefMap("named", "k", b, nil), graph.ErrCrossGraph)

	assert.Empty(t, g1.Links())
	assert.Empty(t, g2.Links())
	assert.Nil(t, a.GetRef("x"))
	assert.False(t, a.CanLink(b))
	assert.True(t, a.CanLink(newItem(g1)))
}

func TestCrossGraphRejectionKeepsPriorRef(t *testing.T) {
	g1, g2 := graph.New(), graph.New()
	a, b := newItem(g1), newItem(g1)
	require.NoError(t, a.SetRef("x", b, nil))

	err := a.SetRef("x", newItem(g2), nil)
	require.ErrorIs(t, err, graph.ErrCrossGraph)
	assert.Same(t, b, a.GetRef("x"))
	assert.Len(t, g1.Links(), 1)
}

func TestListParentsAndChildren(t *testing.T) {
	g := graph.New()
	a, b, c := newItem(g), newItem(g), newItem(g)

	require.NoError(t, a.SetRef("x", c, nil))
	require.NoError(t, a.SetRef("y", c, nil))
	require.NoError(t, b.AddRef("items", c, nil))

	assert.Equal(t, []graph.Node{a, b}, g.ListParents(c), "parents are distinct, first-link order")
	assert.Equal(t, []graph.Node{c}, g.ListChildren(a))
	assert.Len(t, g.ListParentLinks(c), 3)
	assert.Equal(t, []graph.Node{a, b}, c.ListParents())
}

func TestDisconnectParentsFilter(t *testing.T) {
	g := graph.New()
	a, b, c := newItem(g), newItem(g), newItem(g)
	require.NoError(t, a.SetRef("x", c, nil))
	require.NoError(t, b.SetRef("x", c, nil))

	g.DisconnectParents(c, func(p graph.Node) bool { return p == a })

	assert.Nil(t, a.GetRef("x"))
	assert.Same(t, c, b.GetRef("x"))
	assert.Equal(t, []graph.Node{b}, g.ListParents(c))
}

func TestMetadataRoundTrip(t *testing.T) {
	g := graph.New()
	a, b := newItem(g), newItem(g)

	l, err := g.Link("tex", a, b, graph.Metadata{"channels": 0b0111})
	require.NoError(t, err)

	parents := g.ListParentLinks(b)
	require.Len(t, parents, 1)
	assert.Equal(t, graph.Metadata{"channels": 0b0111}, parents[0].Metadata())

	children := g.ListChildLinks(a)
	require.Len(t, children, 1)
	assert.Same(t, l, children[0])
	assert.Equal(t, 0b0111, children[0].Metadata()["channels"])

	l.SetMetadata(graph.Metadata{"channels": 0b0001})
	assert.Equal(t, 0b0001, g.ListParentLinks(b)[0].Metadata()["channels"])
}

func TestSwapChild(t *testing.T) {
	g := graph.New()
	a, b := newItem(g), newItem(g)
	tex, repl := newItem(g), newItem(g)

	require.NoError(t, a.SetRef("x", tex, graph.Metadata{"channels": 3}))
	require.NoError(t, b.SetRef("y", tex, nil))
	before := a.GetRefLink("x")

	require.NoError(t, a.Swap(tex, repl))

	assert.Same(t, repl, a.GetRef("x"))
	assert.Same(t, tex, b.GetRef("y"))
	assert.Same(t, before, a.GetRefLink("x"), "swap keeps link identity")
	assert.Equal(t, 3, a.GetRefLink("x").Metadata()["channels"])
	assert.Equal(t, []graph.Node{a}, g.ListParents(repl))
	assert.Equal(t, []graph.Node{b}, g.ListParents(tex))

	// The slot observer still tracks the swapped link.
	repl.Dispose()
	assert.Nil(t, a.GetRef("x"))
	assert.Same(t, tex, b.GetRef("y"))
}

func TestSwapChildRefListAndMap(t *testing.T) {
	g := graph.New()
	a := newItem(g)
	p1, p2, u := newItem(g), newItem(g), newItem(g)

	require.NoError(t, a.AddRef("items", p1, nil))
	require.NoError(t, a.AddRef("items", p2, nil))
	require.NoError(t, a.SetRefMap("named", "k", p1, nil))

	require.NoError(t, a.Swap(p1, u))
	assert.Equal(t, []graph.Node{u, p2}, a.ListRefs("items"))
	assert.Same(t, u, a.GetRefMap("named", "k"))
	assert.Empty(t, g.ListParents(p1))
}

func TestSwapChildErrors(t *testing.T) {
	g, other := graph.New(), graph.New()
	a, b := newItem(g), newItem(g)
	require.NoError(t, a.SetRef("x", b, nil))

	assert.ErrorIs(t, a.Swap(b, nil), graph.ErrNilNode)
	assert.ErrorIs(t, a.Swap(b, newItem(other)), graph.ErrCrossGraph)
	assert.Same(t, b, a.GetRef("x"))

	// No matching link: nothing happens.
	c := newItem(g)
	require.NoError(t, a.Swap(c, newItem(g)))
	assert.Same(t, b, a.GetRef("x"))
}

func TestSwapSkipsOwnedLinks(t *testing.T) {
	g := graph.New()
	h := newHolder(g)
	info := h.GetRef("info")

	require.NoError(t, h.Swap(info, newItem(g)))
	assert.Same(t, info, h.GetRef("info"))
}

func TestMetadataIsCopied(t *testing.T) {
	g := graph.New()
	a, b := newItem(g), newItem(g)

	meta := graph.Metadata{"channels": 1}
	require.NoError(t, a.SetRef("x", b, meta))
	meta["channels"] = 15
	assert.Equal(t, 1, a.GetRefLink("x").Metadata()["channels"])

	repl := graph.Metadata{"channels": 2}
	a.GetRefLink("x").SetMetadata(repl)
	repl["channels"] = 15
	assert.Equal(t, 2, a.GetRefLink("x").Metadata()["channels"])
}
