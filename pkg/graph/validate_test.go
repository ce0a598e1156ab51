package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vnode struct {
	NodeBase
}

func newVNode(g *Graph) *vnode {
	n := &vnode{}
	n.Init(g, n, Attrs{"x": Ref(), "xs": RefList()})
	return n
}

func TestValidateClean(t *testing.T) {
	g := New()
	a, b := newVNode(g), newVNode(g)
	require.NoError(t, a.SetRef("x", b, nil))
	require.NoError(t, b.AddRef("xs", a, nil))

	assert.Empty(t, Validate(g))
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name     string
		corrupt  func(g *Graph, l *Link)
		severity ValidationSeverity
		contains string
	}{
		{
			name:     "disposed link left in registry",
			corrupt:  func(g *Graph, l *Link) { l.disposed = true },
			severity: SeverityError,
			contains: "disposed link still registered",
		},
		{
			name: "missing from inbound index",
			corrupt: func(g *Graph, l *Link) {
				delete(g.inbound, l.child.base())
			},
			severity: SeverityError,
			contains: "indexed 0 times in inbound index",
		},
		{
			name: "unregistered link in outbound index",
			corrupt: func(g *Graph, l *Link) {
				delete(g.links, l)
			},
			severity: SeverityError,
			contains: "outbound index holds an unregistered link",
		},
		{
			name: "disposed endpoint",
			corrupt: func(g *Graph, l *Link) {
				l.child.base().disposed = true
			},
			severity: SeverityWarning,
			contains: "endpoint is disposed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			a, b := newVNode(g), newVNode(g)
			require.NoError(t, a.SetRef("x", b, nil))
			tt.corrupt(g, a.GetRefLink("x"))

			errs := Validate(g)
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.contains) {
					found = true
					assert.Equal(t, tt.severity, e.Severity)
				}
			}
			assert.True(t, found, "no finding containing %q in %v", tt.contains, errs)
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "boom", Severity: SeverityWarning}
	assert.Equal(t, "[warning] boom", e.Error())
	assert.Equal(t, "ValidationSeverity(7)", ValidationSeverity(7).String())
}
