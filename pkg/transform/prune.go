package transform

import (
	"fmt"

	"github.com/chazu/trellis/pkg/property"
)

// Prune disposes resources nothing references: materials, meshes,
// textures, accessors, and buffers whose only parent is the Root. Pruning
// one property can orphan another (a mesh's accessors, a material's
// textures), so passes repeat until nothing changes. Primitives of a pruned
// mesh are disposed with it unless another mesh shares them. Nodes and
// scenes are never pruned.
func Prune(doc *property.Document, opts ...Option) Report {
	o := newOptions(opts)
	var rep Report
	for {
		n := prunePass(doc, o)
		if n == 0 {
			break
		}
		rep.Disposed += n
	}
	o.logger.Debug("prune", "disposed", rep.Disposed)
	return rep
}

func prunePass(doc *property.Document, o *options) int {
	root := doc.Root()
	var candidates []property.Named
	for _, m := range root.ListMeshes() {
		candidates = append(candidates, m)
	}
	for _, m := range root.ListMaterials() {
		candidates = append(candidates, m)
	}
	for _, t := range root.ListTextures() {
		candidates = append(candidates, t)
	}
	for _, a := range root.ListAccessors() {
		candidates = append(candidates, a)
	}
	for _, b := range root.ListBuffers() {
		candidates = append(candidates, b)
	}

	disposed := 0
	for _, p := range candidates {
		if p.IsDisposed() || len(property.ListUsers(p)) > 0 {
			continue
		}
		var prims []*property.Primitive
		if m, ok := p.(*property.Mesh); ok {
			prims = m.ListPrimitives()
		}
		o.logger.Debug("pruned", "type", fmt.Sprintf("%T", p), "name", p.Name())
		p.Dispose()
		disposed++

		// Primitives are not listed on the Root, so they go with the last
		// mesh that used them.
		for _, prim := range prims {
			if !prim.IsDisposed() && len(property.ListUsers(prim)) == 0 {
				prim.Dispose()
				disposed++
			}
		}
	}
	return disposed
}
