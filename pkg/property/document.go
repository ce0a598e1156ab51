package property

import (
	"fmt"

	"github.com/chazu/trellis/pkg/graph"
)

// Asset carries glTF asset metadata.
type Asset struct {
	Generator string
	Version   string
}

// DefaultAsset is stamped on every new Root.
var DefaultAsset = Asset{Generator: "trellis", Version: "2.0"}

// Root lists the top-level properties of a document.
type Root struct {
	Property
}

func newRoot(g *graph.Graph) *Root {
	r := &Root{}
	r.init(g, r, "", graph.Attrs{
		"asset":        graph.Literal(DefaultAsset),
		"buffers":      graph.RefList(),
		"accessors":    graph.RefList(),
		"textures":     graph.RefList(),
		"materials":    graph.RefList(),
		"meshes":       graph.RefList(),
		"nodes":        graph.RefList(),
		"scenes":       graph.RefList(),
		"defaultScene": graph.Ref(),
	})
	return r
}

// Asset returns the asset header.
func (r *Root) Asset() Asset { return r.Get("asset").(Asset) }

// SetAsset replaces the asset header.
func (r *Root) SetAsset(a Asset) { r.Set("asset", a) }

// ListBuffers returns the listed buffers in creation order.
func (r *Root) ListBuffers() []*Buffer {
	return listAs[*Buffer](r.ListRefs("buffers"))
}

// ListAccessors returns the listed accessors in creation order.
func (r *Root) ListAccessors() []*Accessor {
	return listAs[*Accessor](r.ListRefs("accessors"))
}

// ListTextures returns the listed textures in creation order.
func (r *Root) ListTextures() []*Texture {
	return listAs[*Texture](r.ListRefs("textures"))
}

// ListMaterials returns the listed materials in creation order.
func (r *Root) ListMaterials() []*Material {
	return listAs[*Material](r.ListRefs("materials"))
}

// ListMeshes returns the listed meshes in creation order.
func (r *Root) ListMeshes() []*Mesh {
	return listAs[*Mesh](r.ListRefs("meshes"))
}

// ListNodes returns the listed nodes in creation order.
func (r *Root) ListNodes() []*Node {
	return listAs[*Node](r.ListRefs("nodes"))
}

// ListScenes returns the listed scenes in creation order.
func (r *Root) ListScenes() []*Scene {
	return listAs[*Scene](r.ListRefs("scenes"))
}

// ListProperties returns every listed property, grouped by type in the
// order buffers, accessors, textures, materials, meshes, nodes, scenes.
func (r *Root) ListProperties() []Named {
	var out []Named
	for _, key := range []string{"buffers", "accessors", "textures", "materials", "meshes", "nodes", "scenes"} {
		out = append(out, listAs[Named](r.ListRefs(key))...)
	}
	return out
}

// DefaultScene returns the scene shown on load, or nil.
func (r *Root) DefaultScene() *Scene { return as[*Scene](r.GetRef("defaultScene")) }

// SetDefaultScene sets the scene shown on load; nil clears it.
func (r *Root) SetDefaultScene(s *Scene) error {
	return r.SetRef("defaultScene", s, nil)
}

// Document owns the graph of one glTF asset and its Root.
type Document struct {
	graph *graph.Graph
	root  *Root
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	g := graph.New()
	return &Document{graph: g, root: newRoot(g)}
}

// Graph returns the document's graph.
func (d *Document) Graph() *graph.Graph { return d.graph }

// Root returns the document root.
func (d *Document) Root() *Root { return d.root }

// list appends p to a Root list. Both ends live in d.graph and p is non-nil,
// so failure means the document itself is broken.
func (d *Document) list(key string, p graph.Node) {
	if err := d.root.AddRef(key, p, nil); err != nil {
		panic(fmt.Sprintf("property: list %s: %v", key, err))
	}
}

// CreateBuffer returns a buffer listed on the Root.
func (d *Document) CreateBuffer(name string) *Buffer {
	b := newBuffer(d.graph, name)
	d.list("buffers", b)
	return b
}

// CreateAccessor returns an accessor listed on the Root.
func (d *Document) CreateAccessor(name string) *Accessor {
	a := newAccessor(d.graph, name)
	d.list("accessors", a)
	return a
}

// CreateTexture returns a texture listed on the Root.
func (d *Document) CreateTexture(name string) *Texture {
	t := newTexture(d.graph, name)
	d.list("textures", t)
	return t
}

// CreateMaterial returns a material listed on the Root.
func (d *Document) CreateMaterial(name string) *Material {
	m := newMaterial(d.graph, name)
	d.list("materials", m)
	return m
}

// CreateMesh returns a mesh listed on the Root.
func (d *Document) CreateMesh(name string) *Mesh {
	m := newMesh(d.graph, name)
	d.list("meshes", m)
	return m
}

// CreatePrimitive returns a primitive that is not listed on the Root; it
// is reachable only through the meshes it is added to.
func (d *Document) CreatePrimitive() *Primitive {
	return newPrimitive(d.graph)
}

// CreateNode returns a node listed on the Root.
func (d *Document) CreateNode(name string) *Node {
	n := newNode(d.graph, name)
	d.list("nodes", n)
	return n
}

// CreateScene returns a scene listed on the Root.
func (d *Document) CreateScene(name string) *Scene {
	s := newScene(d.graph, name)
	d.list("scenes", s)
	return s
}
