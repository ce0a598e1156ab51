// Package property is the glTF property layer of a trellis document.
//
// Every entity (Buffer, Accessor, Texture, Material, Primitive, Mesh, Node,
// Scene) is a graph node whose attributes are declared once in its
// constructor. A Document owns the graph and a Root that lists the
// top-level properties; disposing a property removes it from the Root and
// from every property that referenced it.
package property
