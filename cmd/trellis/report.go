package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/trellis/pkg/engine"
	"github.com/chazu/trellis/pkg/property"
	"github.com/chazu/trellis/pkg/tessellate"
)

// PropertyData is one inventory row.
type PropertyData struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Users    int    `json:"users"`
	Channels string `json:"channels,omitempty"`
}

// SceneData summarizes the default scene after flattening.
type SceneData struct {
	Name      string     `json:"name"`
	Vertices  int        `json:"vertices"`
	Triangles int        `json:"triangles"`
	Min       [3]float32 `json:"min"`
	Max       [3]float32 `json:"max"`
}

// Report is the full result written by -json.
type Report struct {
	Properties []PropertyData       `json:"properties"`
	Scene      *SceneData           `json:"scene,omitempty"`
	Warnings   []engine.EvalWarning `json:"warnings"`
}

func buildReport(doc *property.Document, warnings []engine.EvalWarning) (Report, error) {
	r := Report{
		Properties: []PropertyData{},
		Warnings:   []engine.EvalWarning{},
	}
	r.Warnings = append(r.Warnings, warnings...)

	for _, p := range doc.Root().ListProperties() {
		row := PropertyData{
			Type:  kind(p),
			Name:  p.Name(),
			Users: len(property.ListUsers(p)),
		}
		if tex, ok := p.(*property.Texture); ok {
			row.Channels = property.TextureChannels(tex).String()
		}
		r.Properties = append(r.Properties, row)
	}

	if scene := doc.Root().DefaultScene(); scene != nil {
		m, err := tessellate.Flatten(scene)
		if err != nil {
			return Report{}, fmt.Errorf("scene %q: %w", scene.Name(), err)
		}
		sd := &SceneData{
			Name:      scene.Name(),
			Vertices:  m.VertexCount(),
			Triangles: m.TriangleCount(),
		}
		sd.Min, sd.Max, _ = m.Bounds()
		r.Scene = sd
	}
	return r, nil
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// printInventory writes one line per root-listed property, then the scene
// summary if there is a default scene.
func printInventory(w io.Writer, r Report) {
	for _, p := range r.Properties {
		channels := p.Channels
		if channels == "" {
			channels = "-"
		}
		fmt.Fprintf(w, "%-9s %-20q users=%d channels=%s\n", p.Type, p.Name, p.Users, channels)
	}
	if s := r.Scene; s != nil {
		fmt.Fprintf(w, "scene %q: %d vertices, %d triangles, bounds %v..%v\n",
			s.Name, s.Vertices, s.Triangles, s.Min, s.Max)
	}
}

func kind(p property.Named) string {
	switch p.(type) {
	case *property.Buffer:
		return "buffer"
	case *property.Accessor:
		return "accessor"
	case *property.Texture:
		return "texture"
	case *property.Material:
		return "material"
	case *property.Mesh:
		return "mesh"
	case *property.Node:
		return "node"
	case *property.Scene:
		return "scene"
	default:
		return fmt.Sprintf("%T", p)
	}
}
