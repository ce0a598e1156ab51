package property

import (
	"fmt"

	"github.com/chazu/trellis/pkg/graph"
)

// TextureSlot names one of the texture inputs of a metallic-roughness
// material.
type TextureSlot int

const (
	BaseColor TextureSlot = iota
	Emissive
	Normal
	Occlusion
	MetallicRoughness
)

// TextureSlots lists every slot in declaration order.
var TextureSlots = []TextureSlot{BaseColor, Emissive, Normal, Occlusion, MetallicRoughness}

var textureSlots = [...]struct {
	name     string
	channels Channel
}{
	BaseColor:         {"baseColor", R | G | B | A},
	Emissive:          {"emissive", R | G | B},
	Normal:            {"normal", R | G | B},
	Occlusion:         {"occlusion", R},
	MetallicRoughness: {"metallicRoughness", G | B},
}

func (s TextureSlot) String() string {
	if s < 0 || int(s) >= len(textureSlots) {
		return fmt.Sprintf("TextureSlot(%d)", int(s))
	}
	return textureSlots[s].name
}

// Channels returns the channels a material reads through s.
func (s TextureSlot) Channels() Channel { return textureSlots[s].channels }

func (s TextureSlot) refKey() string  { return textureSlots[s].name + "Texture" }
func (s TextureSlot) infoKey() string { return textureSlots[s].name + "TextureInfo" }

// Alpha modes.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Material describes the surface of a primitive.
type Material struct {
	Property
}

func newMaterial(g *graph.Graph, name string) *Material {
	m := &Material{}
	attrs := graph.Attrs{
		"baseColorFactor": graph.Literal([4]float64{1, 1, 1, 1}),
		"emissiveFactor":  graph.Literal([3]float64{0, 0, 0}),
		"metallicFactor":  graph.Literal(1.0),
		"roughnessFactor": graph.Literal(1.0),
		"alphaMode":       graph.Literal(AlphaOpaque),
		"alphaCutoff":     graph.Literal(0.5),
		"doubleSided":     graph.Literal(false),
	}
	for _, s := range TextureSlots {
		attrs[s.refKey()] = graph.Ref()
		attrs[s.infoKey()] = graph.Owned(newTextureInfo(g))
	}
	m.init(g, m, name, attrs)
	return m
}

// BaseColorFactor returns the linear RGBA multiplier of the base color.
func (m *Material) BaseColorFactor() [4]float64     { return m.Get("baseColorFactor").([4]float64) }
func (m *Material) SetBaseColorFactor(c [4]float64) { m.Set("baseColorFactor", c) }

// EmissiveFactor returns the linear RGB emission.
func (m *Material) EmissiveFactor() [3]float64     { return m.Get("emissiveFactor").([3]float64) }
func (m *Material) SetEmissiveFactor(c [3]float64) { m.Set("emissiveFactor", c) }

// MetallicFactor and RoughnessFactor are in [0, 1].
func (m *Material) MetallicFactor() float64      { return m.Get("metallicFactor").(float64) }
func (m *Material) SetMetallicFactor(f float64)  { m.Set("metallicFactor", f) }
func (m *Material) RoughnessFactor() float64     { return m.Get("roughnessFactor").(float64) }
func (m *Material) SetRoughnessFactor(f float64) { m.Set("roughnessFactor", f) }

// AlphaMode returns OPAQUE, MASK, or BLEND.
func (m *Material) AlphaMode() string { return m.Get("alphaMode").(string) }

// AlphaCutoff is the MASK threshold.
func (m *Material) AlphaCutoff() float64     { return m.Get("alphaCutoff").(float64) }
func (m *Material) SetAlphaCutoff(c float64) { m.Set("alphaCutoff", c) }

// DoubleSided disables back-face culling.
func (m *Material) DoubleSided() bool     { return m.Get("doubleSided").(bool) }
func (m *Material) SetDoubleSided(d bool) { m.Set("doubleSided", d) }

// SetAlphaMode sets OPAQUE, MASK, or BLEND.
func (m *Material) SetAlphaMode(mode string) error {
	switch mode {
	case AlphaOpaque, AlphaMask, AlphaBlend:
		m.Set("alphaMode", mode)
		return nil
	default:
		return fmt.Errorf("property: material %q: unknown alpha mode %q", m.Name(), mode)
	}
}

// Texture returns the texture bound to slot s, or nil.
func (m *Material) Texture(s TextureSlot) *Texture {
	return as[*Texture](m.GetRef(s.refKey()))
}

// SetTexture binds t to slot s, stamping the link with the slot's channel
// mask. A nil texture clears the slot.
func (m *Material) SetTexture(s TextureSlot, t *Texture) error {
	return m.SetRef(s.refKey(), t, graph.Metadata{MetadataChannels: s.Channels()})
}

// TextureInfo returns the sampling state of slot s. It is never nil while
// the material is live.
func (m *Material) TextureInfo(s TextureSlot) *TextureInfo {
	return as[*TextureInfo](m.GetRef(s.infoKey()))
}
