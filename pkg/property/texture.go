package property

import (
	"strings"

	"github.com/chazu/trellis/pkg/graph"
)

// Channel is a bitmask of the colour channels a material reads from a
// texture.
type Channel uint8

const (
	R Channel = 1 << iota
	G
	B
	A
)

// String renders the mask as its channel letters, e.g. "RGB", or "-" when
// empty.
func (c Channel) String() string {
	if c == 0 {
		return "-"
	}
	var sb strings.Builder
	for i, letter := range "RGBA" {
		if c&(1<<i) != 0 {
			sb.WriteRune(letter)
		}
	}
	return sb.String()
}

// MetadataChannels is the link metadata key carrying a Channel mask on
// material-to-texture links.
const MetadataChannels = "channels"

// Texture is image data plus its MIME type. Sampler state lives on the
// TextureInfo of the slot that uses it.
type Texture struct {
	Property
}

func newTexture(g *graph.Graph, name string) *Texture {
	t := &Texture{}
	t.init(g, t, name, graph.Attrs{
		"image":    graph.Literal([]byte(nil)),
		"mimeType": graph.Literal(""),
		"uri":      graph.Literal(""),
	})
	return t
}

func (t *Texture) Image() []byte        { return t.Get("image").([]byte) }
func (t *Texture) SetImage(data []byte) { t.Set("image", data) }
func (t *Texture) MimeType() string     { return t.Get("mimeType").(string) }
func (t *Texture) SetMimeType(m string) { t.Set("mimeType", m) }
func (t *Texture) URI() string          { return t.Get("uri").(string) }
func (t *Texture) SetURI(uri string)    { t.Set("uri", uri) }

// Sampler wrap and filter values, as in the glTF specification.
const (
	WrapRepeat         = 10497
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648

	FilterNearest = 9728
	FilterLinear  = 9729
)

// TextureInfo holds per-slot sampling state. Each one is owned by a single
// material slot and disposed with its material.
type TextureInfo struct {
	graph.NodeBase
}

func newTextureInfo(g *graph.Graph) *TextureInfo {
	ti := &TextureInfo{}
	ti.Init(g, ti, graph.Attrs{
		"texCoord":  graph.Literal(0),
		"wrapS":     graph.Literal(WrapRepeat),
		"wrapT":     graph.Literal(WrapRepeat),
		"minFilter": graph.Literal(0),
		"magFilter": graph.Literal(0),
	})
	return ti
}

func (ti *TextureInfo) TexCoord() int      { return ti.Get("texCoord").(int) }
func (ti *TextureInfo) SetTexCoord(n int)  { ti.Set("texCoord", n) }
func (ti *TextureInfo) WrapS() int         { return ti.Get("wrapS").(int) }
func (ti *TextureInfo) SetWrapS(w int)     { ti.Set("wrapS", w) }
func (ti *TextureInfo) WrapT() int         { return ti.Get("wrapT").(int) }
func (ti *TextureInfo) SetWrapT(w int)     { ti.Set("wrapT", w) }
func (ti *TextureInfo) MinFilter() int     { return ti.Get("minFilter").(int) }
func (ti *TextureInfo) SetMinFilter(f int) { ti.Set("minFilter", f) }
func (ti *TextureInfo) MagFilter() int     { return ti.Get("magFilter").(int) }
func (ti *TextureInfo) SetMagFilter(f int) { ti.Set("magFilter", f) }
