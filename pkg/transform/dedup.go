package transform

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/blake2b"

	"github.com/chazu/trellis/pkg/graph"
	"github.com/chazu/trellis/pkg/property"
)

type digest [blake2b.Size256]byte

// DedupTextures merges textures with identical MIME type and image bytes.
// Every reference to a duplicate is moved to the first texture with the
// same content, keeping its link and channel metadata, and the duplicate is
// disposed. Textures without image data are left alone.
func DedupTextures(doc *property.Document, opts ...Option) (Report, error) {
	o := newOptions(opts)
	seen := make(map[digest]*property.Texture)
	var rep Report
	for _, tex := range doc.Root().ListTextures() {
		if len(tex.Image()) == 0 {
			continue
		}
		h, err := blake2b.New256(nil)
		if err != nil {
			return rep, fmt.Errorf("transform: dedup textures: %w", err)
		}
		writeString(h, tex.MimeType())
		h.Write(tex.Image())

		var key digest
		copy(key[:], h.Sum(nil))
		canonical, dup := seen[key]
		if !dup {
			seen[key] = tex
			continue
		}
		if err := merge(doc.Graph(), tex, canonical); err != nil {
			return rep, fmt.Errorf("transform: dedup texture %q: %w", tex.Name(), err)
		}
		o.logger.Debug("merged texture", "duplicate", tex.Name(), "into", canonical.Name())
		rep.Merged++
		rep.Disposed++
	}
	return rep, nil
}

// DedupAccessors merges accessors with identical type, normalisation, and
// data. Accessors bound to different buffers are kept apart.
func DedupAccessors(doc *property.Document, opts ...Option) (Report, error) {
	o := newOptions(opts)
	seen := make(map[digest]*property.Accessor)
	var rep Report
	for _, a := range doc.Root().ListAccessors() {
		key, err := accessorDigest(a)
		if err != nil {
			return rep, fmt.Errorf("transform: dedup accessors: %w", err)
		}
		canonical, dup := seen[key]
		if !dup {
			seen[key] = a
			continue
		}
		if err := merge(doc.Graph(), a, canonical); err != nil {
			return rep, fmt.Errorf("transform: dedup accessor %q: %w", a.Name(), err)
		}
		o.logger.Debug("merged accessor", "duplicate", a.Name(), "into", canonical.Name())
		rep.Merged++
		rep.Disposed++
	}
	return rep, nil
}

func accessorDigest(a *property.Accessor) (digest, error) {
	var key digest
	h, err := blake2b.New256(nil)
	if err != nil {
		return key, err
	}
	writeString(h, string(a.Type()))
	var flags []byte
	if a.Normalized() {
		flags = append(flags, 'n')
	}
	if a.IsIndex() {
		flags = append(flags, 'i')
	}
	writeString(h, string(flags))
	if b := a.Buffer(); b != nil {
		writeString(h, fmt.Sprintf("%p", b))
	} else {
		writeString(h, "")
	}

	var buf []byte
	if a.IsIndex() {
		for _, v := range a.Indices() {
			buf = binary.LittleEndian.AppendUint32(buf, v)
		}
	} else {
		for _, v := range a.Array() {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	h.Write(buf)
	copy(key[:], h.Sum(nil))
	return key, nil
}

// writeString writes a length-prefixed string so adjacent fields cannot
// run together.
func writeString(w io.Writer, s string) {
	w.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(s))))
	w.Write([]byte(s))
}

// merge moves every non-Root reference to dup onto canonical and disposes
// dup.
func merge(g *graph.Graph, dup, canonical graph.Node) error {
	for _, parent := range property.ListUsers(dup) {
		if err := g.SwapChild(parent, dup, canonical); err != nil {
			return err
		}
	}
	dup.Dispose()
	return nil
}
