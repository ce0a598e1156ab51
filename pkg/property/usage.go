package property

import (
	"github.com/samber/lo"

	"github.com/chazu/trellis/pkg/graph"
)

// ListUsers returns the properties that reference p, excluding the Root.
// A property with no users is unreachable from any scene or material and
// can be pruned.
func ListUsers(p graph.Node) []graph.Node {
	return lo.Reject(p.Graph().ListParents(p), func(n graph.Node, _ int) bool {
		_, isRoot := n.(*Root)
		return isRoot
	})
}

// TextureChannels returns the union of channels read from tex by every
// material slot that references it.
func TextureChannels(tex *Texture) Channel {
	var mask Channel
	for _, l := range tex.Graph().ListParentLinks(tex) {
		if ch, ok := l.Metadata()[MetadataChannels].(Channel); ok {
			mask |= ch
		}
	}
	return mask
}
