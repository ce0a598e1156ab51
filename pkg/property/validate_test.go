package property_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/trellis/pkg/property"
)

// triangle builds a one-triangle mesh used by a node, so nothing in it is
// unused.
func triangle(t *testing.T, doc *property.Document) (*property.Mesh, *property.Primitive) {
	t.Helper()
	pos := doc.CreateAccessor("pos")
	pos.SetType(property.Vec3)
	pos.SetArray([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	idx := doc.CreateAccessor("idx")
	idx.SetIndices([]uint32{0, 1, 2})

	prim := doc.CreatePrimitive()
	require.NoError(t, prim.SetAttribute(property.SemanticPosition, pos))
	require.NoError(t, prim.SetIndices(idx))
	mesh := doc.CreateMesh("tri")
	require.NoError(t, mesh.AddPrimitive(prim))
	node := doc.CreateNode("n")
	require.NoError(t, node.SetMesh(mesh))
	return mesh, prim
}

func hasFinding(findings []property.ValidationError, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanDocument(t *testing.T) {
	doc := property.NewDocument()
	triangle(t, doc)

	errs, warnings := property.Validate(doc)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(doc *property.Document, prim *property.Primitive)
		want    string
	}{
		{
			name: "ragged array",
			corrupt: func(doc *property.Document, prim *property.Primitive) {
				prim.Attribute(property.SemanticPosition).SetArray([]float32{0, 0, 0, 1})
			},
			want: "not a multiple of 3",
		},
		{
			name: "missing position",
			corrupt: func(doc *property.Document, prim *property.Primitive) {
				require.NoError(t, prim.SetAttribute(property.SemanticPosition, nil))
			},
			want: "no POSITION attribute",
		},
		{
			name: "index out of range",
			corrupt: func(doc *property.Document, prim *property.Primitive) {
				prim.Indices().SetIndices([]uint32{0, 1, 7})
			},
			want: "index 7 out of range",
		},
		{
			name: "partial triangle",
			corrupt: func(doc *property.Document, prim *property.Primitive) {
				prim.Indices().SetIndices([]uint32{0, 1})
			},
			want: "do not form whole triangles",
		},
		{
			name: "attribute count mismatch",
			corrupt: func(doc *property.Document, prim *property.Primitive) {
				nrm := doc.CreateAccessor("nrm")
				nrm.SetType(property.Vec3)
				nrm.SetArray([]float32{0, 0, 1})
				require.NoError(t, prim.SetAttribute(property.SemanticNormal, nrm))
			},
			want: "NORMAL has 1 elements, POSITION has 3",
		},
		{
			name: "float indices",
			corrupt: func(doc *property.Document, prim *property.Primitive) {
				prim.Indices().SetArray([]float32{0, 1, 2})
			},
			want: "indices accessor holds float data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := property.NewDocument()
			_, prim := triangle(t, doc)
			tt.corrupt(doc, prim)

			errs, _ := property.Validate(doc)
			assert.True(t, hasFinding(errs, tt.want), "want %q in %v", tt.want, errs)
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	doc := property.NewDocument()
	triangle(t, doc)
	doc.CreateTexture("orphan")
	doc.CreateMesh("empty")

	errs, warnings := property.Validate(doc)
	assert.Empty(t, errs)
	assert.True(t, hasFinding(warnings, `"orphan": unused`))
	assert.True(t, hasFinding(warnings, "no image data or URI"))
	assert.True(t, hasFinding(warnings, `"empty": mesh has no primitives`))
}
