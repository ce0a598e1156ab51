package engine

import (
	"strings"
	"testing"

	"github.com/chazu/trellis/pkg/property"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 5)`,
			expect: `(sphere "__kw_radius" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :height 40 :radius 2)`,
			expect: `(cylinder "__kw_height" 40 "__kw_radius" 2)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def oak-finish x)`,
			expect: `(def oak_finish x)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:base-color-texture`,
			expect: `"__kw_base-color-texture"`,
		},
		{
			name:   "hyphenated string preserved",
			input:  `(node "leg-1")`,
			expect: `(node "leg-1")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evaluate runs source on a coarse-mesh engine and fails on any error.
func evaluate(t *testing.T, source string) *property.Document {
	t.Helper()
	return evaluateCells(t, 16, source)
}

// evaluateCells is evaluate with an explicit mesh resolution, for scripts
// with features thinner than the coarse grid.
func evaluateCells(t *testing.T, cells int, source string) *property.Document {
	t.Helper()
	eng := NewEngine(WithMeshCells(cells))
	doc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return doc
}

// evalFails runs source and returns the joined eval error messages.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	eng := NewEngine(WithMeshCells(16))
	doc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if doc != nil {
		t.Fatal("expected nil document on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	var msgs []string
	for _, e := range evalErrs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "\n")
}

// ---------------------------------------------------------------------------
// Document builtins
// ---------------------------------------------------------------------------

func TestTextureAndMaterial(t *testing.T) {
	doc := evaluate(t, `
(def wood (texture "wood" :uri "wood.png" :mime-type "image/png" :data "abc"))
(def orm (texture "orm" :uri "orm.png"))
(material "oak"
  :base-color (vec4 0.8 0.6 0.4 1)
  :roughness 0.7
  :metallic 0
  :alpha-mode :mask
  :alpha-cutoff 0.25
  :double-sided true
  :base-color-texture wood
  :occlusion-texture orm
  :metallic-roughness-texture orm)
`)

	textures := doc.Root().ListTextures()
	if len(textures) != 2 {
		t.Fatalf("expected 2 textures, got %d", len(textures))
	}
	wood, orm := textures[0], textures[1]
	if wood.MimeType() != "image/png" || string(wood.Image()) != "abc" {
		t.Errorf("wood = %q %q", wood.MimeType(), wood.Image())
	}

	mats := doc.Root().ListMaterials()
	if len(mats) != 1 {
		t.Fatalf("expected 1 material, got %d", len(mats))
	}
	m := mats[0]
	if m.BaseColorFactor() != [4]float64{0.8, 0.6, 0.4, 1} {
		t.Errorf("base color = %v", m.BaseColorFactor())
	}
	if m.RoughnessFactor() != 0.7 || m.MetallicFactor() != 0 {
		t.Errorf("roughness = %v metallic = %v", m.RoughnessFactor(), m.MetallicFactor())
	}
	if m.AlphaMode() != property.AlphaMask || m.AlphaCutoff() != 0.25 || !m.DoubleSided() {
		t.Errorf("alpha = %s/%v doubleSided = %v", m.AlphaMode(), m.AlphaCutoff(), m.DoubleSided())
	}
	if m.Texture(property.BaseColor) != wood {
		t.Error("base color texture not bound")
	}
	if got := property.TextureChannels(orm); got != property.R|property.G|property.B {
		t.Errorf("orm channels = %s, want RGB", got)
	}
}

func TestFullTableExample(t *testing.T) {
	doc := evaluateCells(t, 64, `
;; a small table
(def oak (material "oak" :roughness 0.8))
(def slab (mesh "top" (box 100 60 4) :material oak))
(def post (mesh "leg" (cylinder :height 70 :radius 3) :material oak))
(def frame
  (node "table" :mesh slab :translation (vec3 0 0 72)
    (node "leg-1" :mesh post :translation (vec3 45 25 -37))
    (node "leg-2" :mesh post :translation (vec3 -45 25 -37))))
(scene "main" frame)
`)

	root := doc.Root()
	meshes := root.ListMeshes()
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	for _, m := range meshes {
		prims := m.ListPrimitives()
		if len(prims) != 1 {
			t.Fatalf("mesh %q: expected 1 primitive, got %d", m.Name(), len(prims))
		}
		if prims[0].Material() == nil || prims[0].Material().Name() != "oak" {
			t.Errorf("mesh %q: material not bound", m.Name())
		}
		if prims[0].Attribute(property.SemanticPosition).Count() == 0 {
			t.Errorf("mesh %q: no vertices", m.Name())
		}
	}

	var names []string
	for _, n := range root.ListNodes() {
		names = append(names, n.Name())
	}
	if strings.Join(names, ",") != "leg-1,leg-2,table" {
		t.Errorf("nodes = %v, want children created before their parent", names)
	}

	scene := root.DefaultScene()
	if scene == nil || scene.Name() != "main" {
		t.Fatal("expected default scene 'main'")
	}
	var visited []string
	scene.Traverse(func(n *property.Node) { visited = append(visited, n.Name()) })
	if strings.Join(visited, ",") != "table,leg-1,leg-2" {
		t.Errorf("traversal = %v", visited)
	}

	// The leg mesh is shared by two nodes.
	post := meshes[1]
	if users := property.ListUsers(post); len(users) != 2 {
		t.Errorf("leg mesh users = %d, want 2", len(users))
	}
}

func TestSolidOperations(t *testing.T) {
	doc := evaluate(t, `
(def a (box :size (vec3 20 20 20)))
(def b (translate (sphere :radius 8) :by (vec3 10 0 0)))
(def c (rotate (cylinder :height 30 :radius 4) :by (vec3 90 0 0)))
(mesh "u" (union a b c))
(mesh "d" (difference a b))
(mesh "i" (intersection a b))
`)
	if n := len(doc.Root().ListMeshes()); n != 3 {
		t.Fatalf("expected 3 meshes, got %d", n)
	}
	if n := len(doc.Root().ListBuffers()); n != 1 {
		t.Errorf("expected one shared buffer, got %d", n)
	}
}

func TestVecArity(t *testing.T) {
	msg := evalFails(t, `(vec3 1 2)`)
	if !strings.Contains(msg, "vec3 requires exactly 3 arguments") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"non-positive box", `(box 0 1 1)`, "dimension must be positive"},
		{"unknown keyword", `(sphere :radius 1 :radios 2)`, "unknown keyword :radios"},
		{"missing keyword", `(cylinder :radius 1)`, "cylinder requires :height"},
		{"texture slot type", `(material "m" :normal-texture 5)`, "expected texture"},
		{"bad alpha mode", `(material "m" :alpha-mode :glass)`, "unknown alpha mode"},
		{"mesh needs solid", `(mesh "m" 5)`, "expected solid"},
		{"node child type", `(node "n" (texture "t"))`, "expected node"},
		{"scene child type", `(scene "s" 1)`, "expected node"},
		{"union arity", `(union (sphere :radius 1))`, "at least two solids"},
		{"name required", `(texture)`, "texture requires a name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("message %q does not contain %q", msg, tt.want)
			}
		})
	}
}

func TestVariableReference(t *testing.T) {
	doc := evaluate(t, `
(def r 0.3)
(material "m" :roughness r)
`)
	if got := doc.Root().ListMaterials()[0].RoughnessFactor(); got != 0.3 {
		t.Errorf("roughness = %v, want 0.3 (from variable)", got)
	}
}

func TestRunReportsWarnings(t *testing.T) {
	eng := NewEngine()
	res, err := eng.Run(`(texture "spare")`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Document == nil {
		t.Fatal("warnings must not discard the document")
	}
	found := false
	for _, w := range res.Warnings {
		if w.Property == "spare" && w.Message == "unused" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unused warning for 'spare', got %v", res.Warnings)
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	doc := evaluate(t, `
(def w (+ 10 20))
(material "m" :alpha-cutoff (/ w 100.0))
`)
	if got := doc.Root().ListMaterials()[0].AlphaCutoff(); got != 0.3 {
		t.Errorf("alpha cutoff = %v, want 0.3", got)
	}
}
