package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/trellis/pkg/kernel"
	"github.com/chazu/trellis/pkg/property"
	"github.com/chazu/trellis/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms trellis Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: base-color -> base_color
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec wraps a vec3 or vec4.
type sexpVec struct {
	v []float64
}

func (v *sexpVec) SexpString(ps *zygo.PrintState) string {
	parts := make([]string, len(v.v))
	for i, f := range v.v {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("(vec%d %s)", len(v.v), strings.Join(parts, " "))
}
func (v *sexpVec) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid between the solid builtins and mesh.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.s.BoundingBox()
	return fmt.Sprintf("(solid %.1f..%.1f %.1f..%.1f %.1f..%.1f)", min[0], max[0], min[1], max[1], min[2], max[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpProperty wraps a document property.
type sexpProperty struct {
	p property.Named
}

func (p *sexpProperty) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", kindOf(p.p), p.p.Name())
}
func (p *sexpProperty) Type() *zygo.RegisteredType { return nil }

func kindOf(p property.Named) string {
	switch p.(type) {
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

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// unknownKeywords reports keywords outside allowed, so typos fail loudly.
func (a kwArgs) unknownKeywords(fn string, allowed ...string) error {
	for k := range a.kw {
		found := false
		for _, ok := range allowed {
			if k == ok {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_blend) and plain strings ("blend").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %s", describe(s))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %s", describe(s))
}

// toVec extracts an n-component vector.
func toVec(s zygo.Sexp, n int) ([]float64, error) {
	if v, ok := s.(*sexpVec); ok && len(v.v) == n {
		return v.v, nil
	}
	return nil, fmt.Errorf("expected vec%d, got %s", n, describe(s))
}

func toVec3(s zygo.Sexp) ([3]float64, error) {
	v, err := toVec(s, 3)
	if err != nil {
		return [3]float64{}, err
	}
	return [3]float64(v), nil
}

func toVec4(s zygo.Sexp) ([4]float64, error) {
	v, err := toVec(s, 4)
	if err != nil {
		return [4]float64{}, err
	}
	return [4]float64(v), nil
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

// toProperty extracts a property of type T.
func toProperty[T property.Named](s zygo.Sexp, kind string) (T, error) {
	if v, ok := s.(*sexpProperty); ok {
		if p, ok := v.p.(T); ok {
			return p, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("expected %s, got %s", kind, describe(s))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// nameArg returns the leading string argument most builtins take.
func nameArg(fn string, pa kwArgs) (string, []zygo.Sexp, error) {
	if len(pa.positional) < 1 {
		return "", nil, fmt.Errorf("%s requires a name argument", fn)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return "", nil, fmt.Errorf("%s: name: %w", fn, err)
	}
	return name, pa.positional[1:], nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder carries the document under construction and the geometry kernel
// into the builtins.
type builder struct {
	doc    *property.Document
	kernel kernel.Kernel
	cells  int
}

// textureKeywords maps material keywords to texture slots.
var textureKeywords = map[string]property.TextureSlot{
	"base-color-texture":         property.BaseColor,
	"emissive-texture":           property.Emissive,
	"normal-texture":             property.Normal,
	"occlusion-texture":          property.Occlusion,
	"metallic-roughness-texture": property.MetallicRoughness,
}

type builtin func(b *builder, args []zygo.Sexp) (zygo.Sexp, error)

// builtins lists every DSL function. Hyphenated names are registered with
// underscores, matching what preprocessSource produces.
var builtins = map[string]builtin{
	"vec3":         vecBuiltin(3),
	"vec4":         vecBuiltin(4),
	"box":          (*builder).box,
	"cylinder":     (*builder).cylinder,
	"sphere":       (*builder).sphere,
	"union":        booleanBuiltin("union", kernel.Kernel.Union),
	"difference":   booleanBuiltin("difference", kernel.Kernel.Difference),
	"intersection": booleanBuiltin("intersection", kernel.Kernel.Intersection),
	"translate":    (*builder).translate,
	"rotate":       (*builder).rotate,
	"texture":      (*builder).texture,
	"material":     (*builder).material,
	"mesh":         (*builder).mesh,
	"node":         (*builder).node,
	"scene":        (*builder).scene,
}

// registerBuiltins installs all trellis DSL builtins into a zygomys
// environment. The builtins populate b.doc during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	for name, fn := range builtins {
		env.AddFunction(strings.ReplaceAll(name, "-", "_"), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return fn(b, args)
		})
	}
}

// (vec3 1 2 3), (vec4 1 1 1 1)
func vecBuiltin(n int) builtin {
	return func(_ *builder, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != n {
			return zygo.SexpNull, fmt.Errorf("vec%d requires exactly %d arguments, got %d", n, n, len(args))
		}
		v := make([]float64, n)
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec%d: component %d: %w", n, i, err)
			}
			v[i] = f
		}
		return &sexpVec{v: v}, nil
	}
}

// (box 10 20 30) or (box :size (vec3 10 20 30))
func (b *builder) box(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("box", "size"); err != nil {
		return zygo.SexpNull, err
	}
	var size [3]float64
	if v, ok := pa.kw["size"]; ok {
		s, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		size = s
	} else {
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires :size or three dimensions")
		}
		for i, a := range pa.positional {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			size[i] = f
		}
	}
	s, err := b.kernel.Box(size[0], size[1], size[2])
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpSolid{s: s}, nil
}

// (cylinder :height 50 :radius 10)
func (b *builder) cylinder(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("cylinder", "height", "radius"); err != nil {
		return zygo.SexpNull, err
	}
	h, err := requiredFloat("cylinder", pa, "height")
	if err != nil {
		return zygo.SexpNull, err
	}
	r, err := requiredFloat("cylinder", pa, "radius")
	if err != nil {
		return zygo.SexpNull, err
	}
	s, err := b.kernel.Cylinder(h, r)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpSolid{s: s}, nil
}

// (sphere :radius 10)
func (b *builder) sphere(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("sphere", "radius"); err != nil {
		return zygo.SexpNull, err
	}
	r, err := requiredFloat("sphere", pa, "radius")
	if err != nil {
		return zygo.SexpNull, err
	}
	s, err := b.kernel.Sphere(r)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpSolid{s: s}, nil
}

func requiredFloat(fn string, pa kwArgs, key string) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s requires :%s", fn, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// (union a b c ...) folds left.
func booleanBuiltin(fn string, op func(kernel.Kernel, kernel.Solid, kernel.Solid) kernel.Solid) builtin {
	return func(b *builder, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least two solids", fn)
		}
		acc, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: operand 0: %w", fn, err)
		}
		for i, a := range args[1:] {
			s, err := toSolid(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", fn, i+1, err)
			}
			acc = op(b.kernel, acc, s)
		}
		return &sexpSolid{s: acc}, nil
	}
}

// (translate solid :by (vec3 10 0 0))
func (b *builder) translate(args []zygo.Sexp) (zygo.Sexp, error) {
	return b.transform("translate", args, b.kernel.Translate)
}

// (rotate solid :by (vec3 0 0 90)), angles in degrees
func (b *builder) rotate(args []zygo.Sexp) (zygo.Sexp, error) {
	return b.transform("rotate", args, b.kernel.Rotate)
}

func (b *builder) transform(fn string, args []zygo.Sexp, op func(kernel.Solid, float64, float64, float64) kernel.Solid) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords(fn, "by"); err != nil {
		return zygo.SexpNull, err
	}
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("%s requires one solid", fn)
	}
	s, err := toSolid(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	v, ok := pa.kw["by"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("%s requires :by", fn)
	}
	by, err := toVec3(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: by: %w", fn, err)
	}
	return &sexpSolid{s: op(s, by[0], by[1], by[2])}, nil
}

// (texture "wood" :uri "wood.png" :mime-type "image/png" :data "...")
func (b *builder) texture(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("texture", "uri", "mime-type", "data"); err != nil {
		return zygo.SexpNull, err
	}
	name, _, err := nameArg("texture", pa)
	if err != nil {
		return zygo.SexpNull, err
	}

	t := b.doc.CreateTexture(name)
	for key, set := range map[string]func(string){
		"uri":       t.SetURI,
		"mime-type": t.SetMimeType,
		"data":      func(s string) { t.SetImage([]byte(s)) },
	} {
		v, ok := pa.kw[key]
		if !ok {
			continue
		}
		s, err := toString(v)
		if err != nil {
			t.Dispose()
			return zygo.SexpNull, fmt.Errorf("texture: %s: %w", key, err)
		}
		set(s)
	}
	return &sexpProperty{p: t}, nil
}

// (material "oak" :base-color (vec4 1 1 1 1) :roughness 0.8
//
//	:base-color-texture wood :double-sided true)
func (b *builder) material(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	allowed := []string{"base-color", "emissive", "metallic", "roughness", "alpha-mode", "alpha-cutoff", "double-sided"}
	for kw := range textureKeywords {
		allowed = append(allowed, kw)
	}
	if err := pa.unknownKeywords("material", allowed...); err != nil {
		return zygo.SexpNull, err
	}
	name, _, err := nameArg("material", pa)
	if err != nil {
		return zygo.SexpNull, err
	}

	m := b.doc.CreateMaterial(name)
	if err := b.configureMaterial(m, pa); err != nil {
		m.Dispose()
		return zygo.SexpNull, fmt.Errorf("material: %w", err)
	}
	return &sexpProperty{p: m}, nil
}

func (b *builder) configureMaterial(m *property.Material, pa kwArgs) error {
	if v, ok := pa.kw["base-color"]; ok {
		c, err := toVec4(v)
		if err != nil {
			return fmt.Errorf("base-color: %w", err)
		}
		m.SetBaseColorFactor(c)
	}
	if v, ok := pa.kw["emissive"]; ok {
		c, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("emissive: %w", err)
		}
		m.SetEmissiveFactor(c)
	}
	for key, set := range map[string]func(float64){
		"metallic":     m.SetMetallicFactor,
		"roughness":    m.SetRoughnessFactor,
		"alpha-cutoff": m.SetAlphaCutoff,
	} {
		if v, ok := pa.kw[key]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			set(f)
		}
	}
	if v, ok := pa.kw["alpha-mode"]; ok {
		s, err := toKeywordString(v)
		if err != nil {
			return fmt.Errorf("alpha-mode: %w", err)
		}
		if err := m.SetAlphaMode(strings.ToUpper(s)); err != nil {
			return err
		}
	}
	if v, ok := pa.kw["double-sided"]; ok {
		d, err := toBool(v)
		if err != nil {
			return fmt.Errorf("double-sided: %w", err)
		}
		m.SetDoubleSided(d)
	}
	for kw, slot := range textureKeywords {
		v, ok := pa.kw[kw]
		if !ok {
			continue
		}
		tex, err := toProperty[*property.Texture](v, "texture")
		if err != nil {
			return fmt.Errorf("%s: %w", kw, err)
		}
		if err := m.SetTexture(slot, tex); err != nil {
			return fmt.Errorf("%s: %w", kw, err)
		}
	}
	return nil
}

// (mesh "leg" solid :material oak)
func (b *builder) mesh(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("mesh", "material"); err != nil {
		return zygo.SexpNull, err
	}
	name, rest, err := nameArg("mesh", pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	if len(rest) != 1 {
		return zygo.SexpNull, fmt.Errorf("mesh: expected one solid after the name, got %d arguments", len(rest))
	}
	s, err := toSolid(rest[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
	}
	var mat *property.Material
	if v, ok := pa.kw["material"]; ok {
		if mat, err = toProperty[*property.Material](v, "material"); err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: material: %w", err)
		}
	}

	m, err := tessellate.Solid(b.doc, b.kernel, name, s, b.cells, mat)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpProperty{p: m}, nil
}

// (node "leg-1" :mesh leg :translation (vec3 0 0 10) child ...)
func (b *builder) node(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("node", "mesh", "translation", "rotation", "scale", "children"); err != nil {
		return zygo.SexpNull, err
	}
	name, children, err := nameArg("node", pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	if v, ok := pa.kw["children"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: children: %w", err)
		}
		children = append(children, items...)
	}

	n := b.doc.CreateNode(name)
	if err := b.configureNode(n, pa, children); err != nil {
		n.Dispose()
		return zygo.SexpNull, fmt.Errorf("node %q: %w", name, err)
	}
	return &sexpProperty{p: n}, nil
}

func (b *builder) configureNode(n *property.Node, pa kwArgs, children []zygo.Sexp) error {
	if v, ok := pa.kw["mesh"]; ok {
		m, err := toProperty[*property.Mesh](v, "mesh")
		if err != nil {
			return fmt.Errorf("mesh: %w", err)
		}
		if err := n.SetMesh(m); err != nil {
			return err
		}
	}
	if v, ok := pa.kw["translation"]; ok {
		t, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("translation: %w", err)
		}
		n.SetTranslation(t)
	}
	if v, ok := pa.kw["rotation"]; ok {
		q, err := toVec4(v)
		if err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
		n.SetRotation(q)
	}
	if v, ok := pa.kw["scale"]; ok {
		s, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("scale: %w", err)
		}
		n.SetScale(s)
	}
	for i, c := range children {
		child, err := toProperty[*property.Node](c, "node")
		if err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
		if err := n.AddChild(child); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

// (scene "table" node ...). The first scene becomes the default scene.
func (b *builder) scene(args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.unknownKeywords("scene"); err != nil {
		return zygo.SexpNull, err
	}
	name, nodes, err := nameArg("scene", pa)
	if err != nil {
		return zygo.SexpNull, err
	}

	s := b.doc.CreateScene(name)
	for i, a := range nodes {
		n, err := toProperty[*property.Node](a, "node")
		if err == nil {
			err = s.AddChild(n)
		}
		if err != nil {
			s.Dispose()
			return zygo.SexpNull, fmt.Errorf("scene %q: node %d: %w", name, i, err)
		}
	}
	root := b.doc.Root()
	if root.DefaultScene() == nil {
		if err := root.SetDefaultScene(s); err != nil {
			return zygo.SexpNull, err
		}
	}
	return &sexpProperty{p: s}, nil
}
