package property

import (
	"fmt"

	"github.com/chazu/trellis/pkg/graph"
)

// ValidationError is a document-level finding. Errors describe data a
// writer could not encode; warnings describe waste or likely mistakes.
type ValidationError struct {
	Property Named
	Message  string
	Severity graph.ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Property == nil {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %T %q: %s", e.Severity, e.Property, e.Property.Name(), e.Message)
}

// Validate checks the graph registry and then the document's properties.
// It returns errors and warnings separately and never mutates doc.
func Validate(doc *Document) (errs, warnings []ValidationError) {
	for _, ge := range graph.Validate(doc.Graph()) {
		f := ValidationError{Message: ge.Error(), Severity: ge.Severity}
		if ge.Severity == graph.SeverityError {
			errs = append(errs, f)
		} else {
			warnings = append(warnings, f)
		}
	}

	root := doc.Root()
	errs = append(errs, validateAccessors(root)...)
	errs = append(errs, validatePrimitives(root)...)
	warnings = append(warnings, validateUnused(root)...)
	warnings = append(warnings, validateTextures(root)...)
	return errs, warnings
}

// validateAccessors checks that float data fills whole elements.
func validateAccessors(root *Root) []ValidationError {
	var errs []ValidationError
	for _, a := range root.ListAccessors() {
		if a.IsIndex() {
			continue
		}
		size := a.ElementSize()
		if size == 0 {
			errs = append(errs, ValidationError{
				Property: a,
				Message:  fmt.Sprintf("unknown accessor type %q", a.Type()),
				Severity: graph.SeverityError,
			})
			continue
		}
		if n := len(a.Array()); n%size != 0 {
			errs = append(errs, ValidationError{
				Property: a,
				Message:  fmt.Sprintf("array length %d is not a multiple of %d", n, size),
				Severity: graph.SeverityError,
			})
		}
	}
	return errs
}

// validatePrimitives checks every primitive of every mesh: it needs a
// POSITION attribute, attributes must agree on vertex count, and indices
// must stay in range.
func validatePrimitives(root *Root) []ValidationError {
	var errs []ValidationError
	for _, m := range root.ListMeshes() {
		for i, p := range m.ListPrimitives() {
			where := fmt.Sprintf("primitive %d", i)
			pos := p.Attribute(SemanticPosition)
			if pos == nil {
				errs = append(errs, ValidationError{
					Property: m,
					Message:  where + " has no POSITION attribute",
					Severity: graph.SeverityError,
				})
				continue
			}
			count := pos.Count()
			for _, sem := range p.ListSemantics() {
				if c := p.Attribute(sem).Count(); c != count {
					errs = append(errs, ValidationError{
						Property: m,
						Message:  fmt.Sprintf("%s: %s has %d elements, POSITION has %d", where, sem, c, count),
						Severity: graph.SeverityError,
					})
				}
			}
			idx := p.Indices()
			if idx == nil {
				continue
			}
			if !idx.IsIndex() {
				errs = append(errs, ValidationError{
					Property: m,
					Message:  where + ": indices accessor holds float data",
					Severity: graph.SeverityError,
				})
				continue
			}
			for _, v := range idx.Indices() {
				if int(v) >= count {
					errs = append(errs, ValidationError{
						Property: m,
						Message:  fmt.Sprintf("%s: index %d out of range for %d vertices", where, v, count),
						Severity: graph.SeverityError,
					})
					break
				}
			}
			if p.Mode() == ModeTriangles && len(idx.Indices())%3 != 0 {
				errs = append(errs, ValidationError{
					Property: m,
					Message:  fmt.Sprintf("%s: %d indices do not form whole triangles", where, len(idx.Indices())),
					Severity: graph.SeverityError,
				})
			}
		}
	}
	return errs
}

// validateUnused warns about listed resources nothing references.
func validateUnused(root *Root) []ValidationError {
	var warnings []ValidationError
	var candidates []Named
	for _, t := range root.ListTextures() {
		candidates = append(candidates, t)
	}
	for _, m := range root.ListMaterials() {
		candidates = append(candidates, m)
	}
	for _, a := range root.ListAccessors() {
		candidates = append(candidates, a)
	}
	for _, p := range candidates {
		if len(ListUsers(p)) == 0 {
			warnings = append(warnings, ValidationError{
				Property: p,
				Message:  "unused",
				Severity: graph.SeverityWarning,
			})
		}
	}
	for _, m := range root.ListMeshes() {
		if len(m.ListPrimitives()) == 0 {
			warnings = append(warnings, ValidationError{
				Property: m,
				Message:  "mesh has no primitives",
				Severity: graph.SeverityWarning,
			})
		}
	}
	return warnings
}

// validateTextures warns about textures with neither embedded data nor a
// URI.
func validateTextures(root *Root) []ValidationError {
	var warnings []ValidationError
	for _, t := range root.ListTextures() {
		if len(t.Image()) == 0 && t.URI() == "" {
			warnings = append(warnings, ValidationError{
				Property: t,
				Message:  "texture has no image data or URI",
				Severity: graph.SeverityWarning,
			})
		}
	}
	return warnings
}
