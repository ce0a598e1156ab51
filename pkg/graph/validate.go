package graph

import "fmt"

// ValidationSeverity indicates whether a validation finding indicates a
// broken graph or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // graph invariant broken
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Link     *Link              // offending link, nil if graph-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Link == nil {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] link %q: %s", e.Severity, e.Link.name, e.Message)
}

// Validate checks the registry invariants of g: every registered link is
// live, both endpoints belong to g, and the adjacency indices agree with the
// registry. An empty slice means g is consistent. Validate never mutates g.
//
// Disposed endpoints are reported as warnings, since using a disposed node
// is a caller error rather than graph corruption.
func Validate(g *Graph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLinks(g)...)
	errs = append(errs, validateIndex(g, g.inbound, "inbound")...)
	errs = append(errs, validateIndex(g, g.outbound, "outbound")...)
	return errs
}

func validateLinks(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, l := range g.Links() {
		if l.disposed {
			errs = append(errs, ValidationError{
				Link:     l,
				Message:  "disposed link still registered",
				Severity: SeverityError,
			})
		}
		if l.parent.base().graph != g || l.child.base().graph != g {
			errs = append(errs, ValidationError{
				Link:     l,
				Message:  "endpoint belongs to another graph",
				Severity: SeverityError,
			})
		}
		if l.parent.IsDisposed() || l.child.IsDisposed() {
			errs = append(errs, ValidationError{
				Link:     l,
				Message:  "endpoint is disposed",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateIndex checks that every indexed link is registered and that each
// registered link appears exactly once under its endpoint.
func validateIndex(g *Graph, index map[*NodeBase][]*Link, dir string) []ValidationError {
	var errs []ValidationError
	seen := make(map[*Link]int, len(g.links))
	for nb, links := range index {
		for _, l := range links {
			seen[l]++
			if _, ok := g.links[l]; !ok {
				errs = append(errs, ValidationError{
					Link:     l,
					Message:  fmt.Sprintf("%s index holds an unregistered link", dir),
					Severity: SeverityError,
				})
			}
			end := l.child
			if dir == "outbound" {
				end = l.parent
			}
			if end.base() != nb {
				errs = append(errs, ValidationError{
					Link:     l,
					Message:  fmt.Sprintf("%s index entry keyed by the wrong node", dir),
					Severity: SeverityError,
				})
			}
		}
	}
	for l := range g.links {
		if seen[l] != 1 {
			errs = append(errs, ValidationError{
				Link:     l,
				Message:  fmt.Sprintf("indexed %d times in %s index, want 1", seen[l], dir),
				Severity: SeverityError,
			})
		}
	}
	return errs
}
