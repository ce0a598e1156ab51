// Package engine evaluates trellis Lisp scripts into glTF documents. It
// wraps zygomys in a sandboxed environment; builtins create textures,
// materials, meshes (tessellated through a geometry kernel), nodes, and
// scenes in a fresh property.Document per evaluation.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/trellis/pkg/kernel"
	"github.com/chazu/trellis/pkg/kernel/sdfx"
	"github.com/chazu/trellis/pkg/logging"
	"github.com/chazu/trellis/pkg/property"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an advisory finding about the produced document, such as
// an unused texture.
type EvalWarning struct {
	Message  string
	Property string
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Document *property.Document
	Errors   []EvalError
	Warnings []EvalWarning
}

// DefaultTimeout is the hard limit for a single evaluation.
const DefaultTimeout = 5 * time.Second

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandboxed environment and document.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel  kernel.Kernel
	cells   int
	timeout time.Duration
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithKernel sets the geometry kernel used by solid and mesh builtins.
func WithKernel(k kernel.Kernel) Option { return func(e *Engine) { e.kernel = k } }

// WithMeshCells sets the marching cubes resolution of the mesh builtin.
func WithMeshCells(n int) Option { return func(e *Engine) { e.cells = n } }

// WithTimeout sets the evaluation time limit.
func WithTimeout(d time.Duration) Option { return func(e *Engine) { e.timeout = d } }

// WithLogger logs evaluation summaries at debug level.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine creates a new Engine backed by the sdfx kernel unless
// WithKernel says otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		kernel:  sdfx.New(),
		cells:   kernel.DefaultCells,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Document.
//
// Return semantics:
//   - On success: returns document + nil errors + nil error
//   - On parse/eval failure: returns nil document + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*property.Document, []EvalError, error) {
	res, err := e.Run(source)
	if err != nil {
		return nil, nil, err
	}
	return res.Document, res.Errors, nil
}

// Run is Evaluate with warnings. res.Document is nil whenever res.Errors is
// non-empty.
func (e *Engine) Run(source string) (EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res := e.evaluate(source)
		ch <- evalResult{res: res}
	}()

	res, err := waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
	if err != nil {
		e.logger.Warn("evaluation failed", "err", err)
		return EvalResult{}, err
	}
	if len(res.Errors) > 0 {
		e.logger.Debug("evaluation errors", "count", len(res.Errors))
	} else {
		e.logger.Debug("evaluated",
			"properties", len(res.Document.Root().ListProperties()),
			"links", res.Document.Graph().LinkCount(),
			"warnings", len(res.Warnings))
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) EvalResult {
	doc := property.NewDocument()

	// Empty source is a valid program that produces an empty document.
	if strings.TrimSpace(source) == "" {
		return EvalResult{Document: doc}
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, &builder{doc: doc, kernel: e.kernel, cells: e.cells})

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return EvalResult{Errors: parseZygomysError(err)}
	}
	if _, err := env.Run(); err != nil {
		return EvalResult{Errors: parseZygomysError(err)}
	}

	errs, warnings := property.Validate(doc)
	if len(errs) > 0 {
		res := EvalResult{}
		for _, ve := range errs {
			res.Errors = append(res.Errors, EvalError{Message: ve.Error()})
		}
		return res
	}
	res := EvalResult{Document: doc}
	for _, w := range warnings {
		ew := EvalWarning{Message: w.Message}
		if w.Property != nil {
			ew.Property = w.Property.Name()
		}
		res.Warnings = append(res.Warnings, ew)
	}
	return res
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?is)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message;
// text before the line marker is kept in front of the detail.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		loc := re.FindStringSubmatchIndex(msg)
		if loc == nil {
			continue
		}
		line, _ := strconv.Atoi(msg[loc[2]:loc[3]])
		detail := strings.TrimSpace(msg[loc[4]:loc[5]])
		if prefix := strings.TrimSpace(msg[:loc[0]]); prefix != "" {
			detail = strings.TrimSpace(prefix + " " + detail)
		}
		return []EvalError{{Line: line, Message: detail}}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
