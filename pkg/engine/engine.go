// Package engine provides the Lisp scripting engine for burl. It wraps
// zygomys in a sandboxed environment and produces a scene registry from
// user source code: primitives, mesh edits, booleans and exports are
// all expressed as builtins operating on named scene objects.
package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/burl/pkg/scene"
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

// Export is a file produced by an (export-obj ...) or (export-stl ...)
// form. The engine never touches the filesystem itself; callers decide
// where the bytes go.
type Export struct {
	Path   string
	Format string // "obj", "stl" or "stl-text"
	Data   []byte
}

// Result bundles the output of a successful evaluation.
type Result struct {
	Registry *scene.Registry
	Exports  []Export
}

// Engine wraps the zygomys interpreter for burl evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	log        *slog.Logger
}

// NewEngine creates a new Engine instance logging through slog.Default.
func NewEngine() *Engine {
	return &Engine{log: slog.Default()}
}

// NewEngineWithLogger creates an Engine with an explicit logger.
func NewEngineWithLogger(log *slog.Logger) *Engine {
	return &Engine{log: log}
}

// Evaluate takes Lisp source code and produces a scene registry.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	start := time.Now()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	res, evalErrs, err := waitWithTimeout(ch, gen, &e.mu, &e.generation)
	switch {
	case err != nil:
		e.log.Error("evaluation failed", "error", err, "elapsed", time.Since(start))
	case len(evalErrs) > 0:
		e.log.Warn("evaluation produced errors", "count", len(evalErrs), "first", evalErrs[0].Message)
	default:
		e.log.Debug("evaluation finished",
			"objects", res.Registry.Count(),
			"exports", len(res.Exports),
			"elapsed", time.Since(start))
	}
	return res, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	res := &Result{Registry: scene.NewRegistry()}

	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return res, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls; exports are captured in memory instead.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, res)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Message: strings.TrimSpace(msg),
	}}
}
