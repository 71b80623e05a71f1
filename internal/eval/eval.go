// Package eval evaluates arithmetic expressions over named variables. It is
// the expression service behind plots and function-constrained drags.
package eval

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrNotANumber      = errors.New("expression did not evaluate to a number")
)

// Scope binds variable names to values for one evaluation.
type Scope map[string]float64

// Evaluator is the contract the plotting components consume.
type Evaluator interface {
	Evaluate(expression string, scope Scope) (float64, error)
}

// Expression is a compiled expression ready for repeated evaluation.
type Expression struct {
	source    string
	program   *vm.Program
	variables []string
}

// Parse compiles expression. Variables are resolved at evaluation time.
func Parse(expression string) (*Expression, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", expression, err)
	}

	program, err := expr.Compile(expression, compileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}

	return &Expression{
		source:    expression,
		program:   program,
		variables: collectVariables(tree.Node),
	}, nil
}

// MustParse is Parse for expressions known at compile time.
func MustParse(expression string) *Expression {
	e, err := Parse(expression)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) String() string { return e.source }

// Variables returns the free variable names referenced by the expression,
// sorted, excluding the built-in constants.
func (e *Expression) Variables() []string { return e.variables }

// Evaluate runs the expression with scope.
func (e *Expression) Evaluate(scope Scope) (float64, error) {
	env := make(map[string]any, len(constants)+len(scope))
	for k, v := range constants {
		env[k] = v
	}
	for k, v := range scope {
		env[k] = v
	}

	for _, name := range e.variables {
		if _, ok := env[name]; !ok {
			return 0, fmt.Errorf("evaluate %q: undefined variable %q", e.source, name)
		}
	}

	out, err := expr.Run(e.program, env)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", e.source, err)
	}

	v, ok := toFloat(out)
	if !ok {
		return 0, fmt.Errorf("evaluate %q: %w (got %T)", e.source, ErrNotANumber, out)
	}
	return v, nil
}

// Cache is an Evaluator that compiles each distinct expression once.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	compiled map[string]*Expression
}

func NewCache() *Cache {
	return &Cache{compiled: make(map[string]*Expression)}
}

func (c *Cache) Evaluate(expression string, scope Scope) (float64, error) {
	e, err := c.Compile(expression)
	if err != nil {
		return 0, err
	}
	return e.Evaluate(scope)
}

// Compile returns the cached compiled form of expression.
func (c *Cache) Compile(expression string) (*Expression, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.compiled[expression]; ok {
		return e, nil
	}
	e, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	c.compiled[expression] = e
	return e, nil
}

// Default is the process-wide expression cache.
var Default = NewCache()

// Evaluate evaluates expression with the default cache.
func Evaluate(expression string, scope Scope) (float64, error) {
	return Default.Evaluate(expression, scope)
}

type identCollector struct {
	idents  []string
	callees map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n.Value)
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			c.callees[id.Value] = true
		}
	}
}

func collectVariables(root ast.Node) []string {
	c := &identCollector{callees: make(map[string]bool)}
	ast.Walk(&root, c)

	var vars []string
	for _, name := range c.idents {
		if c.callees[name] {
			continue
		}
		if _, ok := constants[name]; ok {
			continue
		}
		if !slices.Contains(vars, name) {
			vars = append(vars, name)
		}
	}
	slices.Sort(vars)
	return vars
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return math.NaN(), false
}
