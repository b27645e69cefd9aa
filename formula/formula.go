// Package formula compiles and evaluates the expressions a cell may
// hold: arithmetic over numbers and references to other cells by grid
// position.
package formula

import (
	"cellar/ast"
	"cellar/grid"
	"cellar/lexer"
	"cellar/parser"
)

// Formula is a parsed, immutable formula expression.
type Formula struct {
	expr ast.Expression
	refs []grid.Position
}

// ParseError reports a formula that failed to compile. It is a
// structural error: the offending text never becomes part of a cell.
type ParseError struct {
	Input  string
	Errors []parser.ParseError
}

func (e *ParseError) Error() string {
	return parser.FormatParseErrors(e.Errors, e.Input)
}

// Parse compiles an expression such as "(A1+2)*3". Every cell reference
// must name a position inside the grid; an out-of-range reference fails
// the parse.
func Parse(text string) (*Formula, error) {
	p := parser.New(lexer.New(text))
	expr := p.ParseExpression()
	if errs := p.ErrorsDetailed(); len(errs) > 0 {
		return nil, &ParseError{Input: text, Errors: errs}
	}
	return &Formula{expr: expr, refs: ast.References(expr)}, nil
}

// AST exposes the parsed expression tree, e.g. for debug printing.
func (f *Formula) AST() ast.Expression {
	return f.expr
}

// Expression returns the canonical text: minimal parentheses, no
// whitespace.
func (f *Formula) Expression() string {
	return ast.Expr(f.expr)
}

// ReferencedCells lists the distinct referenced positions in order of
// first occurrence.
func (f *Formula) ReferencedCells() []grid.Position {
	return f.refs
}
