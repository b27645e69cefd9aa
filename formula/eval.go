package formula

import (
	"fmt"
	"math"
	"strconv"

	"cellar/ast"
	"cellar/grid"
)

// Resolver is the read-only sheet view consulted during evaluation.
// CellValue reports the value at pos and whether a cell exists there;
// absent positions count as zero. Resolving a value may itself trigger
// lazy evaluation of further formula cells, which terminates because the
// sheet keeps the reference graph acyclic.
type Resolver interface {
	CellValue(pos grid.Position) (grid.Value, bool)
}

// Evaluate computes the formula against res. The result is either a
// grid.Number or the grid.CellError produced by the first failing
// operand or operation.
func (f *Formula) Evaluate(res Resolver) grid.Value {
	v, err := eval(f.expr, res)
	if err != nil {
		return err.(grid.CellError)
	}
	return grid.Number(v)
}

func eval(e ast.Expression, res Resolver) (float64, error) {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		return n.Value, nil
	case *ast.CellRef:
		return resolveRef(n.Pos, res)
	case *ast.PrefixExpression:
		right, err := eval(n.Right, res)
		if err != nil {
			return 0, err
		}
		if n.Operator == "-" {
			return -right, nil
		}
		return right, nil
	case *ast.InfixExpression:
		left, err := eval(n.Left, res)
		if err != nil {
			return 0, err
		}
		right, err := eval(n.Right, res)
		if err != nil {
			return 0, err
		}
		return apply(n.Operator, left, right)
	}
	panic(fmt.Sprintf("formula: unexpected node %T", e))
}

func apply(op string, left, right float64) (float64, error) {
	var result float64
	switch op {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*":
		result = left * right
	case "/":
		result = left / right
	}
	// Division by zero, overflow and 0/0 all surface here.
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, grid.ErrArithmetic
	}
	return result, nil
}

func resolveRef(pos grid.Position, res Resolver) (float64, error) {
	if !pos.IsValid() {
		return 0, grid.ErrRef
	}
	v, ok := res.CellValue(pos)
	if !ok {
		return 0, nil
	}
	switch value := v.(type) {
	case grid.Number:
		return float64(value), nil
	case grid.Text:
		if f, err := strconv.ParseFloat(string(value), 64); err == nil {
			return f, nil
		}
		return 0, grid.ErrValue
	case grid.CellError:
		return 0, value
	}
	return 0, nil
}
