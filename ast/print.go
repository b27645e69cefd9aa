package ast

import "strings"

// Operator binding strength, loosest first. Atoms never need parentheses.
const (
	precSum = iota
	precProduct
	precPrefix
	precAtom
)

func precedence(e Expression) int {
	switch n := e.(type) {
	case *InfixExpression:
		if n.Operator == "*" || n.Operator == "/" {
			return precProduct
		}
		return precSum
	case *PrefixExpression:
		return precPrefix
	default:
		return precAtom
	}
}

// Expr renders the canonical text of an expression: no whitespace, and
// only the parentheses whose removal would change the tree under standard
// precedence and left-to-right associativity.
func Expr(e Expression) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expression) {
	switch n := e.(type) {
	case *NumberLiteral:
		sb.WriteString(n.Token.Literal)
	case *CellRef:
		sb.WriteString(n.Pos.String())
	case *PrefixExpression:
		sb.WriteString(n.Operator)
		writeChild(sb, n.Right, precedence(n.Right) < precPrefix)
	case *InfixExpression:
		prec := precedence(n)
		writeChild(sb, n.Left, precedence(n.Left) < prec)
		sb.WriteString(n.Operator)
		// A right operand binding no tighter than its parent reassociates
		// when the parentheses are dropped, so they stay.
		writeChild(sb, n.Right, precedence(n.Right) <= prec)
	}
}

func writeChild(sb *strings.Builder, e Expression, parens bool) {
	if parens {
		sb.WriteByte('(')
	}
	writeExpr(sb, e)
	if parens {
		sb.WriteByte(')')
	}
}
