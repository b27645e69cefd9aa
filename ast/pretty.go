package ast

import (
	"bytes"
	"fmt"
)

// Format returns a multi-line, indented view of the AST.
func Format(node Node) string {
	p := &printer{}
	p.writeNode(node)
	return p.buf.String()
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(format string, args ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) writeNode(node Node) {
	switch n := node.(type) {
	case *NumberLiteral:
		p.line("Number(%s)", n.Token.Literal)
	case *CellRef:
		p.line("Ref(%s)", n.Pos)
	case *PrefixExpression:
		p.line("Prefix(%s)", n.Operator)
		p.indent++
		p.writeNode(n.Right)
		p.indent--
	case *InfixExpression:
		p.line("Infix(%s)", n.Operator)
		p.indent++
		p.line("Left:")
		p.indent++
		p.writeNode(n.Left)
		p.indent--
		p.line("Right:")
		p.indent++
		p.writeNode(n.Right)
		p.indent--
		p.indent--
	default:
		p.line("Unknown(%T)", node)
	}
}
