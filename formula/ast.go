package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haldor/cellsheet"
)

type kind int

const (
	kindNum kind = iota
	kindRef
	kindAdd
	kindSub
	kindMul
	kindDiv
	kindNeg
)

// node is one AST vertex. Binary nodes use left/right; kindNeg uses left
// only; kindNum/kindRef are leaves.
type node struct {
	kind        kind
	left, right *node
	num         float64
	ref         sheet.Position
	refText     string
}

func (n *node) eval(lookup sheet.Lookup) (float64, *sheet.FormulaError) {
	switch n.kind {
	case kindNum:
		return n.num, nil
	case kindRef:
		return lookup(n.ref)
	case kindNeg:
		v, err := n.left.eval(lookup)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case kindAdd, kindSub, kindMul, kindDiv:
		l, err := n.left.eval(lookup)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(lookup)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case kindAdd:
			return l + r, nil
		case kindSub:
			return l - r, nil
		case kindMul:
			return l * r, nil
		case kindDiv:
			if r == 0 {
				return 0, &sheet.FormulaError{Category: sheet.ErrArithmetic}
			}
			return l / r, nil
		}
	}
	panic(fmt.Sprintf("formula: unreachable node kind %d", n.kind))
}

// referencedPositions collects every cell reference in source order,
// de-duplicated, including invalid ones (Evaluate reports those as ErrRef).
func (n *node) referencedPositions(out *[]sheet.Position, seen map[sheet.Position]bool) {
	switch n.kind {
	case kindRef:
		if !seen[n.ref] {
			seen[n.ref] = true
			*out = append(*out, n.ref)
		}
	case kindNeg:
		n.left.referencedPositions(out, seen)
	case kindAdd, kindSub, kindMul, kindDiv:
		n.left.referencedPositions(out, seen)
		n.right.referencedPositions(out, seen)
	}
}

// print renders the canonical form of the subtree. Binary operators are
// always fully parenthesized except at the top level, which keeps the
// output unambiguous without needing a precedence-aware unparser.
func (n *node) print(sb *strings.Builder, top bool) {
	switch n.kind {
	case kindNum:
		sb.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case kindRef:
		sb.WriteString(n.refText)
	case kindNeg:
		sb.WriteString("-")
		n.left.print(sb, false)
	case kindAdd, kindSub, kindMul, kindDiv:
		if !top {
			sb.WriteString("(")
		}
		n.left.print(sb, false)
		sb.WriteString(opSymbol(n.kind))
		n.right.print(sb, false)
		if !top {
			sb.WriteString(")")
		}
	}
}

func opSymbol(k kind) string {
	switch k {
	case kindAdd:
		return "+"
	case kindSub:
		return "-"
	case kindMul:
		return "*"
	case kindDiv:
		return "/"
	default:
		return "?"
	}
}
