// Package formula is the default sheet.Artifact implementation injected
// into a sheet.Sheet. The core (the sheet package) treats formulas as an
// opaque compiled artifact; this package supplies the grammar: a
// hand-rolled recursive-descent parser over cell references, numeric
// literals, addition, subtraction, multiplication, division, unary minus,
// and parenthesized grouping.
package formula

import (
	"strings"

	"github.com/haldor/cellsheet"
)

// Formula is a parsed expression satisfying sheet.Artifact.
type Formula struct {
	root *node
}

// Parse implements sheet.ParseFunc.
func Parse(text string) (sheet.Artifact, error) {
	root, err := parse(text)
	if err != nil {
		return nil, err
	}
	return &Formula{root: root}, nil
}

func (f *Formula) Evaluate(lookup sheet.Lookup) (float64, *sheet.FormulaError) {
	return f.root.eval(lookup)
}

func (f *Formula) ReferencedPositions() []sheet.Position {
	var out []sheet.Position
	f.root.referencedPositions(&out, make(map[sheet.Position]bool))
	return out
}

func (f *Formula) Expression() string {
	var sb strings.Builder
	f.root.print(&sb, true)
	return sb.String()
}
