package sheet

import "strings"

// EscapeSign marks a Text cell whose value should drop the leading marker.
const EscapeSign = '\''

// FormulaSign introduces a formula; it only takes effect when followed by
// at least one more character, so a lone "=" stays Text.
const FormulaSign = '='

type bodyKind int

const (
	bodyEmpty bodyKind = iota
	bodyText
	bodyFormula
)

// cellBody is a closed, tagged variant: Empty, Text, or Formula. It is
// modeled as a single struct with an exhaustive switch on kind rather than
// a polymorphic hierarchy, since the Formula case is the only one that
// carries extra state (the parsed artifact and its cache).
type cellBody struct {
	kind bodyKind

	// bodyText only.
	text string

	// bodyFormula only.
	artifact   Artifact
	references []Position // valid positions only, de-duplicated, in source order
	cacheValid bool
	cacheValue CellValue
}

func emptyBody() cellBody {
	return cellBody{kind: bodyEmpty}
}

func textBody(s string) cellBody {
	return cellBody{kind: bodyText, text: s}
}

// buildBody interprets text: empty string -> Empty, "=" followed by at
// least one character -> Formula (parsed against parse), anything else ->
// Text. A parse failure is reported as *FormulaParseError without any
// side effect on the caller's existing body.
func buildBody(parse ParseFunc, text string) (cellBody, error) {
	if text == "" {
		return emptyBody(), nil
	}
	if len(text) >= 2 && text[0] == FormulaSign {
		artifact, err := parse(text[1:])
		if err != nil {
			return cellBody{}, &FormulaParseError{Text: text, Err: err}
		}
		return cellBody{
			kind:       bodyFormula,
			artifact:   artifact,
			references: validPositions(artifact.ReferencedPositions()),
		}, nil
	}
	return textBody(text), nil
}

// validPositions filters a formula's referenced positions down to the
// valid, de-duplicated set that forms the cell's out_edges.
func validPositions(ps []Position) []Position {
	seen := make(map[Position]bool, len(ps))
	out := make([]Position, 0, len(ps))
	for _, p := range ps {
		if !p.Valid() || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// rawText is the raw text() representation for this body kind, ignoring the
// Formula case's canonicalization (handled by Cell.Text, which needs the
// artifact).
func (b cellBody) rawText() string {
	switch b.kind {
	case bodyText:
		return b.text
	default:
		return ""
	}
}

// literalValue computes the Empty/Text cases directly; Formula dispatch (which
// needs the owning Cell for cache + lookup wiring) lives in cell.go.
func (b cellBody) literalValue() CellValue {
	switch b.kind {
	case bodyText:
		if strings.HasPrefix(b.text, string(EscapeSign)) {
			return StringValue(b.text[1:])
		}
		return StringValue(b.text)
	default:
		return StringValue("")
	}
}
