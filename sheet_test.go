package sheet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	sheet "github.com/haldor/cellsheet"
	"github.com/haldor/cellsheet/formula"
)

func pos(addr string) sheet.Position {
	return sheet.ParsePosition(addr)
}

func TestSetCellAndTransitiveInvalidation(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "2"))
	assert.NoError(s.SetCell(pos("A2"), "=A1+3"))

	c, err := s.GetCell(pos("A2"))
	assert.NoError(err)
	assert.Equal(sheet.NumberValue(5), c.Value())

	assert.NoError(s.SetCell(pos("A1"), "4"))
	assert.Equal(sheet.NumberValue(7), c.Value())
}

func TestCircularDependencyRejected(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "=B1"))
	err := s.SetCell(pos("B1"), "=A1")
	assert.Error(err)
	var circErr *sheet.CircularDependencyError
	assert.ErrorAs(err, &circErr)

	b1, _ := s.GetCell(pos("B1"))
	assert.Equal("", b1.Text())

	a1, _ := s.GetCell(pos("A1"))
	assert.Equal(sheet.NumberValue(0), a1.Value())
}

func TestEscapeMarker(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "'=not a formula"))
	c, _ := s.GetCell(pos("A1"))
	assert.Equal("'=not a formula", c.Text())
	assert.Equal(sheet.StringValue("=not a formula"), c.Value())
}

func TestTextOperandIsValueError(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "hello"))
	assert.NoError(s.SetCell(pos("B1"), "=A1+1"))

	b1, _ := s.GetCell(pos("B1"))
	v := b1.Value()
	assert.Equal(sheet.KindError, v.Kind)
	assert.Equal(sheet.ErrValue, v.Err.Category)
}

func TestDivisionByZeroPropagates(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "=1/0"))
	a1, _ := s.GetCell(pos("A1"))
	assert.Equal(sheet.ErrArithmetic, a1.Value().Err.Category)

	assert.NoError(s.SetCell(pos("B1"), "=A1+1"))
	b1, _ := s.GetCell(pos("B1"))
	assert.Equal(sheet.ErrArithmetic, b1.Value().Err.Category)
}

func TestReferencingUnsetCellMaterializesEmpty(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "=Z99"))

	z99, err := s.GetCell(pos("Z99"))
	assert.NoError(err)
	assert.NotNil(z99)
	assert.Equal(sheet.StringValue(""), z99.Value())

	rows, cols := s.PrintableSize()
	assert.GreaterOrEqual(rows, 99)
	assert.GreaterOrEqual(cols, 26)
}

func TestInvalidPosition(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)
	invalid := sheet.Position{Row: -1, Col: 0}

	err := s.SetCell(invalid, "1")
	assert.Error(err)
	var posErr *sheet.InvalidPositionError
	assert.ErrorAs(err, &posErr)

	_, err = s.GetCell(invalid)
	assert.ErrorAs(err, &posErr)

	err = s.ClearCell(invalid)
	assert.ErrorAs(err, &posErr)
}

func TestInvalidReferenceIsRefError(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	// The parser accepts any letter-run+digit-run as a reference token;
	// a row of all 9s overflows MaxRows and decodes to NonePosition.
	assert.NoError(s.SetCell(pos("A1"), "=A99999+1"))
	a1, _ := s.GetCell(pos("A1"))
	assert.Equal(sheet.ErrRef, a1.Value().Err.Category)
}

func TestPrintableSizeEmptyAndAfterClear(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	rows, cols := s.PrintableSize()
	assert.Equal(0, rows)
	assert.Equal(0, cols)

	assert.NoError(s.SetCell(pos("A1"), "x"))
	rows, cols = s.PrintableSize()
	assert.Equal(1, rows)
	assert.Equal(1, cols)

	assert.NoError(s.ClearCell(pos("A1")))
	rows, cols = s.PrintableSize()
	assert.Equal(0, rows)
	assert.Equal(0, cols)
}

func TestClearInvalidatesDependents(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "5"))
	assert.NoError(s.SetCell(pos("A2"), "=A1*2"))

	a2, _ := s.GetCell(pos("A2"))
	assert.Equal(sheet.NumberValue(10), a2.Value())

	assert.NoError(s.ClearCell(pos("A1")))
	assert.Equal(sheet.NumberValue(0), a2.Value())
}

func TestClearedCellWithDependentsStaysAsEmptyPlaceholder(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "5"))
	assert.NoError(s.SetCell(pos("A2"), "=A1"))
	assert.NoError(s.ClearCell(pos("A1")))

	a1, err := s.GetCell(pos("A1"))
	assert.NoError(err)
	assert.NotNil(a1) // kept alive because A2 still depends on it
	assert.Equal(sheet.StringValue(""), a1.Value())
}

func TestClearWithNoDependentsRemovesCell(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "5"))
	assert.NoError(s.ClearCell(pos("A1")))

	a1, err := s.GetCell(pos("A1"))
	assert.NoError(err)
	assert.Nil(a1)
}

func TestOccupancyCountsTransitionOnlyOnce(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "1"))
	assert.NoError(s.SetCell(pos("A1"), "2"))
	assert.NoError(s.SetCell(pos("A1"), "3"))

	rows, cols := s.PrintableSize()
	assert.Equal(1, rows)
	assert.Equal(1, cols)

	assert.NoError(s.ClearCell(pos("A1")))
	rows, cols = s.PrintableSize()
	assert.Equal(0, rows)
	assert.Equal(0, cols)
}

func TestFailedEditLeavesCellUnchangedButKeepsPlaceholders(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "1"))
	err := s.SetCell(pos("A1"), "=((")
	assert.Error(err)
	var parseErr *sheet.FormulaParseError
	assert.ErrorAs(err, &parseErr)

	a1, _ := s.GetCell(pos("A1"))
	assert.Equal(sheet.StringValue("1"), a1.Value())

	// A failed edit of a never-touched position leaves an Empty placeholder.
	err = s.SetCell(pos("B1"), "=((")
	assert.ErrorAs(err, &parseErr)
	b1, _ := s.GetCell(pos("B1"))
	assert.NotNil(b1)
	assert.Equal("", b1.Text())
}

func TestPrintValuesAndTexts(t *testing.T) {
	assert := assert.New(t)
	s := sheet.NewSheet(formula.Parse)

	assert.NoError(s.SetCell(pos("A1"), "2"))
	assert.NoError(s.SetCell(pos("B1"), "=A1+3"))

	var values, texts strings.Builder
	assert.NoError(s.PrintValues(&values))
	assert.NoError(s.PrintTexts(&texts))

	assert.Equal("2\t5\n", values.String())
	assert.Equal("2\t=A1+3\n", texts.String())
}
