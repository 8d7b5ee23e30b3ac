package sheet

import "io"

// Sheet is a sparse two-dimensional grid of Cells. It owns every Cell it
// creates; Cell.outEdges/inEdges only ever point at cells the Sheet itself
// holds, so nothing outlives the Sheet that created it.
type Sheet struct {
	parse ParseFunc
	cells map[Position]*Cell

	// rowCounts/colCounts track, for each occupied row/column index, how
	// many materialized cells currently sit there. The printable bounding
	// box is the largest key of each map plus one, or (0,0) when both are
	// empty.
	// A position is counted the moment a Cell object is first created for
	// it -- whether that's the direct target of SetCell or a position a
	// formula references and therefore materializes as an Empty
	// placeholder -- and uncounted only when the cell is actually dropped
	// from storage (ClearCell with no remaining dependents). Re-setting an
	// already-materialized cell never re-triggers the count.
	rowCounts map[int]int
	colCounts map[int]int

	// OnCellUpdated, if set, is called after every successful SetCell, and
	// after every ClearCell that finds a cell at pos, with the affected cell. cmd/sheetfs and cmd/sheetgui wire
	// this to publish change notifications.
	OnCellUpdated func(pos Position, c *Cell)
}

// NewSheet creates an empty Sheet. parse is the injected formula
// parser/evaluator; the Sheet holds no formula grammar of its own.
func NewSheet(parse ParseFunc) *Sheet {
	return &Sheet{
		parse:     parse,
		cells:     make(map[Position]*Cell),
		rowCounts: make(map[int]int),
		colCounts: make(map[int]int),
	}
}

// ensureCell returns the cell at pos, creating it as Empty if absent. Used
// both for the edit target and for materializing newly-referenced cells.
// Either way, the first time a position gets a Cell object it occupies its
// row and column: referencing a never-touched position (e.g. "=Z99") must
// grow the printable rectangle exactly as setting it directly would, since
// the reference materializes a real stored cell there, just an Empty one.
func (s *Sheet) ensureCell(pos Position) *Cell {
	if c, ok := s.cells[pos]; ok {
		return c
	}
	c := newCell(pos, s)
	s.cells[pos] = c
	s.occupy(pos)
	return c
}

// SetCell parses and commits text at pos, materializing referenced cells,
// rejecting cycles, and invalidating dependent caches. It returns
// *InvalidPositionError, *FormulaParseError, or *CircularDependencyError.
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.Valid() {
		return &InvalidPositionError{Pos: pos}
	}
	cell := s.ensureCell(pos)

	if err := cell.Set(text); err != nil {
		return err
	}

	if s.OnCellUpdated != nil {
		s.OnCellUpdated(pos, cell)
	}
	return nil
}

// GetCell returns the cell stored at pos, or nil if unallocated.
func (s *Sheet) GetCell(pos Position) (*Cell, error) {
	if !pos.Valid() {
		return nil, &InvalidPositionError{Pos: pos}
	}
	return s.cells[pos], nil
}

// ClearCell collapses the cell at pos to Empty. Its dependents' caches are
// invalidated transitively, just as on a body swap. If the cell has no
// remaining dependents once cleared, it is dropped from storage entirely
// and its position uncounted from the printable rectangle; otherwise it
// lingers as an Empty placeholder so existing in_edges stay valid, and it
// keeps occupying its row and column.
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.Valid() {
		return &InvalidPositionError{Pos: pos}
	}
	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}
	cell.clear()
	if len(cell.inEdges) == 0 {
		delete(s.cells, pos)
		s.unoccupy(pos)
	}
	if s.OnCellUpdated != nil {
		s.OnCellUpdated(pos, cell)
	}
	return nil
}

func (s *Sheet) occupy(pos Position) {
	s.rowCounts[pos.Row]++
	s.colCounts[pos.Col]++
}

func (s *Sheet) unoccupy(pos Position) {
	decrement(s.rowCounts, pos.Row)
	decrement(s.colCounts, pos.Col)
}

func decrement(counts map[int]int, key int) {
	if counts[key] <= 1 {
		delete(counts, key)
		return
	}
	counts[key]--
}

// PrintableSize is (0,0) when no cell is occupied, or
// (max_occupied_row+1, max_occupied_col+1) otherwise.
func (s *Sheet) PrintableSize() (rows, cols int) {
	if len(s.rowCounts) == 0 || len(s.colCounts) == 0 {
		return 0, 0
	}
	return maxKey(s.rowCounts) + 1, maxKey(s.colCounts) + 1
}

func maxKey(counts map[int]int) int {
	max := 0
	first := true
	for k := range counts {
		if first || k > max {
			max = k
			first = false
		}
	}
	return max
}

// lookup is the closure a Formula cell's evaluator uses to resolve a
// referenced position's numeric value.
func (s *Sheet) lookup(pos Position) (float64, *FormulaError) {
	if !pos.Valid() {
		return 0, &FormulaError{Category: ErrRef}
	}
	cell, ok := s.cells[pos]
	if !ok {
		return 0, nil
	}
	return numericValue(cell.Value())
}

func numericValue(v CellValue) (float64, *FormulaError) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindError:
		e := v.Err
		return 0, &e
	default:
		return parseStrictFloat(v.Str)
	}
}

// PrintValues writes the grid's computed values: tab-separated per row,
// newline-terminated rows, over the full printable rectangle.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printGrid(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.Value().String()
	})
}

// PrintTexts writes the grid's text() representation (formulas keep their
// leading '=') over the full printable rectangle.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printGrid(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.Text()
	})
}

func (s *Sheet) printGrid(w io.Writer, render func(*Cell) string) error {
	rows, cols := s.PrintableSize()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			cell := s.cells[Position{Row: r, Col: c}]
			if _, err := io.WriteString(w, render(cell)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
