// Command sheetgui is a minimal Plan 9-style window that paints a
// sheet's occupied cells as text, redrawing on every committed edit.
package main

import (
	"image"
	"log"

	"9fans.net/go/draw"

	sheet "github.com/haldor/cellsheet"
	"github.com/haldor/cellsheet/formula"
)

const (
	cellWidth  = 80
	cellHeight = 20
)

func render(display *draw.Display, s *sheet.Sheet) error {
	screen := display.ScreenImage
	screen.Draw(screen.R, display.White, nil, image.Point{})

	rows, cols := s.PrintableSize()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pos := sheet.Position{Row: r, Col: c}
			cell, err := s.GetCell(pos)
			if err != nil || cell == nil {
				continue
			}
			text := cell.Value().String()
			if text == "" {
				continue
			}
			pt := image.Pt(c*cellWidth, r*cellHeight)
			screen.String(pt, display.Black, image.Point{}, display.DefaultFont, text)
		}
	}
	return display.Flush()
}

func main() {
	errors := make(chan error, 10)
	display, err := draw.Init(errors, "/lib/font/bit/Go-Regular/unicode.14.font", "sheetgui", "1024x768")
	if err != nil {
		log.Fatalf("draw.Init: %s\n", err)
	}

	s := sheet.NewSheet(formula.Parse)
	s.OnCellUpdated = func(pos sheet.Position, c *sheet.Cell) {
		if err := render(display, s); err != nil {
			log.Printf("sheetgui: render: %s\n", err)
		}
	}

	if err := render(display, s); err != nil {
		log.Fatalf("sheetgui: render: %s\n", err)
	}

	for err := range errors {
		log.Printf("sheetgui: display error: %s\n", err)
	}
}
