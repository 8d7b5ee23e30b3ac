// Command sheetcli is an interactive line-oriented REPL over a single
// in-memory sheet: SET/GET/CLEAR cells by address, with a boxed-table
// rendering of the grid after every command that does not fail.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	sheet "github.com/haldor/cellsheet"
	"github.com/haldor/cellsheet/formula"
)

// cfg holds REPL display state.
type cfg struct {
	showText bool
}

func doCommand(s *sheet.Sheet, c *cfg, scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		return "", io.EOF
	}

	cmd := strings.SplitN(strings.TrimSpace(scanner.Text()), " ", 3)
	if len(cmd) == 0 || cmd[0] == "" {
		return "", nil
	}

	switch strings.ToUpper(cmd[0]) {
	case "EDIT":
		c.showText = !c.showText
		return fmt.Sprintf("SHOWTEXT = %t", c.showText), nil
	case "SET":
		if len(cmd) < 3 {
			return "", fmt.Errorf("SET expects 2 arguments - SET [address] [value]")
		}
		pos := sheet.ParsePosition(cmd[1])
		if err := s.SetCell(pos, cmd[2]); err != nil {
			return "", err
		}
		return "OK", nil
	case "GET":
		if len(cmd) < 2 {
			return "", fmt.Errorf("GET expects 1 argument - GET [address]")
		}
		pos := sheet.ParsePosition(cmd[1])
		c, err := s.GetCell(pos)
		if err != nil {
			return "", err
		}
		if c == nil {
			return "(empty)", nil
		}
		return fmt.Sprintf("text=%q value=%s", c.Text(), c.Value().String()), nil
	case "CLEAR":
		if len(cmd) < 2 {
			return "", fmt.Errorf("CLEAR expects 1 argument - CLEAR [address]")
		}
		pos := sheet.ParsePosition(cmd[1])
		if err := s.ClearCell(pos); err != nil {
			return "", err
		}
		return "OK", nil
	case "QUIT", "EXIT":
		return "", io.EOF
	default:
		return "", fmt.Errorf("unknown command %s", cmd[0])
	}
}

// columnLabel renders a zero-indexed column as its bare A1-style letters,
// by stripping the "1" row suffix off a row-0 position string.
func columnLabel(col int) string {
	addr := sheet.Position{Row: 0, Col: col}.String()
	return addr[:len(addr)-1]
}

func writeSheet(s *sheet.Sheet, c *cfg) {
	rows, cols := s.PrintableSize()
	if rows == 0 || cols == 0 {
		fmt.Println("(empty sheet)")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	header := make([]string, cols+1)
	header[0] = ""
	for col := 0; col < cols; col++ {
		header[col+1] = columnLabel(col)
	}
	table.SetHeader(header)

	for r := 0; r < rows; r++ {
		row := make([]string, cols+1)
		row[0] = strconv.Itoa(r + 1)
		for col := 0; col < cols; col++ {
			pos := sheet.Position{Row: r, Col: col}
			cell, err := s.GetCell(pos)
			if err != nil || cell == nil {
				row[col+1] = ""
				continue
			}
			if c.showText {
				row[col+1] = cell.Text()
			} else {
				row[col+1] = cell.Value().String()
			}
		}
		table.Append(row)
	}
	table.Render()
}

func main() {
	s := sheet.NewSheet(formula.Parse)
	scanner := bufio.NewScanner(os.Stdin)
	var c cfg

	fmt.Println("sheetcli - SET/GET/CLEAR [address] [value]; EDIT toggles text view; QUIT to exit")
	writeSheet(s, &c)
	for {
		fmt.Print("sheetcli> ")
		response, err := doCommand(s, &c, scanner)
		if err == io.EOF {
			return
		} else if err != nil {
			fmt.Println(err)
			continue
		}
		writeSheet(s, &c)
		if response != "" {
			fmt.Println(response)
		}
	}
}
