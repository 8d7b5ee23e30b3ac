// Command sheetfs exposes a sheet as a 9P filesystem: writes to ctl
// (`SET addr text` / `CLEAR addr`) edit cells; reads from updates stream
// an "addr len value" line for every committed change.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"strings"

	"github.com/knusbaum/go9p"
	"github.com/knusbaum/go9p/fs"

	sheet "github.com/haldor/cellsheet"
	"github.com/haldor/cellsheet/formula"
)

// applyLine parses one ctl line and applies it to s. Accepted forms:
//
//	SET <addr> <text>
//	CLEAR <addr>
func applyLine(s *sheet.Sheet, line string) error {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}
	fields := strings.SplitN(line, " ", 3)
	switch strings.ToUpper(fields[0]) {
	case "SET":
		if len(fields) < 3 {
			return fmt.Errorf("SET expects 2 arguments - SET [address] [value]")
		}
		return s.SetCell(sheet.ParsePosition(fields[1]), fields[2])
	case "CLEAR":
		if len(fields) < 2 {
			return fmt.Errorf("CLEAR expects 1 argument - CLEAR [address]")
		}
		return s.ClearCell(sheet.ParsePosition(fields[1]))
	default:
		return fmt.Errorf("unknown command %s", fields[0])
	}
}

func main() {
	srvName := flag.String("name", "sheetfs", "9P service name to post")
	owner := flag.String("owner", "glenda", "owner/group for the posted filesystem")
	flag.Parse()

	sheetFS := fs.NewFS(*owner, *owner, 0555)

	outputStream := fs.NewStream(100, false)
	updates := fs.NewStreamFile(sheetFS.NewStat("updates", *owner, *owner, 0444), outputStream)
	sheetFS.Root.AddChild(updates)

	inputStream := fs.NewStream(100, false)
	ctl := fs.NewStreamFile(sheetFS.NewStat("ctl", *owner, *owner, 0222), inputStream)
	sheetFS.Root.AddChild(ctl)

	s := sheet.NewSheet(formula.Parse)
	s.OnCellUpdated = func(pos sheet.Position, c *sheet.Cell) {
		value := c.Value().String()
		outputStream.Write([]byte(fmt.Sprintf("%s %d %s\n", pos.String(), len(value), value)))
	}

	go func() {
		r := inputStream.AddReader()
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				if err := applyLine(s, line); err != nil {
					fmt.Printf("sheetfs: %s\n", err)
				}
			}
			if err != nil {
				fmt.Printf("sheetfs: ctl read failed: %s\n", err)
				return
			}
		}
	}()

	go9p.PostSrv(*srvName, sheetFS.Server())
}
