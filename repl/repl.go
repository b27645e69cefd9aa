// Package repl is an interactive terminal shell over a sheet: set cells,
// inspect values, print the grid.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"cellar/grid"
	"cellar/spreadsheet"
)

const prompt = "cellar> "

type scannerResult struct {
	line string
	err  error
	ok   bool
}

// Start begins the shell session on a fresh sheet.
func Start(in io.Reader, out io.Writer) {
	sheet := spreadsheet.NewSheet()

	var (
		scanCh chan scannerResult
		tty    *ttyInput
	)
	if ti, ok := newTTYInput(in, out); ok {
		tty = ti
		defer tty.Close()
	} else {
		scanner := bufio.NewScanner(in)
		scanCh = make(chan scannerResult)
		go scanInput(scanner, scanCh)
	}

	sessionOut := out
	if tty != nil {
		// In raw TTY mode, normalize LF to CRLF so lines start in column 0.
		sessionOut = newTTYLineWriter(out)
	}

	fmt.Fprintf(sessionOut, "cellar - interactive sheet\n")
	fmt.Fprintf(sessionOut, "Set a cell with 'A1 <text>', read it back with 'A1'.\n")
	fmt.Fprintf(sessionOut, "Commands: :help, :texts, :values, :size, :clear <pos>, :quit\n\n")

	for {
		var (
			line string
			ok   bool
		)
		if tty != nil {
			line, ok = tty.readLine(prompt)
			if !ok {
				return
			}
		} else {
			fmt.Fprint(out, prompt)
			res, open := <-scanCh
			if !open || !res.ok {
				return
			}
			line = res.line
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if handleCommand(line, sessionOut, sheet) {
				return
			}
			continue
		}

		handleEdit(line, sessionOut, sheet)
	}
}

func scanInput(scanner *bufio.Scanner, ch chan<- scannerResult) {
	defer close(ch)
	for scanner.Scan() {
		ch <- scannerResult{line: scanner.Text(), ok: true}
	}
	ch <- scannerResult{err: scanner.Err()}
}

// handleEdit treats the line as "<pos>" (show the cell) or
// "<pos> <text>" (set the cell).
func handleEdit(line string, out io.Writer, sheet *spreadsheet.Sheet) {
	ref, rest, hasText := strings.Cut(line, " ")
	pos := grid.FromString(ref)
	if !pos.IsValid() {
		fmt.Fprintf(out, "not a cell position: %s (try :help)\n", ref)
		return
	}

	if !hasText {
		cell, err := sheet.GetCell(pos)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
			return
		}
		if cell == nil {
			fmt.Fprintf(out, "%s is empty\n", ref)
			return
		}
		fmt.Fprintf(out, "text:  %s\nvalue: %s\n", cell.GetText(), cell.GetValue())
		return
	}

	if err := sheet.SetCell(pos, rest); err != nil {
		fmt.Fprintf(out, "Error: %s\n", err)
		return
	}
	cell, _ := sheet.GetCell(pos)
	if cell != nil {
		fmt.Fprintf(out, "%s = %s\n", ref, cell.GetValue())
	}
}

// handleCommand processes shell commands (starting with :).
// Returns true if the shell should exit.
func handleCommand(cmd string, out io.Writer, sheet *spreadsheet.Sheet) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	switch name {
	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, "Goodbye!")
		return true

	case ":help", ":h":
		fmt.Fprintln(out, "Shell commands:")
		fmt.Fprintln(out, "  A1 <text>     - set a cell ('=1+2' for formulas, leading ' escapes)")
		fmt.Fprintln(out, "  A1            - show a cell's text and value")
		fmt.Fprintln(out, "  :clear <pos>  - clear a cell")
		fmt.Fprintln(out, "  :texts        - print the sheet's raw texts")
		fmt.Fprintln(out, "  :values       - print the sheet's computed values")
		fmt.Fprintln(out, "  :size         - show the printable size")
		fmt.Fprintln(out, "  :cls          - clear the screen (same as Ctrl+L)")
		fmt.Fprintln(out, "  :quit, :q     - exit")

	case ":clear":
		pos := grid.FromString(arg)
		if err := sheet.ClearCell(pos); err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
		}

	case ":texts":
		if err := sheet.PrintTexts(out); err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
		}

	case ":values":
		if err := sheet.PrintValues(out); err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
		}

	case ":size":
		size := sheet.GetPrintableSize()
		fmt.Fprintf(out, "%d rows x %d cols\n", size.Rows, size.Cols)

	case ":cls":
		clearScreen(out)

	default:
		fmt.Fprintf(out, "Unknown command: %s (try :help)\n", cmd)
	}

	return false
}
