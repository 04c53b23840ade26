package check

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jetlint.dev/pkg/lint"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	caretMark    = color.New(color.FgGreen, color.Bold)
)

// printDiagnostics renders every diagnostic of one file, each followed by
// the offending source line and a caret marker underneath the reported range.
func printDiagnostics(w io.Writer, res fileResult) {
	lines := strings.Split(res.Source, "\n")
	for _, d := range res.Diags {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", res.Path, d.Start.Line, d.Start.Col, severityLabel(d.Severity), d.Message)
		if d.Start.Line < 1 || d.Start.Line > len(lines) {
			continue
		}
		line := strings.TrimSuffix(lines[d.Start.Line-1], "\r")
		pad, marker := markerFor(line, d)
		fmt.Fprintf(w, "  %s\n", line)
		fmt.Fprintf(w, "  %s%s\n", pad, caretMark.Sprint(marker))
	}
}

func severityLabel(s lint.Severity) string {
	if s == lint.SeverityWarning {
		return warningLabel.Sprint("warning")
	}
	return errorLabel.Sprint("error")
}

// markerFor computes the padding that aligns a marker under a diagnostic,
// plus the marker itself. Tabs are mirrored into the padding so alignment
// survives whatever tab width the terminal renders; every other character
// contributes spaces matching its display width. Columns count UTF-16 units
// while the marker spans display cells, so the two are tracked separately.
func markerFor(line string, d lint.Diagnostic) (pad, marker string) {
	startCol := d.Start.Col
	endCol := d.End.Col
	if d.End.Line != d.Start.Line || endCol <= startCol {
		endCol = startCol + 1
	}

	var padding strings.Builder
	markerCells := 0
	col := 1
	for _, r := range line {
		if col >= endCol {
			break
		}
		width := runewidth.RuneWidth(r)
		if col < startCol {
			if r == '\t' {
				padding.WriteByte('\t')
			} else {
				padding.WriteString(strings.Repeat(" ", width))
			}
		} else {
			markerCells += max(width, 1)
		}
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
	}
	if markerCells == 0 {
		markerCells = 1
	}
	return padding.String(), "^" + strings.Repeat("~", markerCells-1)
}
