package check

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	qt "github.com/frankban/quicktest"

	"jetlint.dev/pkg/lint"
)

func TestPrintDiagnostics(t *testing.T) {
	c := qt.New(t)
	c.Patch(&color.NoColor, true)

	src := "let x = x;\n"
	linter := lint.New(lint.DefaultOptions())
	res := fileResult{Path: "bad.js", Source: src, Diags: linter.Lint(src)}

	var buf bytes.Buffer
	printDiagnostics(&buf, res)

	c.Assert(buf.String(), qt.Equals, strings.Join([]string{
		"bad.js:1:9: error: variable used before declaration: x",
		"  let x = x;",
		"          ^",
		"",
	}, "\n"))
}

func TestPrintDiagnosticsWarningSeverity(t *testing.T) {
	c := qt.New(t)
	c.Patch(&color.NoColor, true)

	res := fileResult{
		Path:   "odd.js",
		Source: "f(x);\n",
		Diags: []lint.Diagnostic{{
			Rule:     "example",
			Message:  "something looks off",
			Severity: lint.SeverityWarning,
			Start:    lint.Pos{Line: 1, Col: 3},
			End:      lint.Pos{Line: 1, Col: 4},
		}},
	}

	var buf bytes.Buffer
	printDiagnostics(&buf, res)

	c.Assert(buf.String(), qt.Equals, strings.Join([]string{
		"odd.js:1:3: warning: something looks off",
		"  f(x);",
		"    ^",
		"",
	}, "\n"))
}

func TestMarkerForSpansRange(t *testing.T) {
	c := qt.New(t)

	pad, marker := markerFor("let abc = abc;", lint.Diagnostic{
		Start: lint.Pos{Line: 1, Col: 11},
		End:   lint.Pos{Line: 1, Col: 14},
	})
	c.Assert(pad, qt.Equals, strings.Repeat(" ", 10))
	c.Assert(marker, qt.Equals, "^~~")
}

func TestMarkerForMirrorsTabs(t *testing.T) {
	c := qt.New(t)

	// The tab counts one column but must stay a tab in the padding so the
	// marker lines up regardless of the rendered tab width.
	pad, marker := markerFor("\tlet x = x;", lint.Diagnostic{
		Start: lint.Pos{Line: 1, Col: 10},
		End:   lint.Pos{Line: 1, Col: 11},
	})
	c.Assert(pad, qt.Equals, "\t"+strings.Repeat(" ", 8))
	c.Assert(marker, qt.Equals, "^")
}

func TestMarkerForWideRunes(t *testing.T) {
	c := qt.New(t)

	// Each CJK character counts one column but renders two cells wide.
	pad, marker := markerFor("f('世界', x);", lint.Diagnostic{
		Start: lint.Pos{Line: 1, Col: 9},
		End:   lint.Pos{Line: 1, Col: 10},
	})
	c.Assert(pad, qt.Equals, strings.Repeat(" ", 10))
	c.Assert(marker, qt.Equals, "^")
}

func TestMarkerForEmojiCountsTwoColumns(t *testing.T) {
	c := qt.New(t)

	// The emoji is outside the basic multilingual plane: two columns,
	// two display cells.
	pad, marker := markerFor("let s = '😀' + s;", lint.Diagnostic{
		Start: lint.Pos{Line: 1, Col: 16},
		End:   lint.Pos{Line: 1, Col: 17},
	})
	c.Assert(pad, qt.Equals, strings.Repeat(" ", 15))
	c.Assert(marker, qt.Equals, "^")
}

func TestMarkerForZeroWidthRange(t *testing.T) {
	c := qt.New(t)

	pad, marker := markerFor("f();", lint.Diagnostic{
		Start: lint.Pos{Line: 1, Col: 2},
		End:   lint.Pos{Line: 1, Col: 2},
	})
	c.Assert(pad, qt.Equals, " ")
	c.Assert(marker, qt.Equals, "^")
}
