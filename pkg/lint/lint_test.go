package lint

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var diagEquals = qt.CmpEquals(cmpopts.EquateEmpty())

func TestUseBeforeDeclaration(t *testing.T) {
	c := qt.New(t)
	linter := New(Options{UseBeforeDeclaration: true})

	tests := []struct {
		name string
		src  string
		want []Diagnostic
	}{
		{
			name: "use in own initializer",
			src:  "let x = x;",
			want: []Diagnostic{{
				Rule:     RuleUseBeforeDeclaration,
				Message:  "variable used before declaration: x",
				Severity: SeverityError,
				Start:    Pos{1, 9},
				End:      Pos{1, 10},
			}},
		},
		{
			name: "use inside call argument",
			src:  "const y = compute(y);",
			want: []Diagnostic{{
				Rule:     RuleUseBeforeDeclaration,
				Message:  "variable used before declaration: y",
				Severity: SeverityError,
				Start:    Pos{1, 19},
				End:      Pos{1, 20},
			}},
		},
		{
			name: "no semicolon",
			src:  "var z = z",
			want: []Diagnostic{{
				Rule:     RuleUseBeforeDeclaration,
				Message:  "variable used before declaration: z",
				Severity: SeverityError,
				Start:    Pos{1, 9},
				End:      Pos{1, 10},
			}},
		},
		{
			name: "second declarator",
			src:  "let a = 1, b = b;",
			want: []Diagnostic{{
				Rule:     RuleUseBeforeDeclaration,
				Message:  "variable used before declaration: b",
				Severity: SeverityError,
				Start:    Pos{1, 16},
				End:      Pos{1, 17},
			}},
		},
		{
			name: "declaration inside function body",
			src:  "let f = function() { let b = b; };",
			want: []Diagnostic{{
				Rule:     RuleUseBeforeDeclaration,
				Message:  "variable used before declaration: b",
				Severity: SeverityError,
				Start:    Pos{1, 30},
				End:      Pos{1, 31},
			}},
		},
		{name: "use after declaration", src: "let x = 1; x = x;"},
		{name: "property access is not a use", src: "let x = o.x;"},
		{name: "object key is not a use", src: "let x = {x: 1};"},
		{name: "function body use is deferred", src: "let f = function() { return f; };"},
		{name: "named function expression", src: "let f = function fact(n) { return fact(n - 1); };"},
		{name: "arrow body use is deferred", src: "let f = () => f;"},
		{name: "braced arrow body use is deferred", src: "let f = () => { return f; };"},
		{name: "shadowing parameter", src: "let g = (f) => f(1);"},
		{name: "for loop header", src: "for (let i = 0; i < 10; i++) {}"},
		{name: "for-of loop header", src: "for (let v of vs) { use(v); }"},
		{name: "declaration without initializer", src: "let x;"},
		{name: "destructuring is not checked", src: "let {x} = {x: 1};"},
		{name: "same name in a string", src: "let x = 'x';"},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(linter.Lint(tt.src), diagEquals, tt.want)
		})
	}
}

func TestUnmatchedBracket(t *testing.T) {
	c := qt.New(t)
	linter := New(Options{UnmatchedBracket: true})

	tests := []struct {
		name string
		src  string
		want []Diagnostic
	}{
		{
			name: "unclosed paren",
			src:  "(",
			want: []Diagnostic{{
				Rule:     RuleUnmatchedBracket,
				Message:  "unclosed '('",
				Severity: SeverityError,
				Start:    Pos{1, 1},
				End:      Pos{1, 2},
			}},
		},
		{
			name: "stray closer",
			src:  ")",
			want: []Diagnostic{{
				Rule:     RuleUnmatchedBracket,
				Message:  "unmatched ')'",
				Severity: SeverityError,
				Start:    Pos{1, 1},
				End:      Pos{1, 2},
			}},
		},
		{
			name: "mismatched pair reports both sides",
			src:  "f(a[0);",
			want: []Diagnostic{
				{
					Rule:     RuleUnmatchedBracket,
					Message:  "unclosed '('",
					Severity: SeverityError,
					Start:    Pos{1, 2},
					End:      Pos{1, 3},
				},
				{
					Rule:     RuleUnmatchedBracket,
					Message:  "unclosed '['",
					Severity: SeverityError,
					Start:    Pos{1, 4},
					End:      Pos{1, 5},
				},
				{
					Rule:     RuleUnmatchedBracket,
					Message:  "unmatched ')'",
					Severity: SeverityError,
					Start:    Pos{1, 6},
					End:      Pos{1, 7},
				},
			},
		},
		{name: "balanced nesting", src: "f(a[b], {c: [d]})"},
		{name: "brackets in strings do not count", src: "let s = '(' + \"]\";"},
		{name: "brackets in comments do not count", src: "// (\n/* ] */"},
		{name: "brackets in templates do not count", src: "let s = `([{`;"},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(linter.Lint(tt.src), diagEquals, tt.want)
		})
	}
}

func TestLintOrdersDiagnosticsByPosition(t *testing.T) {
	c := qt.New(t)
	linter := New(DefaultOptions())

	got := linter.Lint("(\nlet x = x;")
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0].Rule, qt.Equals, RuleUnmatchedBracket)
	c.Assert(got[0].Start, qt.Equals, Pos{1, 1})
	c.Assert(got[1].Rule, qt.Equals, RuleUseBeforeDeclaration)
	c.Assert(got[1].Start, qt.Equals, Pos{2, 9})
}

func TestOptionsDisableRules(t *testing.T) {
	c := qt.New(t)

	src := "(\nlet x = x;"
	c.Assert(New(Options{}).Lint(src), qt.HasLen, 0)
	c.Assert(New(Options{UnmatchedBracket: true}).Lint(src), qt.HasLen, 1)
	c.Assert(New(DefaultOptions()).Lint(src), qt.HasLen, 2)
}

func TestLintCleanSource(t *testing.T) {
	c := qt.New(t)
	linter := New(DefaultOptions())

	const src = `// A perfectly fine module.
const greeting = 'hello';
let count = 0;

function greet(name) {
	count++;
	return greeting + ', ' + name;
}

export { greet };
`
	c.Assert(linter.Lint(src), qt.HasLen, 0)
}
