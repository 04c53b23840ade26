// Package lint checks JavaScript source texts for common bugs.
//
// The checks are scanner based: source is tokenized and rules walk the token
// stream. There is no full parse, so the rules trade completeness for speed
// and resilience to broken input.
package lint

import "sort"

// Pos is a 1-based source position. Col counts UTF-16 code units, matching
// how the Language Server Protocol measures columns.
type Pos struct {
	Line int
	Col  int
}

// Severity grades a diagnostic, using LSP numbering.
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
)

// Rule names, as reported in Diagnostic.Rule and used in configuration.
const (
	RuleUseBeforeDeclaration = "use-before-declaration"
	RuleUnmatchedBracket     = "unmatched-bracket"
)

// Diagnostic is one finding in a source text. End is exclusive and may sit
// on a later line than Start.
type Diagnostic struct {
	Rule     string
	Message  string
	Severity Severity
	Start    Pos
	End      Pos
}

// Options toggles individual rules. The zero value disables every rule;
// use DefaultOptions for the default set.
type Options struct {
	UseBeforeDeclaration bool
	UnmatchedBracket     bool
}

// DefaultOptions enables every rule.
func DefaultOptions() Options {
	return Options{
		UseBeforeDeclaration: true,
		UnmatchedBracket:     true,
	}
}

// Linter checks JavaScript source texts.
type Linter struct {
	opts Options
}

// New returns a Linter running the rules enabled in opts.
func New(opts Options) *Linter {
	return &Linter{opts: opts}
}

// Lint scans source and returns its diagnostics, ordered by position.
func (l *Linter) Lint(source string) []Diagnostic {
	tokens := newLexer(source).scan()
	var diags []Diagnostic
	if l.opts.UseBeforeDeclaration {
		diags = append(diags, checkUseBeforeDeclaration(tokens)...)
	}
	if l.opts.UnmatchedBracket {
		diags = append(diags, checkBrackets(tokens)...)
	}
	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		if a.Start.Col != b.Start.Col {
			return a.Start.Col < b.Start.Col
		}
		return a.Rule < b.Rule
	})
	return diags
}
