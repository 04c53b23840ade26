package lint

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType classifies a scanned token.
type TokenType int

const (
	Ident TokenType = iota
	Keyword
	String   // '...' or "..." literal
	Template // `...` literal, including any ${...} substitutions
	Number
	Punct
)

// Token is one lexical token of a JavaScript source text.
//
// Start and End follow the linter's position convention: 1-based line and
// 1-based column counted in UTF-16 code units. End points one past the last
// character of the token.
type Token struct {
	Type   TokenType
	Lexeme string
	Start  Pos
	End    Pos
}

// keywords holds the JavaScript reserved words plus the contextual keywords
// the rules care about.
var keywords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "else": true,
	"enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "let": true,
	"new": true, "null": true, "of": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true,
	"undefined": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// Multi-character punctuators, matched longest first.
var (
	punct4 = map[string]bool{">>>=": true}
	punct3 = map[string]bool{
		"===": true, "!==": true, "**=": true, "<<=": true, ">>=": true,
		">>>": true, "...": true, "&&=": true, "||=": true, "??=": true,
	}
	punct2 = map[string]bool{
		"=>": true, "==": true, "!=": true, "<=": true, ">=": true,
		"&&": true, "||": true, "??": true, "?.": true, "++": true,
		"--": true, "+=": true, "-=": true, "*=": true, "/=": true,
		"%=": true, "&=": true, "|=": true, "^=": true, "<<": true,
		">>": true, "**": true,
	}
)

// lexer scans a JavaScript source text into tokens.
//
// It is a recovering scanner, not a validator: unterminated strings,
// comments, and templates consume what is there and scanning carries on.
// Regular expression literals are not recognized; they scan as punctuation.
type lexer struct {
	src  string
	off  int
	line int // 1-based
	col  int // 1-based, counted in UTF-16 code units
}

func newLexer(src string) *lexer {
	l := &lexer{src: src, line: 1, col: 1}
	// Skip a UTF-8 byte order mark; it does not occupy a column.
	if strings.HasPrefix(src, "\uFEFF") {
		l.off = len("\uFEFF")
	}
	return l
}

func (l *lexer) pos() Pos {
	return Pos{Line: l.line, Col: l.col}
}

func (l *lexer) byteAt(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

// advance consumes one rune, updating the line and column counters.
func (l *lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
		return
	}
	l.col += utf16Len(r)
}

// utf16Len returns how many UTF-16 code units encode r.
func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// scan tokenizes the whole source text.
func (l *lexer) scan() []Token {
	var tokens []Token
	for {
		l.skipSpace()
		if l.off >= len(l.src) {
			return tokens
		}
		start := l.pos()
		startOff := l.off
		typ := Punct
		switch c := l.src[l.off]; {
		case c == '"' || c == '\'':
			l.scanString(c)
			typ = String
		case c == '`':
			l.scanTemplate()
			typ = Template
		case isDigit(c) || (c == '.' && isDigit(l.byteAt(l.off+1))):
			l.scanNumber()
			typ = Number
		case isIdentStart(c):
			l.scanIdent()
			typ = Ident
		case c >= utf8.RuneSelf:
			if r, _ := utf8.DecodeRuneInString(l.src[l.off:]); unicode.IsLetter(r) {
				l.scanIdent()
				typ = Ident
			} else {
				l.advance()
			}
		default:
			l.scanPunct()
		}
		lexeme := l.src[startOff:l.off]
		if typ == Ident && keywords[lexeme] {
			typ = Keyword
		}
		tokens = append(tokens, Token{Type: typ, Lexeme: lexeme, Start: start, End: l.pos()})
	}
}

// skipSpace consumes whitespace and comments.
func (l *lexer) skipSpace() {
	for l.off < len(l.src) {
		switch c := l.src[l.off]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.byteAt(l.off+1) == '/':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		case c == '/' && l.byteAt(l.off+1) == '*':
			l.advance()
			l.advance()
			for l.off < len(l.src) {
				if l.src[l.off] == '*' && l.byteAt(l.off+1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// scanString consumes a quoted string literal. A raw newline ends the token
// early so that scanning recovers on the next line.
func (l *lexer) scanString(quote byte) {
	l.advance() // opening quote
	for l.off < len(l.src) {
		c := l.src[l.off]
		if c == '\n' {
			return
		}
		l.advance()
		if c == quote {
			return
		}
		if c == '\\' && l.off < len(l.src) && l.src[l.off] != '\n' {
			l.advance()
		}
	}
}

// scanTemplate consumes a template literal, including ${...} substitutions.
// Substitutions are skipped by brace counting only.
func (l *lexer) scanTemplate() {
	l.advance() // opening backtick
	for l.off < len(l.src) {
		switch c := l.src[l.off]; {
		case c == '`':
			l.advance()
			return
		case c == '\\':
			l.advance()
			if l.off < len(l.src) {
				l.advance()
			}
		case c == '$' && l.byteAt(l.off+1) == '{':
			l.advance()
			l.advance()
			depth := 1
			for l.off < len(l.src) && depth > 0 {
				switch l.src[l.off] {
				case '{':
					depth++
				case '}':
					depth--
				}
				l.advance()
			}
		default:
			l.advance()
		}
	}
}

// scanNumber consumes a numeric literal: decimal, hex, fraction, exponent.
func (l *lexer) scanNumber() {
	if l.src[l.off] == '0' && (l.byteAt(l.off+1) == 'x' || l.byteAt(l.off+1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.byteAt(l.off)) {
			l.advance()
		}
		return
	}
	for isDigit(l.byteAt(l.off)) {
		l.advance()
	}
	if l.byteAt(l.off) == '.' && isDigit(l.byteAt(l.off+1)) {
		l.advance()
		for isDigit(l.byteAt(l.off)) {
			l.advance()
		}
	}
	if c := l.byteAt(l.off); c == 'e' || c == 'E' {
		i := l.off + 1
		if c := l.byteAt(i); c == '+' || c == '-' {
			i++
		}
		if isDigit(l.byteAt(i)) {
			for l.off < i {
				l.advance()
			}
			for isDigit(l.byteAt(l.off)) {
				l.advance()
			}
		}
	}
}

// scanIdent consumes an identifier or keyword.
func (l *lexer) scanIdent() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		if c < utf8.RuneSelf {
			if !isIdentPart(c) {
				return
			}
			l.advance()
			continue
		}
		r, _ := utf8.DecodeRuneInString(l.src[l.off:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		l.advance()
	}
}

// scanPunct consumes one punctuator, longest match first.
func (l *lexer) scanPunct() {
	for _, table := range []struct {
		n   int
		set map[string]bool
	}{{4, punct4}, {3, punct3}, {2, punct2}} {
		if l.off+table.n <= len(l.src) && table.set[l.src[l.off:l.off+table.n]] {
			for i := 0; i < table.n; i++ {
				l.advance()
			}
			return
		}
	}
	l.advance()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
