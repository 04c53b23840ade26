package lint

import "fmt"

// checkUseBeforeDeclaration reports identifiers that appear inside their own
// declaration initializer, such as the second x in `let x = x;`. Uses inside
// function and arrow bodies are skipped: those run after the declaration
// completes.
func checkUseBeforeDeclaration(tokens []Token) []Diagnostic {
	var diags []Diagnostic
	for i, t := range tokens {
		if t.Type == Keyword && (t.Lexeme == "let" || t.Lexeme == "const" || t.Lexeme == "var") {
			checkDeclarators(tokens, i+1, &diags)
		}
	}
	return diags
}

// checkDeclarators walks the declarator list of one declaration statement,
// scanning each initializer for uses of the name being declared.
// Destructuring patterns are not checked.
func checkDeclarators(tokens []Token, i int, diags *[]Diagnostic) {
	for i < len(tokens) {
		if tokens[i].Type != Ident {
			return
		}
		name := tokens[i].Lexeme
		i++
		if i >= len(tokens) {
			return
		}
		if !isPunct(tokens[i], "=") {
			// No initializer: `let x;` or `let x, y = ...`.
			if isPunct(tokens[i], ",") {
				i++
				continue
			}
			return
		}
		i++
		end, done := scanInitializer(tokens, i, name, diags)
		if done {
			return
		}
		i = end + 1 // step past the comma onto the next declarator
	}
}

// scanInitializer walks the tokens of one initializer expression, reporting
// uses of name. It returns the index of the token that ended the initializer
// and whether that token also ends the whole declaration.
func scanInitializer(tokens []Token, i int, name string, diags *[]Diagnostic) (end int, done bool) {
	depth := 0
	for i < len(tokens) {
		t := tokens[i]
		switch {
		case isPunct(t, "(") || isPunct(t, "[") || isPunct(t, "{"):
			depth++
		case isPunct(t, ")") || isPunct(t, "]") || isPunct(t, "}"):
			if depth == 0 {
				return i, true
			}
			depth--
		case isPunct(t, ",") && depth == 0:
			return i, false
		case isPunct(t, ";") && depth == 0:
			return i, true
		case isPunct(t, "=>"):
			// Arrow bodies run after the declaration completes.
			i = skipArrowBody(tokens, i+1)
			continue
		case t.Type == Keyword && t.Lexeme == "function":
			i = skipFunctionBody(tokens, i+1)
			continue
		case t.Type == Ident && t.Lexeme == name && isUse(tokens, i):
			*diags = append(*diags, Diagnostic{
				Rule:     RuleUseBeforeDeclaration,
				Message:  "variable used before declaration: " + name,
				Severity: SeverityError,
				Start:    t.Start,
				End:      t.End,
			})
		}
		i++
	}
	return i, true
}

// isUse reports whether the identifier at i is a variable use rather than a
// property name, an object literal key, or an arrow function parameter.
func isUse(tokens []Token, i int) bool {
	if i > 0 {
		if p := tokens[i-1]; p.Type == Punct && (p.Lexeme == "." || p.Lexeme == "?.") {
			return false // property access: o.x
		}
	}
	if i+1 < len(tokens) {
		if n := tokens[i+1]; n.Type == Punct && (n.Lexeme == ":" || n.Lexeme == "=>") {
			return false // object literal key {x: 1} or arrow parameter x =>
		}
	}
	return true
}

// skipFunctionBody advances past a function expression starting just after
// the `function` keyword: optional name, parameter list, braced body.
func skipFunctionBody(tokens []Token, i int) int {
	if i < len(tokens) && tokens[i].Type == Ident {
		i++
	}
	if i < len(tokens) && isPunct(tokens[i], "(") {
		depth := 0
		for ; i < len(tokens); i++ {
			if isPunct(tokens[i], "(") {
				depth++
			} else if isPunct(tokens[i], ")") {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
		}
	}
	return skipBracedBlock(tokens, i)
}

// skipArrowBody advances past an arrow function body starting at i. A braced
// body is skipped wholesale; an expression body is skipped up to (but not
// including) the token that ends the current subexpression.
func skipArrowBody(tokens []Token, i int) int {
	if i < len(tokens) && isPunct(tokens[i], "{") {
		return skipBracedBlock(tokens, i)
	}
	depth := 0
	for ; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type != Punct {
			continue
		}
		switch t.Lexeme {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth == 0 {
				return i
			}
			depth--
		case ",", ";":
			if depth == 0 {
				return i
			}
		}
	}
	return i
}

// skipBracedBlock advances past one brace-balanced block starting at i.
// If i is not an opening brace it returns i unchanged.
func skipBracedBlock(tokens []Token, i int) int {
	if i >= len(tokens) || !isPunct(tokens[i], "{") {
		return i
	}
	depth := 0
	for ; i < len(tokens); i++ {
		switch {
		case isPunct(tokens[i], "{"):
			depth++
		case isPunct(tokens[i], "}"):
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// checkBrackets reports unbalanced (), [], and {} pairs. String, template,
// and comment contents never participate: the lexer already folded them into
// single tokens.
func checkBrackets(tokens []Token) []Diagnostic {
	var diags []Diagnostic
	var stack []Token
	for _, t := range tokens {
		if t.Type != Punct {
			continue
		}
		switch t.Lexeme {
		case "(", "[", "{":
			stack = append(stack, t)
		case ")", "]", "}":
			if len(stack) > 0 && stack[len(stack)-1].Lexeme == matchingOpen(t.Lexeme) {
				stack = stack[:len(stack)-1]
				continue
			}
			diags = append(diags, bracketDiag("unmatched", t))
		}
	}
	for _, t := range stack {
		diags = append(diags, bracketDiag("unclosed", t))
	}
	return diags
}

func matchingOpen(close string) string {
	switch close {
	case ")":
		return "("
	case "]":
		return "["
	default:
		return "{"
	}
}

func bracketDiag(kind string, t Token) Diagnostic {
	return Diagnostic{
		Rule:     RuleUnmatchedBracket,
		Message:  fmt.Sprintf("%s '%s'", kind, t.Lexeme),
		Severity: SeverityError,
		Start:    t.Start,
		End:      t.End,
	}
}

func isPunct(t Token, lexeme string) bool {
	return t.Type == Punct && t.Lexeme == lexeme
}
