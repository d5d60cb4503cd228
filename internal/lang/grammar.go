package lang

// Lexer variants, one per language family.

// CLikeGrammar covers C and Java: // and /* */ comments, "..." strings and
// '...' character literals with backslash escapes.
func CLikeGrammar() Grammar {
	return Grammar{
		Family:        "c-like",
		LineComments:  []string{"//"},
		BlockComments: []Delimiters{{Open: "/*", Close: "*/"}},
		Quotes: []Quote{
			{Open: `"`, Close: `"`, Escape: '\\'},
			{Open: "'", Close: "'", Escape: '\\'},
		},
	}
}

// PythonGrammar treats triple-quoted literals as block comments, so
// docstrings disappear along with # comments.
func PythonGrammar() Grammar {
	return Grammar{
		Family:       "python",
		LineComments: []string{"#"},
		BlockComments: []Delimiters{
			{Open: "'''", Close: "'''"},
			{Open: `"""`, Close: `"""`},
		},
		Quotes: []Quote{
			{Open: `"`, Close: `"`, Escape: '\\'},
			{Open: "'", Close: "'", Escape: '\\'},
		},
	}
}

// MatlabGrammar has % comments, %{ %} blocks and two string forms. A quote
// directly after an operand is the transpose operator.
func MatlabGrammar() Grammar {
	return Grammar{
		Family:        "matlab",
		LineComments:  []string{"%"},
		BlockComments: []Delimiters{{Open: "%{", Close: "%}"}},
		Quotes: []Quote{
			{Open: `"`, Close: `"`, Doubled: true},
			{Open: "'", Close: "'", Doubled: true, AfterValueIsOperator: true},
		},
	}
}
