package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Profile is the immutable lexical description of one supported language.
type Profile struct {
	name      string
	extension string
	grammar   Grammar
	keywords  map[string]struct{}
}

// NewProfile builds a profile. The grammar and keyword slice are copied.
func NewProfile(name, extension string, grammar Grammar, keywords []string) *Profile {
	kw := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		kw[k] = struct{}{}
	}
	g := Grammar{
		Family:        grammar.Family,
		LineComments:  append([]string(nil), grammar.LineComments...),
		BlockComments: append([]Delimiters(nil), grammar.BlockComments...),
		Quotes:        append([]Quote(nil), grammar.Quotes...),
	}
	return &Profile{
		name:      strings.ToLower(name),
		extension: extension,
		grammar:   g,
		keywords:  kw,
	}
}

// Name returns the lowercase language name
func (p *Profile) Name() string { return p.name }

// Extension returns the file extension including the leading dot
func (p *Profile) Extension() string { return p.extension }

// Family returns the lexer variant name
func (p *Profile) Family() string { return p.grammar.Family }

// LineComments returns the one-line comment markers
func (p *Profile) LineComments() []string {
	return append([]string(nil), p.grammar.LineComments...)
}

// BlockComments returns the block comment delimiter pairs
func (p *Profile) BlockComments() []Delimiters {
	return append([]Delimiters(nil), p.grammar.BlockComments...)
}

// NewLexer returns a string-literal aware lexer over src
func (p *Profile) NewLexer(src string) Lexer {
	return p.grammar.NewLexer(src)
}

// IsKeyword reports whether word is reserved in this language
func (p *Profile) IsKeyword(word string) bool {
	_, ok := p.keywords[word]
	return ok
}

// IsMaskable reports whether word is an identifier subject to masking.
func (p *Profile) IsMaskable(word string) bool {
	return IsIdentifier(word) && !p.IsKeyword(word)
}

// Keywords returns the keyword set in sorted order
func (p *Profile) Keywords() []string {
	out := make([]string, 0, len(p.keywords))
	for k := range p.keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks that every field is populated
func (p *Profile) Validate() error {
	switch {
	case p.name == "":
		return fmt.Errorf("language profile has no name")
	case !strings.HasPrefix(p.extension, ".") || len(p.extension) < 2:
		return fmt.Errorf("language %s: invalid extension %q", p.name, p.extension)
	case len(p.grammar.LineComments) == 0:
		return fmt.Errorf("language %s: no line comment marker", p.name)
	case len(p.grammar.BlockComments) == 0:
		return fmt.Errorf("language %s: no block comment delimiters", p.name)
	case len(p.grammar.Quotes) == 0:
		return fmt.Errorf("language %s: no string literal forms", p.name)
	case len(p.keywords) == 0:
		return fmt.Errorf("language %s: empty keyword set", p.name)
	}
	for _, m := range p.grammar.LineComments {
		if m == "" {
			return fmt.Errorf("language %s: empty line comment marker", p.name)
		}
	}
	for _, d := range p.grammar.BlockComments {
		if d.Open == "" || d.Close == "" {
			return fmt.Errorf("language %s: empty block comment delimiter", p.name)
		}
	}
	for _, q := range p.grammar.Quotes {
		if q.Open == "" || q.Close == "" {
			return fmt.Errorf("language %s: empty quote delimiter", p.name)
		}
	}
	return nil
}

// Built-in profiles.

// Java returns the Java profile
func Java() *Profile {
	return NewProfile("java", ".java", CLikeGrammar(), []string{
		"case", "switch", "if", "for", "while", "void", "int", "float",
		"double", "char", "do", "else", "break", "long", "short", "boolean",
		"byte", "return", "class", "interface", "enum",
	})
}

// Python returns the Python profile
func Python() *Profile {
	return NewProfile("python", ".py", PythonGrammar(), []string{
		"def", "for", "if", "while", "class", "return", "and", "pass", "in",
		"try", "except", "print", "input", "from", "not", "or", "else", "elif",
	})
}

// C returns the C profile
func C() *Profile {
	return NewProfile("c", ".c", CLikeGrammar(), []string{
		"case", "switch", "if", "for", "while", "struct", "void", "typedef",
		"int", "float", "double", "char", "do", "else", "const", "break",
		"long", "short", "signed", "include", "define", "return",
	})
}

// Matlab returns the MATLAB profile
func Matlab() *Profile {
	return NewProfile("matlab", ".m", MatlabGrammar(), []string{
		"break", "case", "catch", "continue", "for", "function", "if",
		"return", "switch", "try", "while", "else",
	})
}
