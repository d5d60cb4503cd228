package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexeme
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenWhitespace
	TokenComment
	TokenWord
	TokenNumber
	TokenString
	TokenPunct
)

// String returns the token kind name
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenWhitespace:
		return "Whitespace"
	case TokenComment:
		return "Comment"
	case TokenWord:
		return "Word"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenPunct:
		return "Punct"
	default:
		return "Unknown"
	}
}

// Token is a slice of the source text. Concatenating the Text of every token
// up to EOF reproduces the input exactly.
type Token struct {
	Kind TokenKind
	Text string
}

// Lexer produces tokens one at a time until it returns a TokenEOF token.
type Lexer interface {
	NextToken() Token
}

// Delimiters is an opening/closing pair, used for block comments.
type Delimiters struct {
	Open  string
	Close string
}

// Quote describes one string-literal form.
type Quote struct {
	Open  string
	Close string
	// Escape skips the following byte when non-zero (backslash in C-like languages).
	Escape byte
	// Doubled treats two consecutive Close delimiters as an escaped delimiter.
	Doubled bool
	// Multiline lets the literal span newlines; otherwise it ends at end of line.
	Multiline bool
	// AfterValueIsOperator makes Open a plain operator when it directly follows
	// a value (MATLAB transpose).
	AfterValueIsOperator bool
}

// Grammar is the lexical description of one language family. Block comments
// are tried before line comments, and both before quotes, so longer markers
// sharing a prefix with shorter ones must be listed as block comments. A block
// opener without its closer falls through to the line and quote rules.
type Grammar struct {
	Family        string
	LineComments  []string
	BlockComments []Delimiters
	Quotes        []Quote
}

// NewLexer returns a lexer over src following the grammar
func (g *Grammar) NewLexer(src string) Lexer {
	return &scanner{src: src, g: g}
}

type scanner struct {
	src  string
	pos  int
	g    *Grammar
	prev Token
}

func (s *scanner) NextToken() Token {
	tok := s.next()
	s.prev = tok
	return tok
}

func (s *scanner) next() Token {
	if s.pos >= len(s.src) {
		return Token{Kind: TokenEOF}
	}
	start := s.pos
	rest := s.src[s.pos:]

	if isSpace(rest[0]) {
		for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
			s.pos++
		}
		return s.emit(TokenWhitespace, start)
	}

	for _, d := range s.g.BlockComments {
		if strings.HasPrefix(rest, d.Open) {
			end := strings.Index(rest[len(d.Open):], d.Close)
			if end < 0 {
				// an unclosed opener is not a comment; lex it as ordinary text
				continue
			}
			s.pos += len(d.Open) + end + len(d.Close)
			return s.emit(TokenComment, start)
		}
	}

	for _, marker := range s.g.LineComments {
		if strings.HasPrefix(rest, marker) {
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				s.pos += nl
			} else {
				s.pos = len(s.src)
			}
			return s.emit(TokenComment, start)
		}
	}

	for i := range s.g.Quotes {
		q := &s.g.Quotes[i]
		if !strings.HasPrefix(rest, q.Open) {
			continue
		}
		if q.AfterValueIsOperator && s.followsValue() {
			s.pos += len(q.Open)
			return s.emit(TokenPunct, start)
		}
		s.scanQuote(q)
		return s.emit(TokenString, start)
	}

	r, size := utf8.DecodeRuneInString(rest)
	if IsWordRune(r) {
		s.pos += size
		for s.pos < len(s.src) {
			r, size = utf8.DecodeRuneInString(s.src[s.pos:])
			if !IsWordRune(r) {
				break
			}
			s.pos += size
		}
		first, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsDigit(first) {
			return s.emit(TokenNumber, start)
		}
		return s.emit(TokenWord, start)
	}

	s.pos += size
	return s.emit(TokenPunct, start)
}

func (s *scanner) emit(kind TokenKind, start int) Token {
	return Token{Kind: kind, Text: s.src[start:s.pos]}
}

func (s *scanner) scanQuote(q *Quote) {
	s.pos += len(q.Open)
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\n' && !q.Multiline {
			return
		}
		if q.Escape != 0 && c == q.Escape {
			s.pos += 2
			if s.pos > len(s.src) {
				s.pos = len(s.src)
			}
			continue
		}
		if strings.HasPrefix(s.src[s.pos:], q.Close) {
			s.pos += len(q.Close)
			if q.Doubled && strings.HasPrefix(s.src[s.pos:], q.Close) {
				s.pos += len(q.Close)
				continue
			}
			return
		}
		s.pos++
	}
}

// followsValue reports whether the previous token, with nothing in between,
// ends an operand.
func (s *scanner) followsValue() bool {
	switch s.prev.Kind {
	case TokenWord, TokenNumber:
		return true
	case TokenPunct:
		switch s.prev.Text {
		case ")", "]", "}", "'", ".":
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// IsWordRune reports whether r continues a word: a letter, a digit or '_'.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether word is an ASCII identifier
// ([A-Za-z_][A-Za-z0-9_]*).
func IsIdentifier(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Tokenize drains l and returns every token except EOF.
func Tokenize(l Lexer) []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}
