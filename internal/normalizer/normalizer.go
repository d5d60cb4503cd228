// Package normalizer reduces source code to a canonical string so that
// superficially different submissions compare equal.
package normalizer

import (
	"strings"
	"unicode/utf8"

	"github.com/ludo-technologies/copyscn/domain"
	"github.com/ludo-technologies/copyscn/internal/lang"
)

// Options controls canonicalization
type Options struct {
	// ExactOnly disables every transformation.
	ExactOnly bool
	// MaskIdentifiers replaces each non-keyword identifier with Placeholder.
	MaskIdentifiers bool
	Placeholder     string
}

// DefaultOptions masks identifiers with the default placeholder
func DefaultOptions() Options {
	return Options{
		MaskIdentifiers: true,
		Placeholder:     domain.DefaultPlaceholder,
	}
}

// Validate checks option consistency
func (o Options) Validate() error {
	if !o.ExactOnly && o.MaskIdentifiers && o.Placeholder == "" {
		return domain.NewConfigError("placeholder must not be empty when masking identifiers", nil)
	}
	return nil
}

// Normalizer canonicalizes sources of one language
type Normalizer struct {
	profile *lang.Profile
	opts    Options
}

// New creates a normalizer. Invalid options are a configuration error.
func New(profile *lang.Profile, opts Options) (*Normalizer, error) {
	if profile == nil {
		return nil, domain.NewConfigError("language profile is required", nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{profile: profile, opts: opts}, nil
}

// Profile returns the language profile
func (n *Normalizer) Profile() *lang.Profile { return n.profile }

// Options returns the options
func (n *Normalizer) Options() Options { return n.opts }

// Normalize returns the canonical form of raw. It never fails: empty input,
// unterminated literals and code that does not compile are all accepted.
func (n *Normalizer) Normalize(raw string) string {
	if n.opts.ExactOnly {
		return raw
	}
	out := StripComments(n.profile, raw)
	if n.opts.MaskIdentifiers {
		out = MaskIdentifiers(n.profile, out, n.opts.Placeholder)
	}
	return CollapseWhitespace(out)
}

// StripComments removes line and block comments. Comment markers inside
// string literals are left alone and the newline ending a line comment stays.
func StripComments(p *lang.Profile, src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	l := p.NewLexer(src)
	for tok := l.NextToken(); tok.Kind != lang.TokenEOF; tok = l.NextToken() {
		if tok.Kind == lang.TokenComment {
			continue
		}
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// MaskIdentifiers replaces every maskable word with placeholder, including
// words inside string literals. src is re-lexed, so identifiers joined by a
// removed comment count as one word.
func MaskIdentifiers(p *lang.Profile, src, placeholder string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	l := p.NewLexer(src)
	for tok := l.NextToken(); tok.Kind != lang.TokenEOF; tok = l.NextToken() {
		switch {
		case tok.Kind == lang.TokenWord && p.IsMaskable(tok.Text):
			sb.WriteString(placeholder)
		case tok.Kind == lang.TokenString:
			maskWords(&sb, p, tok.Text, placeholder)
		default:
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}

// maskWords copies a string literal, masking each maximal word in it.
// Quote delimiters are never word runes, so they are copied unchanged.
func maskWords(sb *strings.Builder, p *lang.Profile, text, placeholder string) {
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if word := text[start:end]; p.IsMaskable(word) {
			sb.WriteString(placeholder)
		} else {
			sb.WriteString(word)
		}
		start = -1
	}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if lang.IsWordRune(r) {
			if start < 0 {
				start = i
			}
		} else {
			flush(i)
			sb.WriteString(text[i : i+size])
		}
		i += size
	}
	flush(len(text))
}

// CollapseWhitespace deletes spaces, tabs and newlines, including those
// inside string literals.
func CollapseWhitespace(src string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n':
			return -1
		}
		return r
	}, src)
}
