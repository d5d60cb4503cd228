package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/copyscn/domain"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"c", "java", "matlab", "python"}, r.Names())

	tests := []struct {
		name      string
		extension string
		family    string
		keyword   string
	}{
		{"java", ".java", "c-like", "interface"},
		{"python", ".py", "python", "elif"},
		{"c", ".c", "c-like", "typedef"},
		{"matlab", ".m", "matlab", "function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.extension, p.Extension())
			assert.Equal(t, tt.family, p.Family())
			assert.True(t, p.IsKeyword(tt.keyword))
			assert.False(t, p.IsMaskable(tt.keyword))
			assert.True(t, p.IsMaskable("student_var"))
			assert.NoError(t, p.Validate())
		})
	}
}

func TestRegistry_LookupIsCaseInsensitive(t *testing.T) {
	p, err := DefaultRegistry().Lookup("  Python ")
	require.NoError(t, err)
	assert.Equal(t, "python", p.Name())
}

func TestRegistry_UnknownLanguage(t *testing.T) {
	_, err := DefaultRegistry().Lookup("cobol")
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeUnsupportedLanguage))
	assert.Contains(t, err.Error(), "cobol")
	assert.Contains(t, err.Error(), "matlab")
}

func TestNewRegistry_Rejects(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		_, err := NewRegistry(Java(), Java())
		assert.Error(t, err)
	})
	t.Run("missing keywords", func(t *testing.T) {
		_, err := NewRegistry(NewProfile("bare", ".b", CLikeGrammar(), nil))
		assert.Error(t, err)
	})
	t.Run("missing block comments", func(t *testing.T) {
		g := CLikeGrammar()
		g.BlockComments = nil
		_, err := NewRegistry(NewProfile("x", ".x", g, []string{"if"}))
		assert.Error(t, err)
	})
	t.Run("bad extension", func(t *testing.T) {
		_, err := NewRegistry(NewProfile("x", "x", CLikeGrammar(), []string{"if"}))
		assert.Error(t, err)
	})
	t.Run("nil", func(t *testing.T) {
		_, err := NewRegistry(nil)
		assert.Error(t, err)
	})
}

func TestRegistry_ByExtension(t *testing.T) {
	r := DefaultRegistry()
	p, ok := r.ByExtension(".M")
	require.True(t, ok)
	assert.Equal(t, "matlab", p.Name())

	_, ok = r.ByExtension(".rs")
	assert.False(t, ok)
}

func TestProfile_IsImmutable(t *testing.T) {
	g := CLikeGrammar()
	p := NewProfile("x", ".x", g, []string{"if"})
	g.LineComments[0] = "#"

	assert.Equal(t, []string{"//"}, p.LineComments())
	p.LineComments()[0] = "--"
	assert.Equal(t, []string{"//"}, p.LineComments())
}
