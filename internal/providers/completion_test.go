package providers

import (
	"testing"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Completion:
// - local and imported symbols are offered, imported ones labeled
// - a disabled implicitly label drops the annotation but keeps the item
// - @include offers mixins only; $ offers variables only
// - value positions offer variables and functions but not mixins
// - import lines and comments offer nothing
// - strings offer nothing unless inside an interpolation, where functions
//   need a trigger character before the word
// - suggest* toggles filter kinds
// - a parameter of the enclosing mixin shadows a global of the same name
// - an unclosed call or block still offers local and imported symbols

func TestCompletion_ImportedSymbols(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"b.scss": "$c: 1;\n"})
	doc, offset := f.buffer(t, "a.scss", "@import \"b\";\n@mixin m() {}\n|")

	t.Run("labeled", func(t *testing.T) {
		t.Parallel()
		list, err := Completion(doc, offset, config.Default(), f.store)
		require.NoError(t, err)

		require.Len(t, list.Items, 2)
		c := list.Items[0]
		assert.Equal(t, "$c", c.Label)
		assert.Equal(t, symbols.KindVariable, c.Kind)
		assert.Equal(t, 1, c.Depth)
		assert.Equal(t, "(implicitly) 1", c.Detail)
		assert.Equal(t, f.path("b.scss"), c.Document)

		m := list.Items[1]
		assert.Equal(t, "m", m.Label)
		assert.Equal(t, symbols.KindMixin, m.Kind)
		assert.Equal(t, 0, m.Depth)
		assert.Equal(t, "m()", m.Detail)
	})

	t.Run("label disabled", func(t *testing.T) {
		t.Parallel()
		settings := config.Default()
		settings.ImplicitlyLabel = nil

		list, err := Completion(doc, offset, settings, f.store)
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "$c", list.Items[0].Label)
		assert.Equal(t, "1", list.Items[0].Detail)
	})
}

func TestCompletion_Contexts(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"lib.scss": "$size: 1px;\n@mixin pad($n) {}\n@function double($n) { @return $n * 2; }\n",
	})

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"statement start", "@import 'lib';\n.a {\n  |\n}\n", []string{"$size", "pad", "double"}},
		{"include", "@import 'lib';\n.a { @include pa| }\n", []string{"pad"}},
		{"namespaced include", "@use 'lib';\n.a { @include lib.| }\n", []string{"pad"}},
		{"variable prefix", "@import 'lib';\n.a { margin: $s| }\n", []string{"$size"}},
		{"value", "@import 'lib';\n.a { margin: dou| }\n", []string{"$size", "double"}},
		{"import line", "@import 'lib';\n@import '|", nil},
		{"line comment", "@import 'lib';\n// note |\n", nil},
		{"block comment", "@import 'lib';\n/* note |\n*/", nil},
		{"plain string", "@import 'lib';\n.a { content: \"x|\"; }\n", nil},
		{"interpolation without trigger", "@import 'lib';\n.a { content: \"#{|}\"; }\n", []string{"$size"}},
		{"interpolation after trigger", "@import 'lib';\n.a { content: \"#{$size + |}\"; }\n", []string{"$size", "double"}},
		{"interpolation variable", "@import 'lib';\n.a { content: \"#{ $|}\"; }\n", []string{"$size"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, offset := f.buffer(t, "main.scss", tt.text)
			list, err := Completion(doc, offset, config.Default(), f.store)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, labels(list))
		})
	}
}

func TestCompletion_Toggles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"lib.scss": "$size: 1px;\n@mixin pad($n) {}\n@function double($n) { @return $n * 2; }\n",
	})
	doc, offset := f.buffer(t, "main.scss", "@import 'lib';\n|")

	settings := config.Default()
	settings.SuggestVariables = false
	settings.SuggestFunctions = false

	list, err := Completion(doc, offset, settings, f.store)
	require.NoError(t, err)
	assert.Equal(t, []string{"pad"}, labels(list))
}

func TestCompletion_LocalScope(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"lib.scss": "$gap: global;\n"})
	doc, offset := f.buffer(t, "main.scss", "@import 'lib';\n$top: 1;\n@mixin m($gap: 4px) {\n  $inner: 2;\n  margin: $|\n}\n")

	list, err := Completion(doc, offset, config.Default(), f.store)
	require.NoError(t, err)

	assert.Equal(t, []string{"$inner", "$gap", "$top"}, labels(list))
	assert.Equal(t, "4px", list.Items[1].Detail, "the parameter shadows the imported variable")
	assert.Equal(t, 0, list.Items[1].Depth)
}

func TestCompletion_StrictParseError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	doc, offset := f.buffer(t, "main.scss", ".a { |")

	settings := config.Default()
	settings.ShowErrors = true
	_, err := Completion(doc, offset, settings, f.store)
	var parseErr *symbols.ParseError
	assert.ErrorAs(t, err, &parseErr)

	list, err := Completion(doc, offset, config.Default(), f.store)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCompletion_UnclosedCall(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{"lib.scss": "$gap: 1px;\n"})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "closed",
			text: "@import 'lib';\n@mixin m($size) {\n  $local: 1;\n  width: $|\n}\n",
			want: []string{"$local", "$size", "$gap"},
		},
		{
			name: "open call before the closing brace",
			text: "@import 'lib';\n@mixin m($size) {\n  $local: 1;\n  width: calc($|\n}\n",
			want: []string{"$local", "$size", "$gap"},
		},
		{
			name: "open call at end of buffer",
			text: "@import 'lib';\n@mixin m($size) {\n  $local: 1;\n  width: calc($|",
			want: []string{"$local", "$size", "$gap"},
		},
		{
			name: "open block",
			text: "@import 'lib';\n.a {\n  $local: 1;\n  .b {\n    margin: $|",
			want: []string{"$local", "$gap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, offset := f.buffer(t, "main.scss", tt.text)
			list, err := Completion(doc, offset, config.Default(), f.store)
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(list))
		})
	}
}
