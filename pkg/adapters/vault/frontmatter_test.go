package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	t.Run("No frontmatter", func(t *testing.T) {
		meta, body, err := parseFile([]byte("# Title\nbody"))
		require.NoError(t, err)
		assert.Empty(t, meta)
		assert.Equal(t, "# Title\nbody", body)
	})

	t.Run("With frontmatter", func(t *testing.T) {
		meta, body, err := parseFile([]byte("---\nuuid: abc\ntitle: Hello\ntags: [a, b]\n---\nbody --- with dashes\n"))
		require.NoError(t, err)
		assert.Equal(t, "abc", meta.stringValue(KeyUUID))
		assert.Equal(t, "Hello", meta.stringValue(KeyTitle))
		assert.Equal(t, []string{"a", "b"}, meta.tags())
		assert.Equal(t, "body --- with dashes\n", body)
	})

	t.Run("CRLF", func(t *testing.T) {
		meta, body, err := parseFile([]byte("---\r\ntitle: Win\r\n---\r\nbody"))
		require.NoError(t, err)
		assert.Equal(t, "Win", meta.stringValue(KeyTitle))
		assert.Equal(t, "body", body)
	})

	t.Run("Empty frontmatter", func(t *testing.T) {
		meta, body, err := parseFile([]byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.Empty(t, meta)
		assert.Equal(t, "body", body)
	})

	t.Run("Unclosed", func(t *testing.T) {
		_, _, err := parseFile([]byte("---\ntitle: x\nbody"))
		assert.Error(t, err)
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		_, _, err := parseFile([]byte("---\ntitle: [\n---\nbody"))
		assert.Error(t, err)
	})
}

func TestRenderFile_RoundTrip(t *testing.T) {
	meta := Metadata{KeyUUID: "u1", KeyTitle: "T", KeyTags: []string{"x"}}
	data, err := renderFile(meta, "line\n\"quoted\"")
	require.NoError(t, err)

	parsed, body, err := parseFile(data)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.stringValue(KeyUUID))
	assert.Equal(t, []string{"x"}, parsed.tags())
	assert.Equal(t, "line\n\"quoted\"", body)

	plain, err := renderFile(nil, "just text")
	require.NoError(t, err)
	assert.Equal(t, "just text", string(plain))
}

func TestMetadata_Tags(t *testing.T) {
	assert.Equal(t, []string{"a", "b/c"}, Metadata{KeyTags: "a, b/c,"}.tags())
	assert.Equal(t, []string{"1", "x"}, Metadata{KeyTags: []interface{}{1, nil, " x "}}.tags())
	assert.Nil(t, Metadata{}.tags())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "export-progress", slugify("Export progress..."))
	assert.Equal(t, "note", slugify("..."))
	assert.Equal(t, "café-2", slugify("Café #2"))
}
