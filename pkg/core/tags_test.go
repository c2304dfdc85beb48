package core_test

import (
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loam-export/pkg/core"
)

func TestMatchTag(t *testing.T) {
	tests := []struct {
		name  string
		query string
		tags  []string
		want  bool
	}{
		{"empty query matches all", "", nil, true},
		{"exact", "work", []string{"home", "work"}, true},
		{"nested child", "work", []string{"work/meetings"}, true},
		{"prefix is not a parent", "work", []string{"workshop"}, false},
		{"single star glob", "work/*", []string{"work/meetings"}, true},
		{"single star does not cross levels", "work/*", []string{"work/a/b"}, false},
		{"double star glob", "**/draft", []string{"blog/posts/draft"}, true},
		{"no tags", "work", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := core.MatchTag(tc.query, tc.tags)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchTag_LiteralWhenNotAGlob(t *testing.T) {
	tests := []struct {
		name  string
		query string
		tags  []string
		want  bool
	}{
		{"open bracket", "draft[1", []string{"draft[1"}, true},
		{"open brace", "c{d", []string{"home", "c{d"}, true},
		{"trailing backslash", `x\`, []string{`x\`}, true},
		{"nested below literal", "work/[", []string{"work/[/a"}, true},
		{"no literal match", "work/[", []string{"work/a"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, doublestar.ValidatePattern(tc.query))
			got, err := core.MatchTag(tc.query, tc.tags)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "a,b", core.JoinTags([]string{"a", "b"}))
	assert.Equal(t, "", core.JoinTags(nil))
}
