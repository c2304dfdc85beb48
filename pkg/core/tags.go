package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchTag reports whether any of tags satisfies query.
//
// A tag matches when it equals the query, when it is nested below it
// ("work" matches "work/meetings"), or when the query is a doublestar glob
// that matches it ("work/*", "**/draft"). A query that is not a valid glob
// ("draft[1") is matched literally only. An empty query matches everything.
func MatchTag(query string, tags []string) (bool, error) {
	if query == "" {
		return true, nil
	}
	for _, t := range tags {
		if t == query || strings.HasPrefix(t, query+"/") {
			return true, nil
		}
	}
	if !doublestar.ValidatePattern(query) {
		return false, nil
	}
	for _, t := range tags {
		ok, err := doublestar.Match(query, t)
		if err != nil {
			return false, fmt.Errorf("invalid tag pattern %q: %w", query, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// JoinTags renders tags the way exports print them: comma separated, no spaces.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
