package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTarget(t *testing.T) {
	tcs := []struct {
		target, path, query string
	}{
		{"/", "/", ""},
		{"/index.html", "/index.html", ""},
		{"/search?q=1", "/search", "q=1"},
		{"/search?", "/search", ""},
		{"/a?b?c", "/a", "b?c"},
		{"?only=query", "", "only=query"},
	}

	for _, tc := range tcs {
		t.Run(tc.target, func(t *testing.T) {
			path, query := SplitTarget(tc.target)
			require.Equal(t, tc.path, path)
			require.Equal(t, tc.query, query)

			if strings.Contains(tc.target, "?") {
				require.Equal(t, tc.target, path+"?"+query)
			} else {
				require.Equal(t, tc.target, path)
			}
		})
	}
}

func TestRequestHeader(t *testing.T) {
	request := NewRequest()
	request.Headers["Content-Length"] = "5"

	value, found := request.Header("Content-Length")
	require.True(t, found)
	require.Equal(t, "5", value)

	_, found = request.Header("content-length")
	require.False(t, found, "header lookup must be case-sensitive")
}
