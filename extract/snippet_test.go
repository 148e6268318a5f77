// SPDX-License-Identifier: MIT
package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/extract"
)

func TestSnippet_ShortBodyUnchanged(t *testing.T) {
	require.Equal(t, "hello", extract.Snippet("hello"))
}

func TestSnippet_TruncatedAtMax(t *testing.T) {
	body := strings.Repeat("x", 5000)
	s := extract.Snippet(body)
	require.Equal(t, extract.MaxSnippetLen, len(s))
}

func TestSnippet_CutsOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("é", 2000) // 2 bytes each in UTF-8
	s := extract.Snippet(body)
	require.LessOrEqual(t, len(s), extract.MaxSnippetLen)
	require.True(t, strings.HasSuffix(s, "é") || s == "")
}
