// SPDX-License-Identifier: MIT
package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldane-labs/browsectx/extract"
)

func TestSummary_ShortBodyReturnedWhole(t *testing.T) {
	body := "A short page with very little content."
	require.Equal(t, body, extract.Summary(body))
}

func TestSummary_LongBodyBoundedByRange(t *testing.T) {
	sentence := "This is one sentence about graphs and topics. "
	body := strings.Repeat(sentence, 100)
	s := extract.Summary(body)
	require.GreaterOrEqual(t, len(s), extract.MinSummaryLen)
	require.LessOrEqual(t, len(s), extract.MaxSummaryLen)
}

func TestSummary_EmptyBody(t *testing.T) {
	require.Equal(t, "", extract.Summary("   "))
}
