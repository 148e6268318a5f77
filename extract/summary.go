// SPDX-License-Identifier: MIT
package extract

import (
	"regexp"
	"strings"
)

const (
	// MinSummaryLen is the length at which Summary stops adding sentences;
	// bodies no longer than this are returned whole rather than padded.
	MinSummaryLen = 1000
	// MaxSummaryLen bounds how much of the body Summary will accumulate.
	MaxSummaryLen = 1500
)

var sentenceBoundary = regexp.MustCompile(`(?:[.!?]+["')\]]?)\s+`)

// Summary builds a plain-text summary by greedily accumulating whole
// sentences from body until at least MinSummaryLen characters have been
// collected, stopping before MaxSummaryLen would be exceeded. If body is
// shorter than MinSummaryLen it is returned trimmed and unmodified. A first
// sentence longer than MaxSummaryLen is cut on a rune boundary.
func Summary(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= MinSummaryLen {
		return trimmed
	}

	sentences := splitSentences(trimmed)
	var b strings.Builder
	for _, sent := range sentences {
		if b.Len() >= MinSummaryLen {
			break
		}
		candidateLen := b.Len() + len(sent)
		if b.Len() > 0 {
			candidateLen++ // separating space
		}
		if candidateLen > MaxSummaryLen && b.Len() > 0 {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sent)
	}
	out := b.String()
	if len(out) > MaxSummaryLen {
		out = truncateOnRuneBoundary(out, MaxSummaryLen)
	}
	return out
}

func splitSentences(text string) []string {
	idx := sentenceBoundary.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return []string{text}
	}
	sentences := make([]string, 0, len(idx)+1)
	start := 0
	for _, loc := range idx {
		sentences = append(sentences, strings.TrimSpace(text[start:loc[1]]))
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, strings.TrimSpace(text[start:]))
	}
	return sentences
}

func truncateOnRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !isRuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
