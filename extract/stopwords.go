// SPDX-License-Identifier: MIT
package extract

// stopWords mirrors the kind of closed-class filler word list used to keep
// keyword extraction signal-bearing: pronouns, auxiliaries, conjunctions,
// and other words too common to distinguish a page's topic.
var stopWords = buildStopWordSet([]string{
	"a", "an", "the", "and", "or", "but", "nor", "for", "so", "yet",
	"with", "without", "within", "this", "that", "these", "those",
	"from", "are", "was", "were", "been", "being", "have", "has", "had",
	"does", "did", "done", "will", "would", "could", "should", "shall",
	"may", "might", "must", "can", "cannot", "not", "no", "nor",
	"all", "any", "some", "each", "every", "few", "more", "most", "other",
	"such", "only", "own", "same", "than", "too", "very", "just", "also",
	"when", "where", "what", "which", "who", "whom", "whose", "why", "how",
	"its", "it's", "their", "theirs", "his", "her", "hers", "your", "yours",
	"our", "ours", "my", "mine", "you", "he", "she", "they", "we", "i",
	"him", "them", "us", "me",
	"now", "here", "there", "then", "once", "again", "further", "about",
	"above", "below", "between", "into", "through", "during", "before",
	"after", "over", "under", "up", "down", "out", "off", "on", "in", "at",
	"by", "of", "to", "as", "is", "am", "be", "if", "because", "while",
	"against", "until", "both", "itself", "himself", "herself", "themselves",
	"ourselves", "yourself", "yourselves", "myself",
	"do", "does", "did", "doing",
	"com", "www", "http", "https", "html",
})

func buildStopWordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
