// SPDX-License-Identifier: MIT
package extract

// Result bundles the three derived fields C6's pipeline attaches to a visit
// before calling graphstore.Ingest.
type Result struct {
	Keywords []string
	Summary  string
	Snippet  string
}

// Extract runs the built-in heuristic pass over title/body. It is pure and
// deterministic: same inputs always produce the same Result, which the
// orchestrator's pipeline tests rely on.
func Extract(title, body string) Result {
	return Result{
		Keywords: Keywords(title, body),
		Summary:  Summary(body),
		Snippet:  Snippet(body),
	}
}

// ExternalExtractor is the capability interface an orchestrator can plug in
// instead of the built-in heuristic pass (e.g. an LLM-backed extractor). A
// nil error with a zero Result is treated as "no signal for this visit", not
// a failure.
type ExternalExtractor interface {
	ExtractPage(title, body string) (Result, error)
}

// heuristicExtractor adapts the package-level Extract function to the
// ExternalExtractor interface, letting the orchestrator treat "no plugin
// configured" and "plugin configured" uniformly.
type heuristicExtractor struct{}

func (heuristicExtractor) ExtractPage(title, body string) (Result, error) {
	return Extract(title, body), nil
}

// Default returns the built-in heuristic extractor as an ExternalExtractor.
func Default() ExternalExtractor { return heuristicExtractor{} }
