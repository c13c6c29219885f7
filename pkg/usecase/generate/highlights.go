package generate

import (
	"context"
	_ "embed"
	"strings"

	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

//go:embed prompt/highlights.md
var highlightsPromptRaw string

// maxHighlights caps how many bullets one answer yields
const maxHighlights = 3

// extractHighlights compresses a finalized answer into terse bullets via
// a second, independent LLM call. Extraction failure never fails the
// enclosing request; it just yields no highlights.
func (u *UseCase) extractHighlights(ctx context.Context, answer string) []string {
	reply, err := u.call(ctx, systemPromptRaw, highlightsPromptRaw+"\n\n"+answer)
	if err != nil {
		logging.From(ctx).Warn("highlight extraction failed", "error", err)
		return nil
	}

	return parseHighlights(reply)
}

// parseHighlights splits a raw reply into bullet lines: blank lines are
// dropped, a leading "*" or "-" marker plus whitespace is stripped, and
// the result is capped at maxHighlights.
func parseHighlights(raw string) []string {
	var highlights []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-") {
			line = strings.TrimSpace(line[1:])
		}
		if line == "" {
			continue
		}

		highlights = append(highlights, line)
		if len(highlights) == maxHighlights {
			break
		}
	}

	return highlights
}

// ParseHighlightsForTest is a test helper that exposes parseHighlights
func ParseHighlightsForTest(raw string) []string {
	return parseHighlights(raw)
}
