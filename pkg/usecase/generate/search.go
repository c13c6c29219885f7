package generate

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

//go:embed prompt/augmented.md
var augmentedPromptRaw string

// augment queries the search provider and normalizes hits into a
// SearchContext. Augmentation is best-effort: on provider failure or a
// missing search adapter it returns an empty context and the pipeline
// proceeds with general-knowledge generation.
func (u *UseCase) augment(ctx context.Context, query string) (*model.SearchContext, []adapter.SearchResult) {
	if u.search == nil {
		return &model.SearchContext{}, nil
	}

	resp, err := u.search.Search(ctx, query, u.maxSearchResults)
	if err != nil {
		logging.From(ctx).Warn("web search failed, generating without context",
			"error", err, "query", query)
		return &model.SearchContext{}, nil
	}

	sources := make([]model.SourceRef, 0, len(resp.Results))
	for _, r := range resp.Results {
		sources = append(sources, model.SourceRef{
			Title: r.Title,
			URL:   r.URL,
		})
	}

	return model.NewSearchContext(sources), resp.Results
}

// composePrompt embeds numbered search hits with their content snippets
// into the prompt. With no hits it returns the raw prompt unchanged.
func composePrompt(prompt string, results []adapter.SearchResult) string {
	if len(results) == 0 {
		return prompt
	}

	var block strings.Builder
	for i, r := range results {
		if i > 0 {
			block.WriteString("\n\n")
		}
		fmt.Fprintf(&block, "[%d] %s (%s)\n%s", i+1, r.Title, r.URL, r.Content)
	}

	return fmt.Sprintf(augmentedPromptRaw, block.String(), prompt)
}
