package model

import (
	"net/url"
	"strings"
)

// GenerationRequest is a single prompt submitted to the generation pipeline.
// RequesterID is optional; when present the result is recorded as history.
// Conversational is set by the agent relay and never travels on the wire;
// it selects the chat-channel answer framing.
type GenerationRequest struct {
	Prompt         string `json:"prompt"`
	IncludeSearch  bool   `json:"includeSearch"`
	RequesterID    string `json:"userId,omitempty"`
	Conversational bool   `json:"-"`
}

// Validate checks if the request can be processed
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrInvalidRequest
	}
	return nil
}

// SourceRef is one web search hit, in provider rank order
type SourceRef struct {
	Title string `json:"title" firestore:"title"`
	URL   string `json:"url" firestore:"url"`
}

// SearchContext holds the normalized output of a search augmentation.
// Domains is always derived from Sources: unique hostnames in first-seen
// order. Sources with unparseable URLs keep their place in Sources but
// contribute nothing to Domains.
type SearchContext struct {
	Sources []SourceRef
	Domains []string
}

// NewSearchContext builds a SearchContext from raw sources
func NewSearchContext(sources []SourceRef) *SearchContext {
	ctx := &SearchContext{
		Sources: sources,
	}

	seen := map[string]bool{}
	for _, src := range sources {
		u, err := url.Parse(src.URL)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := u.Hostname()
		if seen[host] {
			continue
		}
		seen[host] = true
		ctx.Domains = append(ctx.Domains, host)
	}

	return ctx
}

// Empty reports whether the context carries no search results
func (c *SearchContext) Empty() bool {
	return c == nil || len(c.Sources) == 0
}

// ResponseMetadata describes how an answer was produced. ProcessingTime is
// wall-clock seconds from assembly entry to completion, rounded to two
// decimals. Field names match the wire format consumed by the UI.
type ResponseMetadata struct {
	Sources        []SourceRef `json:"sources" firestore:"sources"`
	Domains        []string    `json:"domains" firestore:"domains"`
	ProcessingTime float64     `json:"processingTime" firestore:"processing_time"`
	Highlights     []string    `json:"highlights" firestore:"highlights"`
}

// GenerationResult is the immutable outcome of one pipeline run
type GenerationResult struct {
	Text     string           `json:"text"`
	Metadata ResponseMetadata `json:"metadata"`
}
