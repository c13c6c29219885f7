package generate

import (
	"context"
	_ "embed"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/repository"
	"google.golang.org/genai"
)

//go:embed prompt/system.md
var systemPromptRaw string

//go:embed prompt/chat_system.md
var chatSystemPromptRaw string

// DefaultMaxSearchResults bounds how many hits one augmentation requests
const DefaultMaxSearchResults = 5

// UseCase runs the contextual generation pipeline: optional search
// augmentation, one LLM call for the answer, one more for highlights,
// and a best-effort history write.
type UseCase struct {
	gemini  adapter.Gemini
	search  adapter.Search
	repo    repository.Repository
	archive adapter.Storage

	maxSearchResults int

	// tracks in-flight history writes so shutdown can drain them
	pending sync.WaitGroup
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithSearch enables web search augmentation
func WithSearch(search adapter.Search) Option {
	return func(u *UseCase) {
		u.search = search
	}
}

// WithRepository enables history persistence
func WithRepository(repo repository.Repository) Option {
	return func(u *UseCase) {
		u.repo = repo
	}
}

// WithArchive enables transcript archiving to object storage
func WithArchive(archive adapter.Storage) Option {
	return func(u *UseCase) {
		u.archive = archive
	}
}

// WithMaxSearchResults overrides the search result cap
func WithMaxSearchResults(n int) Option {
	return func(u *UseCase) {
		if n > 0 {
			u.maxSearchResults = n
		}
	}
}

// New creates a generation pipeline. Only the LLM adapter is mandatory;
// search, persistence and archiving degrade to no-ops when absent.
func New(gemini adapter.Gemini, opts ...Option) *UseCase {
	u := &UseCase{
		gemini:           gemini,
		maxSearchResults: DefaultMaxSearchResults,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Wait blocks until all pending history writes have finished
func (u *UseCase) Wait() {
	u.pending.Wait()
}

// call issues a single LLM request and returns the reply text verbatim
func (u *UseCase) call(ctx context.Context, systemPrompt, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "LLM call failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("LLM returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	if text.Len() == 0 {
		return "", goerr.New("LLM returned empty text")
	}

	return text.String(), nil
}
