package generate

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

// Run executes one generation request. It is the single entry point for
// both the HTTP API and the agent relay. The only fatal failures are a
// malformed request and a failed answer generation; search, highlight and
// persistence problems degrade the result instead.
func (u *UseCase) Run(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := u.assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.RequesterID != "" {
		u.recordAsync(ctx, req, result)
	}

	return result, nil
}

// assemble sequences the pipeline stages and measures their wall-clock
// cost from its own entry, so timings are comparable across callers.
func (u *UseCase) assemble(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	started := time.Now()

	searchCtx := &model.SearchContext{}
	var hits []adapter.SearchResult
	if req.IncludeSearch {
		searchCtx, hits = u.augment(ctx, req.Prompt)
	}

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "canceled before generation")
	}

	systemPrompt := systemPromptRaw
	if req.Conversational {
		systemPrompt = chatSystemPromptRaw
	}

	text, err := u.call(ctx, systemPrompt, composePrompt(req.Prompt, hits))
	if err != nil {
		return nil, goerr.Wrap(model.ErrGenerationFailed, "answer generation failed",
			goerr.Value("cause", err))
	}

	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "canceled before highlight extraction")
	}

	highlights := u.extractHighlights(ctx, text)

	return &model.GenerationResult{
		Text: text,
		Metadata: model.ResponseMetadata{
			Sources:        searchCtx.Sources,
			Domains:        searchCtx.Domains,
			ProcessingTime: roundSeconds(time.Since(started)),
			Highlights:     highlights,
		},
	}, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// recordAsync persists the result as history without blocking the
// response path. Failures are logged and swallowed; the caller has
// already received the answer.
func (u *UseCase) recordAsync(ctx context.Context, req model.GenerationRequest, result *model.GenerationResult) {
	entry := &model.HistoryEntry{
		ID:        model.NewHistoryID(),
		UserID:    req.RequesterID,
		Prompt:    req.Prompt,
		Response:  result.Text,
		Metadata:  result.Metadata,
		CreatedAt: time.Now(),
	}

	// detach so the write survives the caller's cancellation
	detached := context.WithoutCancel(ctx)

	u.pending.Add(1)
	go func() {
		defer u.pending.Done()
		logger := logging.From(detached)

		if u.repo != nil {
			if err := u.repo.PutHistory(detached, entry); err != nil {
				logger.Warn("failed to record history",
					"error", err, "user_id", entry.UserID)
			}
		}

		if u.archive != nil {
			if err := u.archiveTranscript(detached, entry); err != nil {
				logger.Warn("failed to archive transcript",
					"error", err, "entry_id", entry.ID)
			}
		}
	}()
}

func (u *UseCase) archiveTranscript(ctx context.Context, entry *model.HistoryEntry) error {
	key := model.TranscriptKey(entry.UserID, entry.ID)

	w, err := u.archive.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open transcript writer")
	}

	if err := json.NewEncoder(w).Encode(entry); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode transcript")
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize transcript")
	}
	return nil
}
