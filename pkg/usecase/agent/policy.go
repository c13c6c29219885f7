package agent

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

// DispatchPolicy gates relay dispatches with Rego rules. The policy
// package is "agent"; an event is skipped when `data.agent.deny` is true.
type DispatchPolicy struct {
	query rego.PreparedEvalQuery
}

// NewDispatchPolicy loads all .rego files from policyDir. It returns
// (nil, nil) when the directory holds no policy files, which disables
// policy checks entirely.
func NewDispatchPolicy(ctx context.Context, policyDir string) (*DispatchPolicy, error) {
	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files")
	}
	if len(files) == 0 {
		return nil, nil
	}

	options := []func(*rego.Rego){rego.Query("data.agent")}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.Value("path", file))
		}
		options = append(options, rego.Module(file, string(data)))
	}

	query, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare dispatch policy")
	}

	return &DispatchPolicy{query: query}, nil
}

// Allow evaluates the policy for one event. Evaluation problems are
// logged and treated as allow, so a broken policy degrades to the
// built-in filter instead of silencing the agent.
func (p *DispatchPolicy) Allow(ctx context.Context, ev model.ChatEvent) bool {
	input := map[string]any{
		"channel_type": ev.ChannelType,
		"channel_id":   ev.ChannelID,
		"author":       ev.AuthorID,
		"text":         ev.Text,
	}

	rs, err := p.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		logging.From(ctx).Warn("dispatch policy evaluation failed", "error", err)
		return true
	}

	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return true
	}

	data, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return true
	}

	deny, _ := data["deny"].(bool)
	return !deny
}
