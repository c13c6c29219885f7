package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/usecase/agent"
)

const denyPolicy = `package agent

deny if {
	input.channel_id == "restricted"
}
`

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dispatch.rego")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return dir
}

func TestDispatchPolicyDeny(t *testing.T) {
	ctx := context.Background()
	policy, err := agent.NewDispatchPolicy(ctx, writePolicy(t, denyPolicy))
	gt.NoError(t, err)
	gt.V(t, policy).NotNil()

	denied := model.ChatEvent{
		Type:      model.EventMessageNew,
		ChannelID: "restricted",
		AuthorID:  "alice",
		Text:      "hello",
	}
	gt.False(t, policy.Allow(ctx, denied))

	allowed := denied
	allowed.ChannelID = "general"
	gt.True(t, policy.Allow(ctx, allowed))
}

func TestDispatchPolicyEmptyDir(t *testing.T) {
	policy, err := agent.NewDispatchPolicy(context.Background(), t.TempDir())
	gt.NoError(t, err)
	gt.V(t, policy).Nil()
}

func TestDispatchPolicyBlocksRelayDispatch(t *testing.T) {
	ctx := context.Background()
	policy, err := agent.NewDispatchPolicy(ctx, writePolicy(t, denyPolicy))
	gt.NoError(t, err)

	transport := &mockTransport{}
	pipeline := &mockPipeline{}
	relay := agent.New(transport, pipeline, agent.WithDispatchPolicy(policy))

	gt.NoError(t, relay.Start(ctx, "messaging", "restricted"))
	gt.NoError(t, relay.Start(ctx, "messaging", "general"))

	relay.DispatchForTest(ctx, newMessageEvent("restricted", "alice", "hello"))
	relay.DispatchForTest(ctx, newMessageEvent("general", "alice", "hello"))

	calls := pipeline.Calls()
	gt.A(t, calls).Length(1)
	gt.A(t, transport.Sent()).Length(1)
	gt.Equal(t, transport.Sent()[0].ChannelID, "general")
}
