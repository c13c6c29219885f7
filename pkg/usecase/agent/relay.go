package agent

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/promptly-dev/promptly/pkg/adapter"
	"github.com/promptly-dev/promptly/pkg/model"
	"github.com/promptly-dev/promptly/pkg/utils/logging"
)

const defaultQueueSize = 64

// Pipeline runs one generation request. The relay shares the direct
// API's entry point; only the answer framing differs, via the
// Conversational flag.
type Pipeline interface {
	Run(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error)
}

// Relay turns chat channels into autonomous participants: it joins a
// channel as the agent identity, consumes transport events through a
// bounded queue, and answers eligible messages through the pipeline.
type Relay struct {
	transport adapter.ChatTransport
	pipeline  Pipeline
	intent    func(string) bool
	policy    *DispatchPolicy

	events chan model.ChatEvent

	mu     sync.Mutex
	joined map[string]struct{}
}

// Option is a functional option for Relay
type Option func(*Relay)

// WithSearchIntent replaces the search-intent predicate
func WithSearchIntent(intent func(string) bool) Option {
	return func(r *Relay) {
		r.intent = intent
	}
}

// WithDispatchPolicy gates dispatches through a Rego policy
func WithDispatchPolicy(policy *DispatchPolicy) Option {
	return func(r *Relay) {
		r.policy = policy
	}
}

// WithQueueSize overrides the event queue capacity
func WithQueueSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.events = make(chan model.ChatEvent, n)
		}
	}
}

// KeywordIntent builds a search-intent predicate matching any of the
// given keywords, case-insensitive
func KeywordIntent(keywords ...string) func(string) bool {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	return func(text string) bool {
		text = strings.ToLower(text)
		for _, kw := range lowered {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// New creates an agent relay
func New(transport adapter.ChatTransport, pipeline Pipeline, opts ...Option) *Relay {
	r := &Relay{
		transport: transport,
		pipeline:  pipeline,
		intent:    KeywordIntent("search"),
		events:    make(chan model.ChatEvent, defaultQueueSize),
		joined:    map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start joins the agent to a channel: the agent identity is upserted in
// the transport's user directory and added to the channel membership.
// Starting an already-joined channel is a no-op. There is no stop
// operation; once joined the agent stays.
func (r *Relay) Start(ctx context.Context, channelType, channelID string) error {
	if channelID == "" {
		return goerr.Wrap(model.ErrInvalidRequest, "channelId is required")
	}
	if channelType == "" {
		channelType = model.DefaultChannelType
	}

	session := model.AgentSession{ChannelType: channelType, ChannelID: channelID}

	r.mu.Lock()
	_, already := r.joined[session.Key()]
	r.mu.Unlock()
	if already {
		return nil
	}

	if err := r.transport.UpsertUser(ctx, model.AgentUserID, model.AgentDisplayName, model.AgentRole); err != nil {
		return goerr.Wrap(err, "failed to upsert agent identity")
	}

	if err := r.transport.AddMembers(ctx, channelType, channelID, model.AgentUserID); err != nil {
		return goerr.Wrap(err, "failed to join channel",
			goerr.Value("channel_id", channelID))
	}

	r.mu.Lock()
	r.joined[session.Key()] = struct{}{}
	r.mu.Unlock()

	logging.From(ctx).Info("agent joined channel",
		"channel_type", channelType, "channel_id", channelID)
	return nil
}

// Joined reports whether the agent is a member of the channel
func (r *Relay) Joined(channelType, channelID string) bool {
	session := model.AgentSession{ChannelType: channelType, ChannelID: channelID}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.joined[session.Key()]
	return ok
}

// Deliver enqueues one transport event for processing. It never blocks;
// when the queue is full the event is dropped with a log. Fire-and-forget
// from the caller's perspective.
func (r *Relay) Deliver(ctx context.Context, ev model.ChatEvent) {
	if ev.ChannelType == "" {
		ev.ChannelType = model.DefaultChannelType
	}

	select {
	case r.events <- ev:
	default:
		logging.From(ctx).Warn("event queue full, dropping event",
			"channel_id", ev.ChannelID, "author", ev.AuthorID)
	}
}

// Run consumes the event queue until the context is canceled. Dispatch
// failures are logged and the loop keeps listening; a bad message never
// tears down the subscription.
func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.events:
			r.dispatch(ctx, ev)
		}
	}
}

// dispatch applies the eligibility filter and, for eligible events, runs
// the pipeline and relays the answer back as the agent identity.
func (r *Relay) dispatch(ctx context.Context, ev model.ChatEvent) {
	logger := logging.From(ctx)

	if ev.Type != model.EventMessageNew || ev.Blank() {
		return
	}
	if !r.Joined(ev.ChannelType, ev.ChannelID) {
		return
	}
	// the agent's own replies come back as new-message events; never
	// answer them or the loop feeds itself
	if ev.FromAgent() {
		return
	}
	if r.policy != nil && !r.policy.Allow(ctx, ev) {
		logger.Info("dispatch denied by policy",
			"channel_id", ev.ChannelID, "author", ev.AuthorID)
		return
	}

	result, err := r.pipeline.Run(ctx, model.GenerationRequest{
		Prompt:         ev.Text,
		IncludeSearch:  r.intent(ev.Text),
		Conversational: true,
	})
	if err != nil {
		logger.Warn("agent dispatch failed",
			"error", err, "channel_id", ev.ChannelID)
		return
	}

	if err := r.transport.SendMessage(ctx, ev.ChannelType, ev.ChannelID, model.AgentUserID, result.Text); err != nil {
		logger.Warn("failed to relay answer",
			"error", err, "channel_id", ev.ChannelID)
	}
}

// DispatchForTest is a test helper that exposes dispatch
func (r *Relay) DispatchForTest(ctx context.Context, ev model.ChatEvent) {
	r.dispatch(ctx, ev)
}
