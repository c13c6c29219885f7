package model

import "strings"

const (
	// AgentUserID is the synthetic chat participant the relay answers as
	AgentUserID = "ai-agent"

	// AgentDisplayName is shown in the channel member list
	AgentDisplayName = "AI Assistant"

	// AgentRole is the transport-side role of the agent identity
	AgentRole = "admin"

	// DefaultChannelType is used when a caller omits the channel type
	DefaultChannelType = "messaging"
)

// AgentSession identifies a channel the agent has joined. There is no
// teardown: once joined, the agent stays in the channel membership.
type AgentSession struct {
	ChannelType string `json:"channelType"`
	ChannelID   string `json:"channelId"`
}

// Key returns a stable identifier for the channel
func (s AgentSession) Key() string {
	return s.ChannelType + ":" + s.ChannelID
}

// EventMessageNew is the only transport event type the relay dispatches on
const EventMessageNew = "message.new"

// ChatEvent is an inbound chat transport event
type ChatEvent struct {
	Type        string `json:"type"`
	ChannelType string `json:"channelType"`
	ChannelID   string `json:"channelId"`
	Text        string `json:"text"`
	AuthorID    string `json:"userId"`
}

// FromAgent reports whether the event was authored by the agent identity
// itself. Such events must never trigger a dispatch.
func (e ChatEvent) FromAgent() bool {
	return e.AuthorID == AgentUserID
}

// Blank reports whether the event carries no dispatchable text
func (e ChatEvent) Blank() bool {
	return strings.TrimSpace(e.Text) == ""
}
