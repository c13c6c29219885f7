package adapter

import (
	"context"

	stream "github.com/GetStream/stream-chat-go/v6"
	"github.com/m-mizutani/goerr/v2"
)

// ChatTransport is the boundary to the hosted chat service. The relay
// only needs identity upsert, channel membership and message delivery;
// channel creation and presence stay inside the transport.
type ChatTransport interface {
	UpsertUser(ctx context.Context, id, name, role string) error
	AddMembers(ctx context.Context, channelType, channelID string, userIDs ...string) error
	SendMessage(ctx context.Context, channelType, channelID, userID, text string) error
}

type streamTransport struct {
	client *stream.Client
}

// NewStream creates a chat transport backed by the Stream Chat server SDK
func NewStream(apiKey, apiSecret string) (ChatTransport, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create stream chat client")
	}

	return &streamTransport{client: client}, nil
}

func (s *streamTransport) UpsertUser(ctx context.Context, id, name, role string) error {
	_, err := s.client.UpsertUser(ctx, &stream.User{
		ID:   id,
		Name: name,
		Role: role,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert user", goerr.Value("user_id", id))
	}
	return nil
}

func (s *streamTransport) AddMembers(ctx context.Context, channelType, channelID string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return goerr.New("at least one user id is required",
			goerr.Value("channel_id", channelID))
	}

	ch, err := s.channel(ctx, channelType, channelID, userIDs[0])
	if err != nil {
		return err
	}

	if _, err := ch.AddMembers(ctx, userIDs); err != nil {
		return goerr.Wrap(err, "failed to add channel members",
			goerr.Value("channel_id", channelID))
	}
	return nil
}

func (s *streamTransport) SendMessage(ctx context.Context, channelType, channelID, userID, text string) error {
	ch, err := s.channel(ctx, channelType, channelID, userID)
	if err != nil {
		return err
	}

	if _, err := ch.SendMessage(ctx, &stream.Message{Text: text}, userID); err != nil {
		return goerr.Wrap(err, "failed to send message",
			goerr.Value("channel_id", channelID))
	}
	return nil
}

// channel resolves a channel handle. CreateChannel is get-or-create on the
// Stream side, so this is safe to call for existing channels.
func (s *streamTransport) channel(ctx context.Context, channelType, channelID, userID string) (*stream.Channel, error) {
	resp, err := s.client.CreateChannel(ctx, channelType, channelID, userID, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve channel",
			goerr.Value("channel_type", channelType),
			goerr.Value("channel_id", channelID))
	}
	return resp.Channel, nil
}
