package adapter_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/promptly-dev/promptly/pkg/adapter"
)

func TestNewStreamRequiresCredentials(t *testing.T) {
	_, err := adapter.NewStream("", "")
	gt.Error(t, err)
}

func TestAddMembersRequiresUserIDs(t *testing.T) {
	transport, err := adapter.NewStream("test-key", "test-secret")
	gt.NoError(t, err)

	// rejected before any transport call is made
	err = transport.AddMembers(context.Background(), "messaging", "general")
	gt.Error(t, err)
}
