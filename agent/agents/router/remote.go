package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanpawarit/supportdesk/agent/a2a"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

// Service is anything that answers router requests, in process or remote.
type Service interface {
	Handle(ctx context.Context, text string) (Reply, error)
}

var (
	_ Service = (*Router)(nil)
	_ Service = (*Remote)(nil)
)

type Messenger interface {
	SendMessage(ctx context.Context, message any, card *a2a.AgentCard) (json.RawMessage, error)
}

// Remote sends requests to a router service.
type Remote struct {
	client Messenger
}

func NewRemote(client Messenger) (*Remote, error) {
	if client == nil {
		return nil, errors.New("a2a client is required")
	}
	return &Remote{client: client}, nil
}

func (r *Remote) Handle(ctx context.Context, text string) (Reply, error) {
	raw, err := r.client.SendMessage(ctx, text, nil)
	if err != nil {
		return Reply{}, err
	}
	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return Reply{}, fmt.Errorf("%w: decode router reply: %v", contractx.ErrTransport, err)
	}
	return reply, nil
}
