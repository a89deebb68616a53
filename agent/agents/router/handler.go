package router

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tanpawarit/supportdesk/agent/command"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

// Handler serves the router over A2A. Any message is treated as request
// text; command envelopes are passed through as their JSON.
type Handler struct {
	router *Router
}

func NewHandler(router *Router) (*Handler, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	return &Handler{router: router}, nil
}

func (h *Handler) HandleMessage(ctx context.Context, raw json.RawMessage) (any, error) {
	msg, err := command.Parse(raw)
	switch {
	case errors.Is(err, contractx.ErrUnknownCommand):
		msg = command.Message{Text: string(raw)}
	case err != nil:
		return nil, err
	}
	text := msg.Text
	if msg.Envelope != nil {
		text = string(raw)
	}

	reply, err := h.router.Handle(ctx, text)
	if err != nil {
		return nil, err
	}
	return reply, nil
}
