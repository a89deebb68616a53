package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/supportdesk/agent/command"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

// Handler answers message/send requests for the support service.
type Handler struct {
	delegate contractx.SupportDelegate
}

func NewHandler(delegate contractx.SupportDelegate) (*Handler, error) {
	if delegate == nil {
		return nil, errors.New("support delegate is required")
	}
	return &Handler{delegate: delegate}, nil
}

func (h *Handler) HandleMessage(ctx context.Context, raw json.RawMessage) (any, error) {
	msg, err := command.Parse(raw)
	if err != nil {
		return nil, err
	}
	if msg.Envelope == nil {
		return command.Reply{Result: "SupportAgent received: " + msg.Text}, nil
	}

	cmd, err := command.DecodeSupport(*msg.Envelope)
	if err != nil {
		return nil, err
	}

	tr := trace.New()
	ctx = trace.NewContext(ctx, tr)
	log.Debug().Str("command", msg.Envelope.Command).Msg("support command received")

	reply, err := h.dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}
	reply.Events = tr.Events()
	return reply, nil
}

func (h *Handler) dispatch(ctx context.Context, cmd command.SupportCommand) (command.Reply, error) {
	switch c := cmd.(type) {
	case command.HandleSupport:
		out, err := h.delegate.HandleSupport(ctx, c.Request())
		if err != nil {
			return command.Reply{}, err
		}
		return command.Reply{Result: out}, nil
	case command.EnsureTicket:
		ticket, err := h.delegate.EnsureTicket(ctx, c.CustomerID, c.Issue, c.Priority)
		var toolErr *contractx.ToolError
		if errors.As(err, &toolErr) {
			return command.Reply{Error: toolErr.Message}, nil
		}
		if err != nil {
			return command.Reply{}, err
		}
		return command.Reply{Result: ticket}, nil
	case command.SummarizeHistory:
		out, err := h.delegate.SummarizeHistory(ctx, c.CustomerID)
		if err != nil {
			return command.Reply{}, err
		}
		return command.Reply{Result: out}, nil
	default:
		return command.Reply{}, fmt.Errorf("%w: %T", contractx.ErrUnknownCommand, cmd)
	}
}
