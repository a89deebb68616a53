package data

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

// Handler answers message/send requests for the data service. Each command
// runs under a fresh trace whose events are returned with the reply.
type Handler struct {
	delegate contractx.DataDelegate
}

func NewHandler(delegate contractx.DataDelegate) (*Handler, error) {
	if delegate == nil {
		return nil, errors.New("data delegate is required")
	}
	return &Handler{delegate: delegate}, nil
}

func (h *Handler) HandleMessage(ctx context.Context, raw json.RawMessage) (any, error) {
	msg, err := command.Parse(raw)
	if err != nil {
		return nil, err
	}
	if msg.Envelope == nil {
		return command.Reply{Result: "CustomerDataAgent received: " + msg.Text}, nil
	}

	cmd, err := command.DecodeData(*msg.Envelope)
	if err != nil {
		return nil, err
	}

	tr := trace.New()
	ctx = trace.NewContext(ctx, tr)
	log.Debug().Str("command", msg.Envelope.Command).Msg("data command received")

	reply, err := h.dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}
	reply.Events = tr.Events()
	return reply, nil
}

func (h *Handler) dispatch(ctx context.Context, cmd command.DataCommand) (command.Reply, error) {
	switch c := cmd.(type) {
	case command.FetchCustomer:
		res, err := h.delegate.FetchCustomer(ctx, c.CustomerID, contractx.AsSender(c.Sender))
		return toolReply(res, err)
	case command.ListCustomers:
		res, err := h.delegate.ListCustomers(ctx, c.Status, c.Limit, contractx.AsSender(c.Sender))
		return toolReply(res, err)
	case command.UpdateCustomer:
		res, err := h.delegate.UpdateCustomer(ctx, c.CustomerID, c.Data, contractx.AsSender(c.Sender))
		return toolReply(res, err)
	case command.CreateTicket:
		res, err := h.delegate.CreateTicket(ctx, c.CustomerID, c.Issue, c.Priority, contractx.AsSender(c.Sender))
		return toolReply(res, err)
	case command.History:
		res, err := h.delegate.History(ctx, c.CustomerID, contractx.AsSender(c.Sender))
		return toolReply(res, err)
	case command.HighPriorityTickets:
		bulk, err := h.delegate.HighPriorityTickets(ctx, c.CustomerIDs)
		if err != nil {
			return command.Reply{}, err
		}
		return command.Reply{Result: bulk}, nil
	default:
		return command.Reply{}, fmt.Errorf("%w: %T", contractx.ErrUnknownCommand, cmd)
	}
}

func toolReply[T any](res contractx.ToolResult[T], err error) (command.Reply, error) {
	if err != nil {
		return command.Reply{}, err
	}
	if res.Failed() {
		return command.Reply{Error: res.Error}, nil
	}
	return command.Reply{Result: res.Result}, nil
}
