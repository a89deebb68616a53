package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanpawarit/supportdesk/agent/a2a"
	"github.com/tanpawarit/supportdesk/agent/command"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/tool"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

// Messenger sends an A2A message and returns the raw result.message.
type Messenger interface {
	SendMessage(ctx context.Context, message any, card *a2a.AgentCard) (json.RawMessage, error)
}

// Remote forwards support operations to the support service. The hops the
// service records while answering are merged into the caller's trace.
type Remote struct {
	client Messenger
	card   *a2a.AgentCard
}

var _ contractx.SupportDelegate = (*Remote)(nil)

type RemoteOption func(*Remote)

func WithCard(card *a2a.AgentCard) RemoteOption {
	return func(r *Remote) {
		r.card = card
	}
}

func NewRemote(client Messenger, opts ...RemoteOption) (*Remote, error) {
	if client == nil {
		return nil, errors.New("a2a client is required")
	}
	r := &Remote{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func (r *Remote) HandleSupport(ctx context.Context, req contractx.SupportRequest) (string, error) {
	var reply string
	err := r.call(ctx, command.HandleSupport{
		Customer:     req.Customer,
		Issue:        req.Issue,
		Urgent:       req.Urgent,
		NeedsContext: req.NeedsContext,
	}, &reply)
	return reply, err
}

func (r *Remote) EnsureTicket(ctx context.Context, customerID int64, issue, priority string) (*contractx.Ticket, error) {
	var ticket *contractx.Ticket
	if err := r.call(ctx, command.EnsureTicket{CustomerID: customerID, Issue: issue, Priority: priority}, &ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *Remote) SummarizeHistory(ctx context.Context, customerID int64) (string, error) {
	var summary string
	err := r.call(ctx, command.SummarizeHistory{CustomerID: customerID}, &summary)
	return summary, err
}

func (r *Remote) call(ctx context.Context, cmd command.SupportCommand, out any) error {
	raw, err := r.client.SendMessage(ctx, cmd.Envelope(), r.card)
	if err != nil {
		return err
	}
	reply, err := command.DecodeReply(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrTransport, err)
	}
	trace.FromContext(ctx).Append(reply.Events...)

	if reply.Error != "" {
		return &contractx.ToolError{Tool: toolFor(cmd), Message: reply.Error}
	}
	if len(reply.Result) == 0 || string(reply.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("%w: decode %s result: %v", contractx.ErrTransport, cmd.Envelope().Command, err)
	}
	return nil
}

func toolFor(cmd command.SupportCommand) string {
	if _, ok := cmd.(command.EnsureTicket); ok {
		return tool.CreateTicketName
	}
	return cmd.Envelope().Command
}
