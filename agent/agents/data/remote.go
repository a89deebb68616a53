package data

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

// Remote forwards data operations to the data service as commands.
type Remote struct {
	client Messenger
	card   *a2a.AgentCard
}

var _ contractx.DataDelegate = (*Remote)(nil)

type RemoteOption func(*Remote)

// WithCard reuses card instead of fetching it on every call.
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

func (r *Remote) FetchCustomer(ctx context.Context, customerID int64, opts ...contractx.CallOption) (contractx.ToolResult[*contractx.Customer], error) {
	args := map[string]any{"customer_id": customerID}
	record(ctx, opts, tool.GetCustomerName, args)
	cmd := command.FetchCustomer{CustomerID: customerID, Sender: sender(opts)}
	return send[*contractx.Customer](ctx, r, contractx.ToolCall{Name: tool.GetCustomerName, Args: args}, cmd)
}

func (r *Remote) ListCustomers(ctx context.Context, status string, limit int, opts ...contractx.CallOption) (contractx.ToolResult[[]contractx.Customer], error) {
	args := map[string]any{"status": status, "limit": limit}
	record(ctx, opts, tool.ListCustomersName, args)
	cmd := command.ListCustomers{Status: status, Limit: limit, Sender: sender(opts)}
	return send[[]contractx.Customer](ctx, r, contractx.ToolCall{Name: tool.ListCustomersName, Args: args}, cmd)
}

func (r *Remote) UpdateCustomer(ctx context.Context, customerID int64, data map[string]any, opts ...contractx.CallOption) (contractx.ToolResult[*contractx.Customer], error) {
	args := map[string]any{"customer_id": customerID, "data": data}
	record(ctx, opts, tool.UpdateCustomerName, args)
	cmd := command.UpdateCustomer{CustomerID: customerID, Data: data, Sender: sender(opts)}
	return send[*contractx.Customer](ctx, r, contractx.ToolCall{Name: tool.UpdateCustomerName, Args: args}, cmd)
}

func (r *Remote) CreateTicket(ctx context.Context, customerID int64, issue, priority string, opts ...contractx.CallOption) (contractx.ToolResult[*contractx.Ticket], error) {
	args := map[string]any{"customer_id": customerID, "issue": issue, "priority": priority}
	record(ctx, opts, tool.CreateTicketName, args)
	cmd := command.CreateTicket{CustomerID: customerID, Issue: issue, Priority: priority, Sender: sender(opts)}
	return send[*contractx.Ticket](ctx, r, contractx.ToolCall{Name: tool.CreateTicketName, Args: args}, cmd)
}

func (r *Remote) History(ctx context.Context, customerID int64, opts ...contractx.CallOption) (contractx.ToolResult[[]contractx.Ticket], error) {
	args := map[string]any{"customer_id": customerID}
	record(ctx, opts, tool.GetCustomerHistoryName, args)
	cmd := command.History{CustomerID: customerID, Sender: sender(opts)}
	return send[[]contractx.Ticket](ctx, r, contractx.ToolCall{Name: tool.GetCustomerHistoryName, Args: args}, cmd)
}

// HighPriorityTickets runs the whole fetch on the data service. The history
// hops it makes there are merged into the caller's trace.
func (r *Remote) HighPriorityTickets(ctx context.Context, customerIDs []int64) (contractx.BulkTickets, error) {
	reply, err := r.exchange(ctx, command.HighPriorityTickets{CustomerIDs: customerIDs})
	if err != nil {
		return contractx.BulkTickets{}, err
	}
	trace.FromContext(ctx).Append(reply.Events...)
	if reply.Error != "" {
		return contractx.BulkTickets{}, fmt.Errorf("high priority tickets: %w", &contractx.ToolError{Tool: command.HighPriorityTicketsName, Message: reply.Error})
	}

	var out contractx.BulkTickets
	if err := decodeResult(reply.Result, &out); err != nil {
		return contractx.BulkTickets{}, err
	}
	return out, nil
}

func (r *Remote) exchange(ctx context.Context, cmd command.DataCommand) (command.RawReply, error) {
	raw, err := r.client.SendMessage(ctx, cmd.Envelope(), r.card)
	if err != nil {
		return command.RawReply{}, err
	}
	reply, err := command.DecodeReply(raw)
	if err != nil {
		return command.RawReply{}, fmt.Errorf("%w: %v", contractx.ErrTransport, err)
	}
	return reply, nil
}

func send[T any](ctx context.Context, r *Remote, call contractx.ToolCall, cmd command.DataCommand) (contractx.ToolResult[T], error) {
	reply, err := r.exchange(ctx, cmd)
	if err != nil {
		return contractx.ToolResult[T]{Call: call}, err
	}
	if reply.Error != "" {
		return contractx.ToolResult[T]{Call: call, Error: reply.Error}, nil
	}

	var out T
	if err := decodeResult(reply.Result, &out); err != nil {
		return contractx.ToolResult[T]{Call: call}, err
	}
	return contractx.Succeeded(call, out), nil
}

func decodeResult(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode command result: %v", contractx.ErrTransport, err)
	}
	return nil
}

func sender(opts []contractx.CallOption) string {
	return contractx.ResolveCallOptions(opts).Sender
}
