// Package data implements the customer-data delegate, in process over the
// tool layer or remotely over A2A, and the RPC handler of the data service.
package data

import (
	"context"
	"errors"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/tool"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

// Tools is the subset of the tool layer the delegate calls.
type Tools interface {
	GetCustomer(ctx context.Context, customerID int64) contractx.ToolResult[*contractx.Customer]
	ListCustomers(ctx context.Context, status string, limit int) contractx.ToolResult[[]contractx.Customer]
	UpdateCustomer(ctx context.Context, customerID int64, data map[string]any) contractx.ToolResult[*contractx.Customer]
	CreateTicket(ctx context.Context, customerID int64, issue, priority string) contractx.ToolResult[*contractx.Ticket]
	GetCustomerHistory(ctx context.Context, customerID int64) contractx.ToolResult[[]contractx.Ticket]
}

// Local runs data operations in process.
type Local struct {
	tools Tools
}

var _ contractx.DataDelegate = (*Local)(nil)

func NewLocal(tools Tools) (*Local, error) {
	if tools == nil {
		return nil, errors.New("data tools are required")
	}
	return &Local{tools: tools}, nil
}

func (l *Local) FetchCustomer(ctx context.Context, customerID int64, opts ...contractx.CallOption) (contractx.ToolResult[*contractx.Customer], error) {
	record(ctx, opts, tool.GetCustomerName, map[string]any{"customer_id": customerID})
	return l.tools.GetCustomer(ctx, customerID), nil
}

func (l *Local) ListCustomers(ctx context.Context, status string, limit int, opts ...contractx.CallOption) (contractx.ToolResult[[]contractx.Customer], error) {
	record(ctx, opts, tool.ListCustomersName, map[string]any{"status": status, "limit": limit})
	return l.tools.ListCustomers(ctx, status, limit), nil
}

func (l *Local) UpdateCustomer(ctx context.Context, customerID int64, data map[string]any, opts ...contractx.CallOption) (contractx.ToolResult[*contractx.Customer], error) {
	record(ctx, opts, tool.UpdateCustomerName, map[string]any{"customer_id": customerID, "data": data})
	return l.tools.UpdateCustomer(ctx, customerID, data), nil
}

func (l *Local) CreateTicket(ctx context.Context, customerID int64, issue, priority string, opts ...contractx.CallOption) (contractx.ToolResult[*contractx.Ticket], error) {
	record(ctx, opts, tool.CreateTicketName, map[string]any{
		"customer_id": customerID,
		"issue":       issue,
		"priority":    priority,
	})
	return l.tools.CreateTicket(ctx, customerID, issue, priority), nil
}

func (l *Local) History(ctx context.Context, customerID int64, opts ...contractx.CallOption) (contractx.ToolResult[[]contractx.Ticket], error) {
	record(ctx, opts, tool.GetCustomerHistoryName, map[string]any{"customer_id": customerID})
	return l.tools.GetCustomerHistory(ctx, customerID), nil
}

func (l *Local) HighPriorityTickets(ctx context.Context, customerIDs []int64) (contractx.BulkTickets, error) {
	return collectHighPriority(ctx, customerIDs, l.History)
}

func record(ctx context.Context, opts []contractx.CallOption, action string, args map[string]any) {
	o := contractx.ResolveCallOptions(opts)
	trace.Record(ctx, o.Sender, contractx.ParticipantCustomerData, action, args)
}
