// Package support implements the support delegate, which composes replies and
// manages tickets through a data delegate, plus its remote proxy and RPC
// handler.
package support

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/tool"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

const (
	noPriorTickets = " No prior tickets."
	noHistory      = "No ticket history yet."
)

// Local answers support requests in process.
type Local struct {
	data contractx.DataDelegate
}

var _ contractx.SupportDelegate = (*Local)(nil)

func NewLocal(data contractx.DataDelegate) (*Local, error) {
	if data == nil {
		return nil, errors.New("data delegate is required")
	}
	return &Local{data: data}, nil
}

// HandleSupport composes a reply to req. With NeedsContext and a known
// customer it pulls the ticket history from the data delegate first.
func (l *Local) HandleSupport(ctx context.Context, req contractx.SupportRequest) (string, error) {
	var note string
	if req.NeedsContext && req.Customer != nil {
		trace.Record(ctx, contractx.ParticipantSupport, contractx.ParticipantCustomerData, "request_context", map[string]any{
			"customer_id": req.Customer.ID,
		})
		history, err := l.data.History(ctx, req.Customer.ID, contractx.AsSender(contractx.ParticipantSupport))
		if err != nil {
			return "", err
		}
		note = noPriorTickets
		if !history.Failed() && len(history.Result) > 0 {
			note = fmt.Sprintf(" Context: %v", history.Result)
		}
	}

	prefix := ""
	if req.Urgent {
		prefix = "URGENT: "
	}
	return fmt.Sprintf("%sSupport response for %s: %s.%s", prefix, req.Customer.Label(), req.Issue, note), nil
}

// EnsureTicket opens a ticket on behalf of support. A rejected ticket comes
// back as a *contract.ToolError carrying the data delegate's message.
func (l *Local) EnsureTicket(ctx context.Context, customerID int64, issue, priority string) (*contractx.Ticket, error) {
	if priority == "" {
		priority = contractx.PriorityMedium
	}
	res, err := l.data.CreateTicket(ctx, customerID, issue, priority, contractx.AsSender(contractx.ParticipantSupport))
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, &contractx.ToolError{Tool: tool.CreateTicketName, Message: res.Error}
	}
	return res.Result, nil
}

// SummarizeHistory renders the customer's tickets newest first.
func (l *Local) SummarizeHistory(ctx context.Context, customerID int64) (string, error) {
	res, err := l.data.History(ctx, customerID, contractx.AsSender(contractx.ParticipantSupport))
	if err != nil {
		return "", err
	}
	if res.Failed() || len(res.Result) == 0 {
		return noHistory, nil
	}
	return summarize(res.Result), nil
}

// summarize formats tickets as "[created_at] issue (status, priority)" joined
// by "; ".
func summarize(tickets []contractx.Ticket) string {
	parts := make([]string, 0, len(tickets))
	for _, t := range tickets {
		parts = append(parts, fmt.Sprintf("[%s] %s (%s, %s)", contractx.FormatTimestamp(t.CreatedAt), t.Issue, t.Status, t.Priority))
	}
	return strings.Join(parts, "; ")
}
