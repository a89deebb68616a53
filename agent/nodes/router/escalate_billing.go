package routernode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const (
	escalationIssue       = "Billing refund"
	escalationTicketIssue = "Billing refund request (duplicate charge)"
)

// EscalateBilling opens a high-priority ticket and asks support for an urgent
// reply that includes the customer's ticket history.
func EscalateBilling(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	info, err := deps.Data.FetchCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	step(ctx, contractx.ParticipantSupport, "scenario2.negotiate", map[string]any{"issue": escalationIssue})
	ticketNote, err := ensureTicket(ctx, in.CustomerID, deps.Support)
	if err != nil {
		return nil, err
	}

	reply, err := deps.Support.HandleSupport(ctx, contractx.SupportRequest{
		Customer:     customerOrNil(info),
		Issue:        escalationIssue,
		Urgent:       true,
		NeedsContext: true,
	})
	if err != nil {
		return nil, err
	}
	in.Response = reply + " " + ticketNote
	return in, nil
}

func ensureTicket(ctx context.Context, customerID int64, support contractx.SupportDelegate) (string, error) {
	ticket, err := support.EnsureTicket(ctx, customerID, escalationTicketIssue, contractx.PriorityHigh)
	var toolErr *contractx.ToolError
	if errors.As(err, &toolErr) {
		return "Ticket not created: " + toolErr.Message, nil
	}
	if err != nil {
		return "", err
	}
	if ticket == nil {
		return "Ticket not created.", nil
	}
	return fmt.Sprintf("Ticket created: %s", ticket), nil
}
