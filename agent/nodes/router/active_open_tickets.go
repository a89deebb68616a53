package routernode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const noOpenTickets = "No open tickets for active customers."

// ActiveOpenTickets lists every unresolved ticket of the active customers.
func ActiveOpenTickets(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	customers, err := deps.Data.ListCustomers(ctx, contractx.StatusActive, deps.listLimit())
	if err != nil {
		return nil, err
	}

	var lines []string
	if !customers.Failed() {
		for _, c := range customers.Result {
			history, err := deps.Data.History(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			if history.Failed() {
				continue
			}
			for _, t := range history.Result {
				if t.Status == contractx.TicketResolved {
					continue
				}
				lines = append(lines, fmt.Sprintf("customer_id=%d, ticket_id=%d, issue=%s, priority=%s, status=%s",
					t.CustomerID, t.ID, t.Issue, t.Priority, t.Status))
			}
		}
	}

	if len(lines) == 0 {
		in.Response = noOpenTickets
		return in, nil
	}
	in.Response = strings.Join(lines, "\n")
	return in, nil
}
