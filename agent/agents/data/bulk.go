package data

import (
	"context"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

type historyFunc func(ctx context.Context, customerID int64, opts ...contractx.CallOption) (contractx.ToolResult[[]contractx.Ticket], error)

// collectHighPriority fetches each customer's history in order and keeps the
// high-priority tickets. Customers whose history fails or is empty are
// reported in Skipped; only hard errors abort.
func collectHighPriority(ctx context.Context, customerIDs []int64, history historyFunc) (contractx.BulkTickets, error) {
	out := contractx.BulkTickets{Tickets: []contractx.Ticket{}}
	for _, id := range customerIDs {
		res, err := history(ctx, id)
		if err != nil {
			return contractx.BulkTickets{}, err
		}
		if res.Failed() || len(res.Result) == 0 {
			if res.Failed() {
				log.Debug().Int64("customer_id", id).Str("error", res.Error).Msg("skipping customer history")
			}
			out.Skipped = append(out.Skipped, id)
			continue
		}
		for _, ticket := range res.Result {
			if ticket.Priority == contractx.PriorityHigh {
				out.Tickets = append(out.Tickets, ticket)
			}
		}
	}
	return out, nil
}
