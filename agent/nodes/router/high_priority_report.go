package routernode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const noHighPriority = "No high-priority tickets found."

// HighPriorityReport lists the high-priority tickets of premium customers.
func HighPriorityReport(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	limit := deps.listLimit()
	step(ctx, contractx.ParticipantCustomerData, "scenario3.list_customers", map[string]any{"status": contractx.StatusActive, "limit": limit})
	customers, err := deps.Data.ListCustomers(ctx, contractx.StatusActive, limit)
	if err != nil {
		return nil, err
	}

	var premiumIDs []int64
	if !customers.Failed() {
		premiumIDs = premiumCustomerIDs(customers.Result, deps.IsPremium)
	}
	if len(premiumIDs) == 0 {
		in.Response = noHighPriority
		return in, nil
	}

	step(ctx, contractx.ParticipantCustomerData, "scenario3.high_priority_tickets", map[string]any{"customer_ids": premiumIDs})
	bulk, err := deps.Data.HighPriorityTickets(ctx, premiumIDs)
	if err != nil {
		return nil, err
	}
	if len(bulk.Skipped) > 0 {
		log.Warn().Ints64("customer_ids", bulk.Skipped).Msg("skipped customers in high-priority report")
	}
	if len(bulk.Tickets) == 0 {
		in.Response = noHighPriority
		return in, nil
	}

	lines := make([]string, 0, len(bulk.Tickets))
	for _, t := range bulk.Tickets {
		lines = append(lines, fmt.Sprintf("Ticket %d for customer %d: %s (%s)", t.ID, t.CustomerID, t.Issue, t.Status))
	}
	in.Response = strings.Join(lines, "\n")
	return in, nil
}

// premiumCustomerIDs keeps the first occurrence of each premium id.
func premiumCustomerIDs(customers []contractx.Customer, isPremium func(contractx.Customer) bool) []int64 {
	if isPremium == nil {
		return nil
	}
	seen := make(map[int64]struct{}, len(customers))
	var ids []int64
	for _, c := range customers {
		if !isPremium(c) {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}
	return ids
}
