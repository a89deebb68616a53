package routernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"golang.org/x/sync/errgroup"
)

// UpdateAndHistory updates the customer's email, when one was given, while
// fetching their history, then asks support for a history summary.
func UpdateAndHistory(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	if in.Email != "" {
		step(ctx, contractx.ParticipantCustomerData, "scenario5.update_customer", map[string]any{
			"customer_id": in.CustomerID,
			"data":        map[string]any{"email": in.Email},
		})
	}
	step(ctx, contractx.ParticipantCustomerData, "scenario5.history", map[string]any{"customer_id": in.CustomerID})
	step(ctx, contractx.ParticipantSupport, "scenario5.summarize_history", map[string]any{"customer_id": in.CustomerID})

	// Neither call cancels the other; a failed update must not stop the
	// history fetch.
	var (
		g       errgroup.Group
		updated contractx.ToolResult[*contractx.Customer]
	)
	if in.Email != "" {
		g.Go(func() error {
			res, err := deps.Data.UpdateCustomer(ctx, in.CustomerID, map[string]any{"email": in.Email})
			updated = res
			return err
		})
	}
	// The fetch only surfaces data errors before the summary. Support
	// summarizes by customer id and records its own history hop.
	g.Go(func() error {
		_, err := deps.Data.History(ctx, in.CustomerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	email := "unchanged"
	if !updated.Failed() && updated.Result != nil {
		email = updated.Result.Email
	}

	summary, err := deps.Support.SummarizeHistory(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	in.Response = fmt.Sprintf("Email updated to %s. History: %s", email, summary)
	return in, nil
}
