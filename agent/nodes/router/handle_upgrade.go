package routernode

import (
	"context"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const upgradeIssue = "Upgrade request"

func HandleUpgrade(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	info, err := deps.Data.FetchCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	step(ctx, contractx.ParticipantSupport, "scenario1.handle_support", map[string]any{"issue": upgradeIssue})
	reply, err := deps.Support.HandleSupport(ctx, contractx.SupportRequest{
		Customer: customerOrNil(info),
		Issue:    upgradeIssue,
	})
	if err != nil {
		return nil, err
	}
	in.Response = reply
	return in, nil
}
