package routernode

import (
	"context"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const genericIssue = "General inquiry"

// GenericInquiry is the fallback when no keyword rule matches.
func GenericInquiry(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	info, err := deps.Data.FetchCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	step(ctx, contractx.ParticipantSupport, "scenario_generic.handle_support", map[string]any{"issue": genericIssue})
	reply, err := deps.Support.HandleSupport(ctx, contractx.SupportRequest{
		Customer: customerOrNil(info),
		Issue:    genericIssue,
	})
	if err != nil {
		return nil, err
	}
	in.Response = reply
	return in, nil
}
