package routernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const customerNotFound = "Customer not found."

func LookupCustomer(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	step(ctx, contractx.ParticipantCustomerData, "scenario1.route_to_data", map[string]any{"customer_id": in.CustomerID})
	res, err := deps.Data.FetchCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if res.Failed() || res.Result == nil {
		in.Response = customerNotFound
		return in, nil
	}

	step(ctx, contractx.ParticipantSupport, "scenario1.route_to_support", map[string]any{"customer_id": in.CustomerID})
	in.Response = fmt.Sprintf("Customer %d: %s", in.CustomerID, res.Result)
	return in, nil
}
