package routernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	Response string
}

// GraphState is what flows from the parse step through one scenario node.
type GraphState struct {
	Text       string
	CustomerID int64
	Email      string
	Route      string

	Response string
}

// Deps are the collaborators scenario nodes call.
type Deps struct {
	Data    contractx.DataDelegate
	Support contractx.SupportDelegate

	// IsPremium selects the customers whose tickets the high-priority
	// report covers.
	IsPremium func(contractx.Customer) bool
	ListLimit int
}

func (d Deps) listLimit() int {
	if d.ListLimit <= 0 {
		return 50
	}
	return d.ListLimit
}

func step(ctx context.Context, receiver, action string, args map[string]any) {
	trace.Record(ctx, contractx.ParticipantRouter, receiver, action, args)
}

func checkState(in *GraphState) error {
	if in == nil {
		return fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return nil
}

// customerOrNil returns the fetched customer, or nil when the lookup failed.
func customerOrNil(res contractx.ToolResult[*contractx.Customer]) *contractx.Customer {
	if res.Failed() {
		return nil
	}
	return res.Result
}
