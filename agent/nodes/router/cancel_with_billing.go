package routernode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

const cancelIssue = "Cancel subscription with billing issues"

// CancelWithBilling negotiates with support, which asks for billing context
// before answering.
func CancelWithBilling(ctx context.Context, in *GraphState, deps Deps) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	step(ctx, contractx.ParticipantSupport, "scenario2.can_you_handle", map[string]any{"issue": cancelIssue})
	trace.Record(ctx, contractx.ParticipantSupport, contractx.ParticipantRouter, "scenario2.need_context", map[string]any{"context": "billing history"})

	history, err := deps.Data.History(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	summary := "No prior billing tickets."
	if !history.Failed() && len(history.Result) > 0 {
		parts := make([]string, 0, len(history.Result))
		for _, t := range history.Result {
			parts = append(parts, fmt.Sprintf("%s (%s, %s)", t.Issue, t.Status, t.Priority))
		}
		summary = strings.Join(parts, "; ")
	}

	reply, err := deps.Support.HandleSupport(ctx, contractx.SupportRequest{Issue: cancelIssue, Urgent: true})
	if err != nil {
		return nil, err
	}
	in.Response = fmt.Sprintf("%s Context: %s", reply, summary)
	return in, nil
}
