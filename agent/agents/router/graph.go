package router

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	routernode "github.com/tanpawarit/supportdesk/agent/nodes/router"
)

type scenarioNode func(ctx context.Context, in *routernode.GraphState, deps routernode.Deps) (*routernode.GraphState, error)

var scenarioNodes = map[Intent]scenarioNode{
	IntentCancelWithBilling:  routernode.CancelWithBilling,
	IntentUpdateAndHistory:   routernode.UpdateAndHistory,
	IntentBillingEscalation:  routernode.EscalateBilling,
	IntentHighPriorityReport: routernode.HighPriorityReport,
	IntentActiveOpenTickets:  routernode.ActiveOpenTickets,
	IntentUpgrade:            routernode.HandleUpgrade,
	IntentCustomerLookup:     routernode.LookupCustomer,
	IntentGeneric:            routernode.GenericInquiry,
}

func nodeName(intent Intent) string {
	return "scenario_" + string(intent)
}

func (r *Router) compileHandleGraph(
	ctx context.Context,
) (compose.Runnable[routernode.GraphInput, routernode.GraphOutput], error) {
	graph := compose.NewGraph[routernode.GraphInput, routernode.GraphOutput]()

	if err := graph.AddLambdaNode("parse_request",
		compose.InvokableLambda(func(ctx context.Context, in routernode.GraphInput) (*routernode.GraphState, error) {
			return parseRequest(in), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node parse_request: %w", err)
	}

	branchEnds := make(map[string]bool, len(Intents))
	for _, intent := range Intents {
		name := nodeName(intent)
		run := scenarioNodes[intent]
		if err := graph.AddLambdaNode(name,
			compose.InvokableLambda(func(ctx context.Context, in *routernode.GraphState) (*routernode.GraphState, error) {
				return run(ctx, in, r.deps)
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", name, err)
		}
		branchEnds[name] = true
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *routernode.GraphState) (routernode.GraphOutput, error) {
			return routernode.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *routernode.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			if !branchEnds[in.Route] {
				return "", fmt.Errorf("%w: no scenario node %q", contractx.ErrValidation, in.Route)
			}
			return in.Route, nil
		},
		branchEnds,
	)
	if err := graph.AddBranch("parse_request", branch); err != nil {
		return nil, fmt.Errorf("add scenario branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "parse_request"},
		{"finalize_reply", compose.END},
	}
	for _, intent := range Intents {
		edges = append(edges, [2]string{nodeName(intent), "finalize_reply"})
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.handle"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}

func parseRequest(in routernode.GraphInput) *routernode.GraphState {
	intent := Classify(in.Text)
	st := &routernode.GraphState{
		Text:       in.Text,
		CustomerID: ParseCustomerID(in.Text),
		Route:      nodeName(intent),
	}
	if intent == IntentUpdateAndHistory {
		st.Email = ParseEmail(in.Text)
	}
	return st
}
