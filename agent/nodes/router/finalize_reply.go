package routernode

import (
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Response == "" {
		return GraphOutput{}, fmt.Errorf("%w: scenario %s produced no response", contractx.ErrValidation, in.Route)
	}
	return GraphOutput{Response: in.Response}, nil
}
