package contract

import "context"

// DataDelegate is the customer and ticket capability set. Every call records a
// hop on the request trace before it runs. Business failures come back in
// ToolResult.Error; the returned error is reserved for transport failures.
type DataDelegate interface {
	FetchCustomer(ctx context.Context, customerID int64, opts ...CallOption) (ToolResult[*Customer], error)
	ListCustomers(ctx context.Context, status string, limit int, opts ...CallOption) (ToolResult[[]Customer], error)
	UpdateCustomer(ctx context.Context, customerID int64, data map[string]any, opts ...CallOption) (ToolResult[*Customer], error)
	CreateTicket(ctx context.Context, customerID int64, issue, priority string, opts ...CallOption) (ToolResult[*Ticket], error)
	History(ctx context.Context, customerID int64, opts ...CallOption) (ToolResult[[]Ticket], error)
	HighPriorityTickets(ctx context.Context, customerIDs []int64) (BulkTickets, error)
}

type SupportDelegate interface {
	HandleSupport(ctx context.Context, req SupportRequest) (string, error)
	EnsureTicket(ctx context.Context, customerID int64, issue, priority string) (*Ticket, error)
	SummarizeHistory(ctx context.Context, customerID int64) (string, error)
}

type CallOptions struct {
	Sender string
}

type CallOption func(*CallOptions)

// AsSender overrides the participant recorded as the caller of a hop.
func AsSender(name string) CallOption {
	return func(o *CallOptions) {
		if name != "" {
			o.Sender = name
		}
	}
}

func ResolveCallOptions(opts []CallOption) CallOptions {
	out := CallOptions{Sender: ParticipantRouter}
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}
