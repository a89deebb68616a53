package support

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tanpawarit/supportdesk/agent/agents/data"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

var seededAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type fakeTools struct {
	history map[int64][]contractx.Ticket
}

func newFakeTools() *fakeTools {
	return &fakeTools{history: map[int64][]contractx.Ticket{
		12345: {
			{ID: 2, CustomerID: 12345, Issue: "Duplicate charge", Status: contractx.TicketOpen, Priority: contractx.PriorityHigh, CreatedAt: seededAt.Add(time.Hour)},
			{ID: 1, CustomerID: 12345, Issue: "Login issue", Status: contractx.TicketResolved, Priority: contractx.PriorityLow, CreatedAt: seededAt},
		},
	}}
}

func (f *fakeTools) GetCustomer(context.Context, int64) contractx.ToolResult[*contractx.Customer] {
	return contractx.ToolResult[*contractx.Customer]{Error: "unused"}
}

func (f *fakeTools) ListCustomers(context.Context, string, int) contractx.ToolResult[[]contractx.Customer] {
	return contractx.ToolResult[[]contractx.Customer]{Error: "unused"}
}

func (f *fakeTools) UpdateCustomer(context.Context, int64, map[string]any) contractx.ToolResult[*contractx.Customer] {
	return contractx.ToolResult[*contractx.Customer]{Error: "unused"}
}

func (f *fakeTools) CreateTicket(_ context.Context, id int64, issue, priority string) contractx.ToolResult[*contractx.Ticket] {
	call := contractx.ToolCall{Name: "create_ticket"}
	if id != 12345 {
		return contractx.Failed[*contractx.Ticket](call, contractx.NotFoundf("Customer %d not found", id))
	}
	ticket := &contractx.Ticket{ID: 3, CustomerID: id, Issue: issue, Status: contractx.TicketOpen, Priority: priority, CreatedAt: seededAt}
	return contractx.Succeeded(call, ticket)
}

func (f *fakeTools) GetCustomerHistory(_ context.Context, id int64) contractx.ToolResult[[]contractx.Ticket] {
	return contractx.Succeeded(contractx.ToolCall{Name: "get_customer_history"}, append([]contractx.Ticket{}, f.history[id]...))
}

func newTestLocal(t *testing.T) *Local {
	t.Helper()

	dataLocal, err := data.NewLocal(newFakeTools())
	if err != nil {
		t.Fatalf("data.NewLocal() error = %v", err)
	}
	local, err := NewLocal(dataLocal)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	return local
}

func TestHandleSupportWithoutContext(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	tr := trace.New()

	got, err := local.HandleSupport(trace.NewContext(context.Background(), tr), contractx.SupportRequest{Issue: "General inquiry"})
	if err != nil {
		t.Fatalf("HandleSupport() error = %v", err)
	}
	if got != "Support response for customer: General inquiry." {
		t.Fatalf("HandleSupport() = %q", got)
	}
	if tr.Len() != 0 {
		t.Fatalf("HandleSupport() recorded %d events without context fetch", tr.Len())
	}
}

func TestHandleSupportFetchesContext(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	tr := trace.New()
	customer := &contractx.Customer{ID: 12345, Name: "VIP"}

	got, err := local.HandleSupport(trace.NewContext(context.Background(), tr), contractx.SupportRequest{
		Customer:     customer,
		Issue:        "Refund",
		Urgent:       true,
		NeedsContext: true,
	})
	if err != nil {
		t.Fatalf("HandleSupport() error = %v", err)
	}
	if !strings.HasPrefix(got, "URGENT: Support response for VIP (id=12345): Refund. Context: [") {
		t.Fatalf("HandleSupport() = %q", got)
	}
	if !strings.Contains(got, "issue=Duplicate charge") {
		t.Fatalf("HandleSupport() = %q, want history in context", got)
	}

	want := "[A2A] from=Support to=CustomerData action=request_context args=map[customer_id:12345]\n" +
		"[A2A] from=Support to=CustomerData action=get_customer_history args=map[customer_id:12345]"
	if tr.Dump() != want {
		t.Fatalf("Dump() = %q, want %q", tr.Dump(), want)
	}
}

func TestHandleSupportNoPriorTickets(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	got, err := local.HandleSupport(context.Background(), contractx.SupportRequest{
		Customer:     &contractx.Customer{ID: 5, Name: "Customer Five"},
		Issue:        "Upgrade request",
		NeedsContext: true,
	})
	if err != nil {
		t.Fatalf("HandleSupport() error = %v", err)
	}
	if got != "Support response for Customer Five (id=5): Upgrade request. No prior tickets." {
		t.Fatalf("HandleSupport() = %q", got)
	}
}

func TestEnsureTicket(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	tr := trace.New()

	ticket, err := local.EnsureTicket(trace.NewContext(context.Background(), tr), 12345, "Billing refund", "")
	if err != nil {
		t.Fatalf("EnsureTicket() error = %v", err)
	}
	if ticket.Priority != contractx.PriorityMedium || ticket.Issue != "Billing refund" {
		t.Fatalf("EnsureTicket() = %+v", ticket)
	}
	events := tr.Events()
	if len(events) != 1 || events[0].Sender != contractx.ParticipantSupport || events[0].Action != "create_ticket" {
		t.Fatalf("events = %+v", events)
	}
}

func TestEnsureTicketCarriesToolError(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	_, err := local.EnsureTicket(context.Background(), 999, "Billing refund", contractx.PriorityHigh)

	var toolErr *contractx.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("EnsureTicket() error = %v, want *ToolError", err)
	}
	if toolErr.Message != "Customer 999 not found" {
		t.Fatalf("ToolError.Message = %q", toolErr.Message)
	}
}

func TestSummarizeHistory(t *testing.T) {
	t.Parallel()

	local := newTestLocal(t)
	ctx := context.Background()

	got, err := local.SummarizeHistory(ctx, 12345)
	if err != nil {
		t.Fatalf("SummarizeHistory() error = %v", err)
	}
	want := "[2025-03-01 10:30:00] Duplicate charge (open, high); [2025-03-01 09:30:00] Login issue (resolved, low)"
	if got != want {
		t.Fatalf("SummarizeHistory() = %q, want %q", got, want)
	}

	empty, err := local.SummarizeHistory(ctx, 5)
	if err != nil {
		t.Fatalf("SummarizeHistory() error = %v", err)
	}
	if empty != "No ticket history yet." {
		t.Fatalf("SummarizeHistory(empty) = %q", empty)
	}
}
