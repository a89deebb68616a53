package tool

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/store"
)

func newTestToolbox(t *testing.T) *Toolbox {
	t.Helper()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "tools.db") + "?_foreign_keys=on"
	st, err := store.Open(ctx, store.Config{DSN: dsn})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	tb, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tb
}

func TestGetCustomer(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	res := tb.GetCustomer(context.Background(), 5)
	if res.Failed() {
		t.Fatalf("GetCustomer() error = %s", res.Error)
	}
	if res.Result.Name != "Customer Five" || res.Call.Name != GetCustomerName {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestGetCustomerErrors(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	tests := []struct {
		id   int64
		want string
	}{
		{id: 0, want: "customer_id must be a positive integer"},
		{id: -3, want: "customer_id must be a positive integer"},
		{id: 999, want: "Customer 999 not found"},
	}
	for _, tt := range tests {
		res := tb.GetCustomer(context.Background(), tt.id)
		if res.Error != tt.want {
			t.Fatalf("GetCustomer(%d) error = %q, want %q", tt.id, res.Error, tt.want)
		}
		if res.Result != nil {
			t.Fatalf("GetCustomer(%d) result = %+v, want nil", tt.id, res.Result)
		}
	}
}

func TestListCustomersValidation(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	ctx := context.Background()

	if res := tb.ListCustomers(ctx, "vip", 10); !strings.HasPrefix(res.Error, "status must be one of") {
		t.Fatalf("ListCustomers(vip) error = %q", res.Error)
	}
	if res := tb.ListCustomers(ctx, "", 101); res.Error != "limit too high; must be <= 100" {
		t.Fatalf("ListCustomers(101) error = %q", res.Error)
	}
	if res := tb.ListCustomers(ctx, "", 0); res.Error != "limit must be a positive integer" {
		t.Fatalf("ListCustomers(0) error = %q", res.Error)
	}

	res := tb.ListCustomers(ctx, contractx.StatusActive, 50)
	if res.Failed() || len(res.Result) != 3 {
		t.Fatalf("ListCustomers(active) = %+v", res)
	}
}

func TestUpdateCustomerFiltersFields(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	ctx := context.Background()

	res := tb.UpdateCustomer(ctx, 5, map[string]any{"id": 99, "vip": true})
	if res.Error != "No valid fields to update" {
		t.Fatalf("UpdateCustomer() error = %q", res.Error)
	}

	res = tb.UpdateCustomer(ctx, 5, map[string]any{"status": "frozen"})
	if !strings.HasPrefix(res.Error, "status must be one of") {
		t.Fatalf("UpdateCustomer(status) error = %q", res.Error)
	}

	res = tb.UpdateCustomer(ctx, 5, map[string]any{"email": "five@example.com", "id": 99})
	if res.Failed() || res.Result.Email != "five@example.com" || res.Result.ID != 5 {
		t.Fatalf("UpdateCustomer() = %+v", res)
	}

	res = tb.UpdateCustomer(ctx, 404, map[string]any{"email": "x@example.com"})
	if res.Error != "Customer 404 not found" {
		t.Fatalf("UpdateCustomer(404) error = %q", res.Error)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	ctx := context.Background()

	if res := tb.CreateTicket(ctx, 5, "   ", contractx.PriorityLow); res.Error != "issue is required" {
		t.Fatalf("CreateTicket(blank) error = %q", res.Error)
	}
	if res := tb.CreateTicket(ctx, 5, "x", "urgent"); !strings.HasPrefix(res.Error, "priority must be one of") {
		t.Fatalf("CreateTicket(urgent) error = %q", res.Error)
	}
	if res := tb.CreateTicket(ctx, 404, "x", contractx.PriorityLow); res.Error != "Customer 404 not found" {
		t.Fatalf("CreateTicket(404) error = %q", res.Error)
	}

	res := tb.CreateTicket(ctx, 5, "Login broken", contractx.PriorityHigh)
	if res.Failed() || res.Result.Status != contractx.TicketOpen || res.Result.Priority != contractx.PriorityHigh {
		t.Fatalf("CreateTicket() = %+v", res)
	}

	history := tb.GetCustomerHistory(ctx, 5)
	if history.Failed() || len(history.Result) != 1 || history.Result[0].Issue != "Login broken" {
		t.Fatalf("GetCustomerHistory() = %+v", history)
	}
}

func TestExecuteDispatch(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	ctx := context.Background()

	out, err := tb.Execute(ctx, GetCustomerName, map[string]any{"customer_id": float64(5)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if c, ok := out.(*contractx.Customer); !ok || c.ID != 5 {
		t.Fatalf("Execute() = %#v", out)
	}

	_, err = tb.Execute(ctx, GetCustomerName, map[string]any{"customer_id": 777})
	var toolErr *contractx.ToolError
	if !errors.As(err, &toolErr) || toolErr.Message != "Customer 777 not found" {
		t.Fatalf("Execute() error = %v", err)
	}

	if _, err := tb.Execute(ctx, "math.evaluate", nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Execute(unknown) error = %v", err)
	}
}

func TestCatalogCoversExecute(t *testing.T) {
	t.Parallel()

	specs := Catalog()
	if len(specs) != 5 {
		t.Fatalf("catalog size = %d, want 5", len(specs))
	}
	tb := newTestToolbox(t)
	for _, spec := range specs {
		_, err := tb.Execute(context.Background(), spec.Name, map[string]any{})
		if err != nil && strings.Contains(err.Error(), "is unavailable") {
			t.Fatalf("catalog tool %s is not dispatched", spec.Name)
		}
	}
}

func TestMCPHandler(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	handler := mcpHandler(tb, GetCustomerHistoryName)

	var req mcp.CallToolRequest
	req.Params.Name = GetCustomerHistoryName
	req.Params.Arguments = map[string]any{"customer_id": float64(12345)}

	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if res.IsError || len(res.Content) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want mcp.TextContent", res.Content[0])
	}
	var tickets []contractx.Ticket
	if err := json.Unmarshal([]byte(text.Text), &tickets); err != nil {
		t.Fatalf("decode tickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].Priority != contractx.PriorityHigh {
		t.Fatalf("tickets = %+v", tickets)
	}

	req.Params.Arguments = map[string]any{"customer_id": float64(0)}
	res, err = handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if !res.IsError {
		t.Fatal("expected an MCP error result for invalid id")
	}
}

func TestNewMCPServerRegistersCatalog(t *testing.T) {
	t.Parallel()

	tb := newTestToolbox(t)
	if s := NewMCPServer(tb, "test"); s == nil {
		t.Fatal("NewMCPServer() returned nil")
	}
	if h := NewMCPHandler(tb, "test"); h == nil {
		t.Fatal("NewMCPHandler() returned nil")
	}
}
