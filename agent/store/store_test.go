package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

func newTestStore(t *testing.T) *BunStore {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") + "?_foreign_keys=on"
	st, err := Open(context.Background(), Config{DSN: dsn})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return st
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := st.Seed(ctx); err != nil {
			t.Fatalf("Seed() run %d error = %v", i+1, err)
		}
	}

	customers, err := st.ListCustomers(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(customers) != 5 {
		t.Fatalf("customers = %d, want 5", len(customers))
	}
	if customers[0].Name != "Ana Customer" || customers[0].ID != 1 {
		t.Fatalf("first customer = %+v", customers[0])
	}

	vip, err := st.GetCustomer(ctx, VIPCustomerID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if vip.Phone != "+1-555-12345" || vip.Status != contractx.StatusActive {
		t.Fatalf("unexpected vip customer %+v", vip)
	}

	tickets, err := st.ListTickets(ctx, VIPCustomerID)
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != 1 || tickets[0].Priority != contractx.PriorityHigh || tickets[0].Status != contractx.TicketOpen {
		t.Fatalf("unexpected vip tickets %+v", tickets)
	}
}

func TestGetCustomerMissing(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, err := st.GetCustomer(context.Background(), 404); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("GetCustomer() error = %v, want ErrNoRecord", err)
	}
}

func TestListCustomersFiltersAndLimits(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	active, err := st.ListCustomers(ctx, contractx.StatusActive, 50)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("active customers = %d, want 3", len(active))
	}
	for _, c := range active {
		if c.Status != contractx.StatusActive {
			t.Fatalf("customer %d has status %q", c.ID, c.Status)
		}
	}

	limited, err := st.ListCustomers(ctx, "", 2)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited customers = %d, want 2", len(limited))
	}
}

func TestUpdateCustomer(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	st.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }

	updated, err := st.UpdateCustomer(ctx, 5, map[string]string{"email": "new@example.com"})
	if err != nil {
		t.Fatalf("UpdateCustomer() error = %v", err)
	}
	if updated.Email != "new@example.com" || updated.Name != "Customer Five" {
		t.Fatalf("unexpected updated customer %+v", updated)
	}

	got, err := st.GetCustomer(ctx, 5)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Email != "new@example.com" || !got.UpdatedAt.Equal(st.now()) {
		t.Fatalf("stored customer = %+v", got)
	}

	if _, err := st.UpdateCustomer(ctx, 999, map[string]string{"email": "x@example.com"}); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("UpdateCustomer() missing error = %v, want ErrNoRecord", err)
	}
	if _, err := st.UpdateCustomer(ctx, 5, map[string]string{"id": "7"}); err == nil {
		t.Fatal("UpdateCustomer() expected error for unsupported field")
	}
}

func TestCreateTicketAndHistoryOrder(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, issue := range []string{"first", "second", "third"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		st.now = func() time.Time { return ts }
		ticket, err := st.CreateTicket(ctx, 5, issue, contractx.PriorityLow)
		if err != nil {
			t.Fatalf("CreateTicket(%q) error = %v", issue, err)
		}
		if ticket.ID == 0 || ticket.Status != contractx.TicketOpen || ticket.CustomerID != 5 {
			t.Fatalf("unexpected ticket %+v", ticket)
		}
	}

	history, err := st.ListTickets(ctx, 5)
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history = %d tickets, want 3", len(history))
	}
	if history[0].Issue != "third" || history[2].Issue != "first" {
		t.Fatalf("history not newest first: %+v", history)
	}
}

func TestCreateTicketUnknownCustomer(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, err := st.CreateTicket(context.Background(), 77, "issue", contractx.PriorityHigh); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("CreateTicket() error = %v, want ErrNoRecord", err)
	}
}

func TestResetDropsData(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if err := st.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	customers, err := st.ListCustomers(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(customers) != 0 {
		t.Fatalf("customers after reset = %d, want 0", len(customers))
	}
}
