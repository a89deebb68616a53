package contract

import (
	"errors"
	"testing"
	"time"
)

func TestValidationErrorMatching(t *testing.T) {
	t.Parallel()

	invalid := Invalidf("limit too high; must be <= %d", 100)
	if invalid.Error() != "limit too high; must be <= 100" {
		t.Fatalf("Error() = %q", invalid.Error())
	}
	if !errors.Is(invalid, ErrValidation) {
		t.Fatal("expected invalid argument to match ErrValidation")
	}
	if errors.Is(invalid, ErrNotFound) {
		t.Fatal("invalid argument should not match ErrNotFound")
	}

	missing := NotFoundf("Customer %d not found", 7)
	if !errors.Is(missing, ErrNotFound) || !errors.Is(missing, ErrValidation) {
		t.Fatalf("expected %v to match ErrNotFound and ErrValidation", missing)
	}
	if !errors.Is(ErrNotFound, ErrValidation) {
		t.Fatal("ErrNotFound should wrap ErrValidation")
	}
}

func TestResolveCallOptionsDefaultsToRouter(t *testing.T) {
	t.Parallel()

	if got := ResolveCallOptions(nil).Sender; got != ParticipantRouter {
		t.Fatalf("default sender = %q, want %q", got, ParticipantRouter)
	}
	got := ResolveCallOptions([]CallOption{AsSender(ParticipantSupport), AsSender("")}).Sender
	if got != ParticipantSupport {
		t.Fatalf("sender = %q, want %q", got, ParticipantSupport)
	}
}

func TestCustomerLabel(t *testing.T) {
	t.Parallel()

	var none *Customer
	if none.Label() != "customer" {
		t.Fatalf("nil Label() = %q", none.Label())
	}
	c := &Customer{ID: 5, Name: "Customer Five"}
	if c.Label() != "Customer Five (id=5)" {
		t.Fatalf("Label() = %q", c.Label())
	}
}

func TestFailedResult(t *testing.T) {
	t.Parallel()

	call := ToolCall{Name: "get_customer", Args: map[string]any{"customer_id": 9}}
	res := Failed[*Customer](call, NotFoundf("Customer %d not found", 9))
	if !res.Failed() || res.Error != "Customer 9 not found" || res.Result != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	ok := Succeeded(call, &Customer{ID: 9})
	if ok.Failed() {
		t.Fatal("Succeeded result should not be failed")
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	if FormatTimestamp(time.Time{}) != "" {
		t.Fatal("zero time should format empty")
	}
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2024-03-01 09:30:00" {
		t.Fatalf("FormatTimestamp() = %q", got)
	}
}
