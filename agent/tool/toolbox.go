package tool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/store"
)

const maxListLimit = 100

var (
	allowedCustomerFields = []string{"email", "name", "phone", "status"}
	allowedStatuses       = []string{contractx.StatusActive, contractx.StatusDisabled}
	allowedPriorities     = []string{contractx.PriorityHigh, contractx.PriorityLow, contractx.PriorityMedium}
)

// Toolbox validates tool arguments and runs them against the store. Failures
// never escape as Go errors; they are reported in ToolResult.Error.
type Toolbox struct {
	store store.Store
}

func New(st store.Store) (*Toolbox, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	return &Toolbox{store: st}, nil
}

func (t *Toolbox) GetCustomer(ctx context.Context, customerID int64) contractx.ToolResult[*contractx.Customer] {
	call := contractx.ToolCall{Name: GetCustomerName, Args: map[string]any{"customer_id": customerID}}
	if err := validateCustomerID(customerID); err != nil {
		return failed[*contractx.Customer](call, err)
	}

	customer, err := t.store.GetCustomer(ctx, customerID)
	if err != nil {
		return failed[*contractx.Customer](call, customerError(customerID, err))
	}
	return contractx.Succeeded(call, customer)
}

func (t *Toolbox) ListCustomers(ctx context.Context, status string, limit int) contractx.ToolResult[[]contractx.Customer] {
	call := contractx.ToolCall{Name: ListCustomersName, Args: map[string]any{"status": status, "limit": limit}}
	if err := validateStatus(status); err != nil {
		return failed[[]contractx.Customer](call, err)
	}
	if err := validateLimit(limit); err != nil {
		return failed[[]contractx.Customer](call, err)
	}

	customers, err := t.store.ListCustomers(ctx, status, limit)
	if err != nil {
		return failed[[]contractx.Customer](call, err)
	}
	return contractx.Succeeded(call, customers)
}

// UpdateCustomer applies the allowed fields of data and ignores the rest.
func (t *Toolbox) UpdateCustomer(ctx context.Context, customerID int64, data map[string]any) contractx.ToolResult[*contractx.Customer] {
	call := contractx.ToolCall{Name: UpdateCustomerName, Args: map[string]any{"customer_id": customerID, "data": data}}
	if err := validateCustomerID(customerID); err != nil {
		return failed[*contractx.Customer](call, err)
	}

	fields := make(map[string]string, len(data))
	for key, value := range data {
		if !slices.Contains(allowedCustomerFields, key) {
			continue
		}
		if value == nil {
			fields[key] = ""
			continue
		}
		fields[key] = fmt.Sprint(value)
	}
	if len(fields) == 0 {
		return failed[*contractx.Customer](call, contractx.Invalidf("No valid fields to update"))
	}
	if status, ok := fields["status"]; ok {
		if err := validateStatus(status); err != nil {
			return failed[*contractx.Customer](call, err)
		}
	}

	customer, err := t.store.UpdateCustomer(ctx, customerID, fields)
	if err != nil {
		return failed[*contractx.Customer](call, customerError(customerID, err))
	}
	return contractx.Succeeded(call, customer)
}

func (t *Toolbox) CreateTicket(ctx context.Context, customerID int64, issue, priority string) contractx.ToolResult[*contractx.Ticket] {
	call := contractx.ToolCall{Name: CreateTicketName, Args: map[string]any{
		"customer_id": customerID,
		"issue":       issue,
		"priority":    priority,
	}}
	if err := validateCustomerID(customerID); err != nil {
		return failed[*contractx.Ticket](call, err)
	}
	if strings.TrimSpace(issue) == "" {
		return failed[*contractx.Ticket](call, contractx.Invalidf("issue is required"))
	}
	if err := validatePriority(priority); err != nil {
		return failed[*contractx.Ticket](call, err)
	}

	ticket, err := t.store.CreateTicket(ctx, customerID, issue, priority)
	if err != nil {
		return failed[*contractx.Ticket](call, customerError(customerID, err))
	}
	return contractx.Succeeded(call, ticket)
}

// GetCustomerHistory returns the customer's tickets, newest first. An
// unknown customer simply has no history.
func (t *Toolbox) GetCustomerHistory(ctx context.Context, customerID int64) contractx.ToolResult[[]contractx.Ticket] {
	call := contractx.ToolCall{Name: GetCustomerHistoryName, Args: map[string]any{"customer_id": customerID}}
	if err := validateCustomerID(customerID); err != nil {
		return failed[[]contractx.Ticket](call, err)
	}

	tickets, err := t.store.ListTickets(ctx, customerID)
	if err != nil {
		return failed[[]contractx.Ticket](call, err)
	}
	return contractx.Succeeded(call, tickets)
}

func failed[T any](call contractx.ToolCall, err error) contractx.ToolResult[T] {
	event := log.Warn()
	if !errors.Is(err, contractx.ErrValidation) {
		event = log.Error()
	}
	event.Err(err).Str("tool", call.Name).Interface("args", call.Args).Msg("tool call failed")
	return contractx.Failed[T](call, err)
}

func customerError(customerID int64, err error) error {
	if errors.Is(err, store.ErrNoRecord) {
		return contractx.NotFoundf("Customer %d not found", customerID)
	}
	return err
}

func validateCustomerID(customerID int64) error {
	if customerID <= 0 {
		return contractx.Invalidf("customer_id must be a positive integer")
	}
	return nil
}

func validateStatus(status string) error {
	if status == "" || slices.Contains(allowedStatuses, status) {
		return nil
	}
	return contractx.Invalidf("status must be one of %v", allowedStatuses)
}

func validatePriority(priority string) error {
	if slices.Contains(allowedPriorities, priority) {
		return nil
	}
	return contractx.Invalidf("priority must be one of %v", allowedPriorities)
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return contractx.Invalidf("limit must be a positive integer")
	}
	if limit > maxListLimit {
		return contractx.Invalidf("limit too high; must be <= %d", maxListLimit)
	}
	return nil
}
