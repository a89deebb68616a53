package contract

import (
	"fmt"
	"time"
)

// Participant names as they appear in the trace.
const (
	ParticipantRouter       = "Router"
	ParticipantCustomerData = "CustomerData"
	ParticipantSupport      = "Support"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"

	TicketOpen     = "open"
	TicketResolved = "resolved"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const timestampLayout = "2006-01-02 15:04:05"

func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Customer) String() string {
	return fmt.Sprintf("{id=%d, name=%s, email=%s, phone=%s, status=%s, created_at=%s, updated_at=%s}",
		c.ID, c.Name, c.Email, c.Phone, c.Status, FormatTimestamp(c.CreatedAt), FormatTimestamp(c.UpdatedAt))
}

// Label is how support replies address the customer.
func (c *Customer) Label() string {
	if c == nil {
		return "customer"
	}
	return fmt.Sprintf("%s (id=%d)", c.Name, c.ID)
}

type Ticket struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Issue      string    `json:"issue"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t Ticket) String() string {
	return fmt.Sprintf("{id=%d, customer_id=%d, issue=%s, status=%s, priority=%s, created_at=%s}",
		t.ID, t.CustomerID, t.Issue, t.Status, t.Priority, FormatTimestamp(t.CreatedAt))
}

type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the outcome of one tool call. A non-empty Error means Result
// must be ignored.
type ToolResult[T any] struct {
	Call   ToolCall `json:"call"`
	Result T        `json:"result"`
	Error  string   `json:"error,omitempty"`
}

func (r ToolResult[T]) Failed() bool {
	return r.Error != ""
}

func Succeeded[T any](call ToolCall, result T) ToolResult[T] {
	return ToolResult[T]{Call: call, Result: result}
}

func Failed[T any](call ToolCall, err error) ToolResult[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ToolResult[T]{Call: call, Error: msg}
}

// BulkTickets is the aggregate of a multi-customer ticket fetch. Skipped lists
// the ids whose history failed or was empty.
type BulkTickets struct {
	Tickets []Ticket `json:"tickets"`
	Skipped []int64  `json:"skipped,omitempty"`
}

type SupportRequest struct {
	Customer     *Customer `json:"customer,omitempty"`
	Issue        string    `json:"issue"`
	Urgent       bool      `json:"urgent"`
	NeedsContext bool      `json:"needs_context"`
}
