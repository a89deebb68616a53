package tool

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

const (
	GetCustomerName        = "get_customer"
	ListCustomersName      = "list_customers"
	UpdateCustomerName     = "update_customer"
	CreateTicketName       = "create_ticket"
	GetCustomerHistoryName = "get_customer_history"
)

type ParamType string

const (
	ParamInteger ParamType = "integer"
	ParamString  ParamType = "string"
	ParamObject  ParamType = "object"
)

type Param struct {
	Name     string
	Type     ParamType
	Desc     string
	Required bool
	Enum     []string
}

// Spec describes a tool for callers that discover tools by name.
type Spec struct {
	Name   string
	Desc   string
	Params []Param
}

func Catalog() []Spec {
	customerID := Param{Name: "customer_id", Type: ParamInteger, Desc: "Customer id (positive integer)", Required: true}
	return []Spec{
		{
			Name:   GetCustomerName,
			Desc:   "Fetch a single customer by id.",
			Params: []Param{customerID},
		},
		{
			Name: ListCustomersName,
			Desc: "List customers by status with a limit.",
			Params: []Param{
				{Name: "status", Type: ParamString, Desc: "Optional status filter", Enum: allowedStatuses},
				{Name: "limit", Type: ParamInteger, Desc: "Maximum rows to return (1-100, default 10)"},
			},
		},
		{
			Name: UpdateCustomerName,
			Desc: "Update allowed fields (name, email, phone, status) for a customer record.",
			Params: []Param{
				customerID,
				{Name: "data", Type: ParamObject, Desc: "Fields to update", Required: true},
			},
		},
		{
			Name: CreateTicketName,
			Desc: "Create a ticket for a customer.",
			Params: []Param{
				customerID,
				{Name: "issue", Type: ParamString, Desc: "Issue description", Required: true},
				{Name: "priority", Type: ParamString, Desc: "Ticket priority (default medium)", Enum: allowedPriorities},
			},
		},
		{
			Name:   GetCustomerHistoryName,
			Desc:   "Return ticket history for a customer, newest first.",
			Params: []Param{customerID},
		},
	}
}

type toolArgs struct {
	CustomerID int64          `mapstructure:"customer_id"`
	Status     string         `mapstructure:"status"`
	Limit      int            `mapstructure:"limit"`
	Data       map[string]any `mapstructure:"data"`
	Issue      string         `mapstructure:"issue"`
	Priority   string         `mapstructure:"priority"`
}

// Execute dispatches a catalog tool. A failed ToolResult is returned as a
// *contractx.ToolError.
func (t *Toolbox) Execute(ctx context.Context, tool string, args map[string]any) (any, error) {
	in := toolArgs{Limit: 10, Priority: contractx.PriorityMedium}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &in,
	})
	if err != nil {
		return nil, fmt.Errorf("build args decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}

	switch tool {
	case GetCustomerName:
		return unwrap(t.GetCustomer(ctx, in.CustomerID))
	case ListCustomersName:
		return unwrap(t.ListCustomers(ctx, in.Status, in.Limit))
	case UpdateCustomerName:
		return unwrap(t.UpdateCustomer(ctx, in.CustomerID, in.Data))
	case CreateTicketName:
		return unwrap(t.CreateTicket(ctx, in.CustomerID, in.Issue, in.Priority))
	case GetCustomerHistoryName:
		return unwrap(t.GetCustomerHistory(ctx, in.CustomerID))
	default:
		return nil, fmt.Errorf("%w: tool=%s is unavailable", contractx.ErrValidation, tool)
	}
}

func unwrap[T any](res contractx.ToolResult[T]) (any, error) {
	if res.Failed() {
		return nil, &contractx.ToolError{Tool: res.Call.Name, Message: res.Error}
	}
	return res.Result, nil
}
