package command

import contractx "github.com/tanpawarit/supportdesk/agent/contract"

// Data agent command names.
const (
	FetchCustomerName       = "fetch_customer"
	ListCustomersName       = "list_customers"
	UpdateCustomerName      = "update_customer"
	CreateTicketName        = "create_ticket"
	HistoryName             = "history"
	HighPriorityTicketsName = "high_priority_tickets"
)

const (
	defaultListLimit = 10
	defaultPriority  = contractx.PriorityMedium
)

// DataCommand is one of the commands the data agent accepts.
type DataCommand interface {
	Envelope() Envelope
	dataCommand()
}

type FetchCustomer struct {
	CustomerID int64  `json:"customer_id"`
	Sender     string `json:"sender"`
}

type ListCustomers struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
	Sender string `json:"sender"`
}

type UpdateCustomer struct {
	CustomerID int64          `json:"customer_id"`
	Data       map[string]any `json:"data"`
	Sender     string         `json:"sender"`
}

type CreateTicket struct {
	CustomerID int64  `json:"customer_id"`
	Issue      string `json:"issue"`
	Priority   string `json:"priority"`
	Sender     string `json:"sender"`
}

type History struct {
	CustomerID int64  `json:"customer_id"`
	Sender     string `json:"sender"`
}

type HighPriorityTickets struct {
	CustomerIDs []int64 `json:"customer_ids"`
}

func (FetchCustomer) dataCommand() {}
func (ListCustomers) dataCommand() {}
func (UpdateCustomer) dataCommand() {}
func (CreateTicket) dataCommand() {}
func (History) dataCommand() {}
func (HighPriorityTickets) dataCommand() {}

func (c FetchCustomer) Envelope() Envelope {
	return Envelope{Command: FetchCustomerName, Args: map[string]any{
		"customer_id": c.CustomerID,
		"sender":      c.Sender,
	}}
}

func (c ListCustomers) Envelope() Envelope {
	args := map[string]any{"limit": c.Limit, "sender": c.Sender}
	if c.Status != "" {
		args["status"] = c.Status
	}
	return Envelope{Command: ListCustomersName, Args: args}
}

func (c UpdateCustomer) Envelope() Envelope {
	return Envelope{Command: UpdateCustomerName, Args: map[string]any{
		"customer_id": c.CustomerID,
		"data":        c.Data,
		"sender":      c.Sender,
	}}
}

func (c CreateTicket) Envelope() Envelope {
	return Envelope{Command: CreateTicketName, Args: map[string]any{
		"customer_id": c.CustomerID,
		"issue":       c.Issue,
		"priority":    c.Priority,
		"sender":      c.Sender,
	}}
}

func (c History) Envelope() Envelope {
	return Envelope{Command: HistoryName, Args: map[string]any{
		"customer_id": c.CustomerID,
		"sender":      c.Sender,
	}}
}

func (c HighPriorityTickets) Envelope() Envelope {
	return Envelope{Command: HighPriorityTicketsName, Args: map[string]any{
		"customer_ids": c.CustomerIDs,
	}}
}

// DecodeData resolves env into a DataCommand, filling defaults for omitted
// arguments.
func DecodeData(env Envelope) (DataCommand, error) {
	switch env.Command {
	case FetchCustomerName:
		cmd := FetchCustomer{Sender: contractx.ParticipantRouter}
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case ListCustomersName:
		cmd := ListCustomers{Limit: defaultListLimit, Sender: contractx.ParticipantRouter}
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case UpdateCustomerName:
		cmd := UpdateCustomer{Sender: contractx.ParticipantRouter}
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case CreateTicketName:
		cmd := CreateTicket{Priority: defaultPriority, Sender: contractx.ParticipantRouter}
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case HistoryName:
		cmd := History{Sender: contractx.ParticipantRouter}
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case HighPriorityTicketsName:
		var cmd HighPriorityTickets
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return nil, &UnknownCommandError{Name: env.Command}
	}
}
