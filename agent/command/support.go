package command

import contractx "github.com/tanpawarit/supportdesk/agent/contract"

// Support agent command names.
const (
	HandleSupportName    = "handle_support"
	EnsureTicketName     = "ensure_ticket"
	SummarizeHistoryName = "summarize_history"
)

// SupportCommand is one of the commands the support agent accepts.
type SupportCommand interface {
	Envelope() Envelope
	supportCommand()
}

type HandleSupport struct {
	Customer     *contractx.Customer `json:"customer"`
	Issue        string              `json:"issue"`
	Urgent       bool                `json:"urgent"`
	NeedsContext bool                `json:"needs_context"`
}

type EnsureTicket struct {
	CustomerID int64  `json:"customer_id"`
	Issue      string `json:"issue"`
	Priority   string `json:"priority"`
}

type SummarizeHistory struct {
	CustomerID int64 `json:"customer_id"`
}

func (HandleSupport) supportCommand() {}
func (EnsureTicket) supportCommand() {}
func (SummarizeHistory) supportCommand() {}

// Request converts the command to the delegate request it stands for.
func (c HandleSupport) Request() contractx.SupportRequest {
	return contractx.SupportRequest{
		Customer:     c.Customer,
		Issue:        c.Issue,
		Urgent:       c.Urgent,
		NeedsContext: c.NeedsContext,
	}
}

func (c HandleSupport) Envelope() Envelope {
	return Envelope{Command: HandleSupportName, Args: map[string]any{
		"customer":      c.Customer,
		"issue":         c.Issue,
		"urgent":        c.Urgent,
		"needs_context": c.NeedsContext,
	}}
}

func (c EnsureTicket) Envelope() Envelope {
	return Envelope{Command: EnsureTicketName, Args: map[string]any{
		"customer_id": c.CustomerID,
		"issue":       c.Issue,
		"priority":    c.Priority,
	}}
}

func (c SummarizeHistory) Envelope() Envelope {
	return Envelope{Command: SummarizeHistoryName, Args: map[string]any{
		"customer_id": c.CustomerID,
	}}
}

func DecodeSupport(env Envelope) (SupportCommand, error) {
	switch env.Command {
	case HandleSupportName:
		var cmd HandleSupport
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case EnsureTicketName:
		cmd := EnsureTicket{Priority: contractx.PriorityMedium}
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case SummarizeHistoryName:
		var cmd SummarizeHistory
		if err := decodeArgs(env.Args, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return nil, &UnknownCommandError{Name: env.Command}
	}
}
