package store

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/uptrace/bun"
)

// CreateTicket opens a ticket for an existing customer.
func (s *BunStore) CreateTicket(ctx context.Context, customerID int64, issue, priority string) (*contractx.Ticket, error) {
	var out contractx.Ticket
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := s.customerExists(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNoRecord
		}

		m, err := s.insertTicket(ctx, tx, customerID, issue, contractx.TicketOpen, priority)
		if err != nil {
			return err
		}
		out = m.toContract()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTickets returns a customer's tickets, newest first.
func (s *BunStore) ListTickets(ctx context.Context, customerID int64) ([]contractx.Ticket, error) {
	var models []ticketModel
	err := s.db.NewSelect().
		Model(&models).
		Where("customer_id = ?", customerID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets for customer %d: %w", customerID, err)
	}

	out := make([]contractx.Ticket, 0, len(models))
	for i := range models {
		out = append(out, models[i].toContract())
	}
	return out, nil
}

func (s *BunStore) insertTicket(ctx context.Context, db bun.IDB, customerID int64, issue, status, priority string) (*ticketModel, error) {
	m := &ticketModel{
		CustomerID: customerID,
		Issue:      issue,
		Status:     status,
		Priority:   priority,
		CreatedAt:  s.timestamp(),
	}
	res, err := db.NewInsert().Model(m).Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	if m.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("read ticket id: %w", err)
		}
		m.ID = id
	}
	return m, nil
}
