package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// VIPCustomerID is the seeded customer that always has an open
// high-priority ticket.
const VIPCustomerID int64 = 12345

type seedCustomer struct {
	name, email, status string
	interactions        []seedInteraction
}

type seedInteraction struct {
	channel, notes string
}

var sampleCustomers = []seedCustomer{
	{name: "Ana Customer", email: "ana@example.com", status: contractx.StatusActive, interactions: []seedInteraction{
		{channel: "email", notes: "Welcome email sent"},
		{channel: "phone", notes: "Reported login issue"},
	}},
	{name: "Brian Blocked", email: "brian@example.com", status: "delinquent", interactions: []seedInteraction{
		{channel: "chat", notes: "Billing dispute opened"},
	}},
	{name: "Cara Care", email: "cara@example.com", status: "vip", interactions: []seedInteraction{
		{channel: "email", notes: "Requested feature roadmap"},
	}},
}

var requiredCustomers = []customerModel{
	{ID: 5, Name: "Customer Five", Email: "customer5@example.com", Phone: "+1-555-0005", Status: contractx.StatusActive},
	{ID: VIPCustomerID, Name: "Customer 12345", Email: "customer12345@example.com", Phone: "+1-555-12345", Status: contractx.StatusActive},
}

// Seed loads the sample data. It only inserts what is missing, so it is
// safe to run on every start.
func (s *BunStore) Seed(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.seedSampleCustomers(ctx, tx); err != nil {
			return err
		}
		if err := s.seedRequiredCustomers(ctx, tx); err != nil {
			return err
		}
		if err := s.seedHighPriorityTicket(ctx, tx, VIPCustomerID); err != nil {
			return err
		}
		return s.seedActiveOpenTicket(ctx, tx)
	})
}

func (s *BunStore) seedSampleCustomers(ctx context.Context, tx bun.Tx) error {
	count, err := tx.NewSelect().Model((*customerModel)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, sc := range sampleCustomers {
		now := s.timestamp()
		m := &customerModel{Name: sc.name, Email: sc.email, Status: sc.status, CreatedAt: now, UpdatedAt: now}
		res, err := tx.NewInsert().Model(m).Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert customer %s: %w", sc.name, err)
		}
		if m.ID == 0 {
			if m.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("read customer id: %w", err)
			}
		}

		for _, si := range sc.interactions {
			im := &interactionModel{CustomerID: m.ID, Channel: si.channel, Notes: si.notes, CreatedAt: s.timestamp()}
			if _, err := tx.NewInsert().Model(im).Exec(ctx); err != nil {
				return fmt.Errorf("insert interaction for customer %d: %w", m.ID, err)
			}
		}
		log.Info().Int64("customer_id", m.ID).Str("name", sc.name).Msg("seeded sample customer")
	}
	return nil
}

func (s *BunStore) seedRequiredCustomers(ctx context.Context, tx bun.Tx) error {
	inserted := false
	for _, rc := range requiredCustomers {
		exists, err := s.customerExists(ctx, tx, rc.ID)
		if err != nil {
			return err
		}
		if exists {
			log.Debug().Int64("customer_id", rc.ID).Msg("customer already exists")
			continue
		}

		m := rc
		now := s.timestamp()
		m.CreatedAt, m.UpdatedAt = now, now
		if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
			return fmt.Errorf("insert customer %d: %w", rc.ID, err)
		}
		inserted = true
		log.Info().Int64("customer_id", m.ID).Str("name", m.Name).Msg("seeded required customer")
	}

	// Explicit ids leave the postgres sequence behind.
	if inserted && tx.Dialect().Name() == dialect.PG {
		if _, err := tx.ExecContext(ctx,
			"SELECT setval(pg_get_serial_sequence('customers', 'id'), (SELECT MAX(id) FROM customers))",
		); err != nil {
			return fmt.Errorf("advance customers sequence: %w", err)
		}
	}
	return nil
}

func (s *BunStore) seedHighPriorityTicket(ctx context.Context, tx bun.Tx, customerID int64) error {
	exists, err := tx.NewSelect().
		Model((*ticketModel)(nil)).
		Where("customer_id = ?", customerID).
		Where("status = ?", contractx.TicketOpen).
		Where("priority = ?", contractx.PriorityHigh).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check high-priority ticket: %w", err)
	}
	if exists {
		return nil
	}

	m, err := s.insertTicket(ctx, tx, customerID, "Seeded high-priority ticket", contractx.TicketOpen, contractx.PriorityHigh)
	if err != nil {
		return err
	}
	log.Info().Int64("ticket_id", m.ID).Int64("customer_id", customerID).Msg("seeded high-priority ticket")
	return nil
}

func (s *BunStore) seedActiveOpenTicket(ctx context.Context, tx bun.Tx) error {
	exists, err := tx.NewSelect().
		Model((*ticketModel)(nil)).
		Join("JOIN customers AS c ON c.id = t.customer_id").
		Where("c.status = ?", contractx.StatusActive).
		Where("t.status = ?", contractx.TicketOpen).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check active open ticket: %w", err)
	}
	if exists {
		return nil
	}

	var active customerModel
	err = tx.NewSelect().
		Model(&active).
		Where("status = ?", contractx.StatusActive).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no active customer to seed an open ticket for")
		return nil
	}

	m, err := s.insertTicket(ctx, tx, active.ID, "Seeded open ticket for active customer", contractx.TicketOpen, contractx.PriorityMedium)
	if err != nil {
		return err
	}
	log.Info().Int64("ticket_id", m.ID).Int64("customer_id", active.ID).Msg("seeded open ticket for active customer")
	return nil
}
