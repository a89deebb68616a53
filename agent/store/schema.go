package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

func tableModels() []any {
	return []any{
		(*customerModel)(nil),
		(*ticketModel)(nil),
		(*interactionModel)(nil),
	}
}

// Migrate creates the customers, tickets and interactions tables when they
// do not exist yet.
func (s *BunStore) Migrate(ctx context.Context) error {
	for _, model := range tableModels() {
		if _, err := s.db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	if _, err := s.db.NewCreateIndex().
		Model((*ticketModel)(nil)).
		Index("tickets_customer_id_idx").
		Column("customer_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create tickets index: %w", err)
	}

	log.Debug().Msg("store schema ready")
	return nil
}

// Reset drops every table and recreates the schema.
func (s *BunStore) Reset(ctx context.Context) error {
	models := tableModels()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := s.db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", models[i], err)
		}
	}
	log.Info().Msg("store tables dropped")
	return s.Migrate(ctx)
}
