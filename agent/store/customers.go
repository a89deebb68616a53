package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/uptrace/bun"
)

func (s *BunStore) GetCustomer(ctx context.Context, id int64) (*contractx.Customer, error) {
	m := &customerModel{ID: id}
	if err := s.db.NewSelect().Model(m).WherePK().Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("select customer %d: %w", id, err)
	}
	out := m.toContract()
	return &out, nil
}

// ListCustomers returns up to limit customers ordered by id, optionally
// filtered by status.
func (s *BunStore) ListCustomers(ctx context.Context, status string, limit int) ([]contractx.Customer, error) {
	var models []customerModel
	q := s.db.NewSelect().Model(&models).Order("id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := make([]contractx.Customer, 0, len(models))
	for i := range models {
		out = append(out, models[i].toContract())
	}
	return out, nil
}

// UpdateCustomer applies fields (name, email, phone, status) and bumps
// updated_at. Unknown field names are rejected.
func (s *BunStore) UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*contractx.Customer, error) {
	var out contractx.Customer
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		m := &customerModel{ID: id}
		if err := tx.NewSelect().Model(m).WherePK().Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoRecord
			}
			return fmt.Errorf("select customer %d: %w", id, err)
		}

		for field, value := range fields {
			switch field {
			case "name":
				m.Name = value
			case "email":
				m.Email = value
			case "phone":
				m.Phone = value
			case "status":
				m.Status = value
			default:
				return fmt.Errorf("unsupported customer field %q", field)
			}
		}
		m.UpdatedAt = s.timestamp()

		if _, err := tx.NewUpdate().Model(m).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update customer %d: %w", id, err)
		}
		out = m.toContract()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BunStore) customerExists(ctx context.Context, db bun.IDB, id int64) (bool, error) {
	exists, err := db.NewSelect().Model((*customerModel)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check customer %d: %w", id, err)
	}
	return exists, nil
}
