package store

import (
	"time"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/uptrace/bun"
)

type customerModel struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull"`
	Phone     string    `bun:"phone,nullzero"`
	Status    string    `bun:"status,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (m *customerModel) toContract() contractx.Customer {
	return contractx.Customer{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type ticketModel struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID         int64          `bun:"id,pk,autoincrement"`
	CustomerID int64          `bun:"customer_id,notnull"`
	Customer   *customerModel `bun:"rel:belongs-to,join:customer_id=id"`
	Issue      string         `bun:"issue,notnull"`
	Status     string         `bun:"status,notnull,default:'open'"`
	Priority   string         `bun:"priority,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (m *ticketModel) toContract() contractx.Ticket {
	return contractx.Ticket{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Issue:      m.Issue,
		Status:     m.Status,
		Priority:   m.Priority,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type interactionModel struct {
	bun.BaseModel `bun:"table:interactions,alias:i"`

	ID         int64          `bun:"id,pk,autoincrement"`
	CustomerID int64          `bun:"customer_id,notnull"`
	Customer   *customerModel `bun:"rel:belongs-to,join:customer_id=id"`
	Channel    string         `bun:"channel,notnull"`
	Notes      string         `bun:"notes,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
