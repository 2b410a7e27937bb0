package models

import "time"

type ServiceItem struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
)

type Invoice struct {
	ID        string     `db:"id" json:"id"`
	Number    string     `db:"number" json:"number"`
	Client    string     `db:"client" json:"client"`
	Items     []LineItem `db:"items" json:"items"`
	Status    string     `db:"status" json:"status"`
	IssuedAt  time.Time  `db:"issued_at" json:"issuedAt"`
	DueAt     time.Time  `db:"due_at" json:"dueAt"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

func (inv *Invoice) Total() float64 {
	var total float64
	for _, item := range inv.Items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}
