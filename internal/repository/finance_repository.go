package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/maheshrc27/contentflow/internal/models"
)

type FinanceRepository interface {
	ListServices(ctx context.Context) ([]*models.ServiceItem, error)
	CreateService(ctx context.Context, item *models.ServiceItem) error
	UpdateService(ctx context.Context, item *models.ServiceItem) error
	RemoveService(ctx context.Context, id string) error

	// ListInvoices returns every invoice, or only those of client when it is non-empty.
	ListInvoices(ctx context.Context, client string) ([]*models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, bool, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	UpdateInvoice(ctx context.Context, invoice *models.Invoice) error
	RemoveInvoice(ctx context.Context, id string) error
}

type financeRepository struct {
	db *sql.DB
}

func NewFinanceRepository(db *sql.DB) FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) ListServices(ctx context.Context) ([]*models.ServiceItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, price, created_at FROM services ORDER BY name`)
	if err != nil {
		logErr("list services", err)
		return nil, err
	}
	defer rows.Close()

	var items []*models.ServiceItem
	for rows.Next() {
		var s models.ServiceItem
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.CreatedAt); err != nil {
			logErr("scan service", err)
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *financeRepository) CreateService(ctx context.Context, item *models.ServiceItem) error {
	return execOne(ctx, r.db, "create service",
		`INSERT INTO services (id, name, description, price) VALUES ($1, $2, $3, $4)`,
		item.ID, item.Name, item.Description, item.Price)
}

func (r *financeRepository) UpdateService(ctx context.Context, item *models.ServiceItem) error {
	return execOne(ctx, r.db, "update service",
		`UPDATE services SET name = $1, description = $2, price = $3 WHERE id = $4`,
		item.Name, item.Description, item.Price, item.ID)
}

func (r *financeRepository) RemoveService(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "remove service", `DELETE FROM services WHERE id = $1`, id)
}

const invoiceColumns = `id, number, client, items, status, issued_at, due_at, created_at`

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	var (
		inv   models.Invoice
		items []byte
	)
	if err := row.Scan(&inv.ID, &inv.Number, &inv.Client, &items, &inv.Status, &inv.IssuedAt, &inv.DueAt, &inv.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *financeRepository) ListInvoices(ctx context.Context, client string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ($1 = '' OR client = $1) ORDER BY issued_at DESC`
	rows, err := r.db.QueryContext(ctx, query, client)
	if err != nil {
		logErr("list invoices", err)
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			logErr("scan invoice", err)
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *financeRepository) GetInvoice(ctx context.Context, id string) (*models.Invoice, bool, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logErr("get invoice", err)
		return nil, false, err
	}
	return inv, true, nil
}

func (r *financeRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	items, err := marshalJSON(inv.Items)
	if err != nil {
		return err
	}
	return execOne(ctx, r.db, "create invoice",
		`INSERT INTO invoices (id, number, client, items, status, issued_at, due_at) VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)`,
		inv.ID, inv.Number, inv.Client, items, inv.Status, inv.IssuedAt, inv.DueAt)
}

func (r *financeRepository) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	items, err := marshalJSON(inv.Items)
	if err != nil {
		return err
	}
	return execOne(ctx, r.db, "update invoice",
		`UPDATE invoices SET number = $1, client = $2, items = $3::jsonb, status = $4, issued_at = $5, due_at = $6 WHERE id = $7`,
		inv.Number, inv.Client, items, inv.Status, inv.IssuedAt, inv.DueAt, inv.ID)
}

func (r *financeRepository) RemoveInvoice(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "remove invoice", `DELETE FROM invoices WHERE id = $1`, id)
}
