package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// FinanceService covers the service catalogue and invoices. Every call needs
// the finance capability.
type FinanceService interface {
	ListServices(ctx context.Context, actor models.Actor) ([]*models.ServiceItem, error)
	SaveService(ctx context.Context, item models.ServiceItem, actor models.Actor) (*models.ServiceItem, error)
	RemoveService(ctx context.Context, id string, actor models.Actor) error

	ListInvoices(ctx context.Context, client string, actor models.Actor) ([]*models.Invoice, error)
	GetInvoice(ctx context.Context, id string, actor models.Actor) (*models.Invoice, error)
	SaveInvoice(ctx context.Context, inv models.Invoice, actor models.Actor) (*models.Invoice, error)
	RemoveInvoice(ctx context.Context, id string, actor models.Actor) error
}

type financeService struct {
	f repository.FinanceRepository
}

func NewFinanceService(f repository.FinanceRepository) FinanceService {
	return &financeService{f: f}
}

func (s *financeService) ListServices(ctx context.Context, actor models.Actor) ([]*models.ServiceItem, error) {
	if !policy.CanViewFinance(actor.Role) {
		return nil, ErrForbidden
	}
	items, err := s.f.ListServices(ctx)
	if err != nil {
		return nil, persistence("list services", err)
	}
	return items, nil
}

// SaveService creates the item when it has no id and updates it otherwise.
func (s *financeService) SaveService(ctx context.Context, item models.ServiceItem, actor models.Actor) (*models.ServiceItem, error) {
	if !policy.CanViewFinance(actor.Role) {
		return nil, ErrForbidden
	}
	if err := required("name", item.Name); err != nil {
		return nil, err
	}
	if item.Price < 0 {
		return nil, invalid("price", "price cannot be negative")
	}

	if item.ID != "" {
		if err := s.f.UpdateService(ctx, &item); err != nil {
			return nil, persistence("update service", err)
		}
		return &item, nil
	}

	var err error
	if item.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.f.CreateService(ctx, &item); err != nil {
		return nil, persistence("create service", err)
	}
	return &item, nil
}

func (s *financeService) RemoveService(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanViewFinance(actor.Role) {
		return ErrForbidden
	}
	if err := s.f.RemoveService(ctx, id); err != nil {
		return persistence("remove service", err)
	}
	return nil
}

func (s *financeService) ListInvoices(ctx context.Context, client string, actor models.Actor) ([]*models.Invoice, error) {
	if !policy.CanViewFinance(actor.Role) {
		return nil, ErrForbidden
	}
	invoices, err := s.f.ListInvoices(ctx, client)
	if err != nil {
		return nil, persistence("list invoices", err)
	}
	return invoices, nil
}

func (s *financeService) GetInvoice(ctx context.Context, id string, actor models.Actor) (*models.Invoice, error) {
	if !policy.CanViewFinance(actor.Role) {
		return nil, ErrForbidden
	}
	inv, ok, err := s.f.GetInvoice(ctx, id)
	if err != nil {
		return nil, persistence("get invoice", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return inv, nil
}

func checkInvoice(inv *models.Invoice) error {
	if err := required("number", inv.Number); err != nil {
		return err
	}
	if err := required("client", inv.Client); err != nil {
		return err
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceDraft
	}
	switch inv.Status {
	case models.InvoiceDraft, models.InvoiceSent, models.InvoicePaid:
	default:
		return invalid("status", fmt.Sprintf("unknown invoice status %q", inv.Status))
	}
	if inv.IssuedAt.IsZero() {
		return invalid("issuedAt", "issue date is required")
	}
	if inv.DueAt.Before(inv.IssuedAt) {
		return invalid("dueAt", "due date is before the issue date")
	}
	for i, item := range inv.Items {
		if strings.TrimSpace(item.Description) == "" {
			return invalid("items", fmt.Sprintf("item %d has no description", i+1))
		}
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return invalid("items", fmt.Sprintf("item %d has an invalid quantity or price", i+1))
		}
	}
	return nil
}

// SaveInvoice creates the invoice when it has no id and updates it otherwise.
func (s *financeService) SaveInvoice(ctx context.Context, inv models.Invoice, actor models.Actor) (*models.Invoice, error) {
	if !policy.CanViewFinance(actor.Role) {
		return nil, ErrForbidden
	}
	if err := checkInvoice(&inv); err != nil {
		return nil, err
	}
	if inv.Items == nil {
		inv.Items = []models.LineItem{}
	}

	if inv.ID != "" {
		if err := s.f.UpdateInvoice(ctx, &inv); err != nil {
			return nil, persistence("update invoice", err)
		}
		return &inv, nil
	}

	var err error
	if inv.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.f.CreateInvoice(ctx, &inv); err != nil {
		return nil, persistence("create invoice", err)
	}
	return &inv, nil
}

func (s *financeService) RemoveInvoice(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanViewFinance(actor.Role) {
		return ErrForbidden
	}
	if err := s.f.RemoveInvoice(ctx, id); err != nil {
		return persistence("remove invoice", err)
	}
	return nil
}
