package service

import (
	"context"
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ReferenceService manages the lookup data around posts: clients, their
// campaigns, caption templates and snippets.
type ReferenceService interface {
	ListClients(ctx context.Context, actor models.Actor) ([]*models.Client, error)
	CreateClient(ctx context.Context, client models.Client, actor models.Actor) (*models.Client, error)
	UpdateClient(ctx context.Context, client models.Client, actor models.Actor) error
	RemoveClient(ctx context.Context, id string, actor models.Actor) error

	ListCampaigns(ctx context.Context, client string, actor models.Actor) ([]*models.Campaign, error)
	CreateCampaign(ctx context.Context, campaign models.Campaign, actor models.Actor) (*models.Campaign, error)
	RemoveCampaign(ctx context.Context, id string, actor models.Actor) error

	ListTemplates(ctx context.Context, actor models.Actor) ([]*models.Template, error)
	CreateTemplate(ctx context.Context, template models.Template, actor models.Actor) (*models.Template, error)
	RemoveTemplate(ctx context.Context, id string, actor models.Actor) error

	ListSnippets(ctx context.Context, actor models.Actor) ([]*models.Snippet, error)
	CreateSnippet(ctx context.Context, snippet models.Snippet, actor models.Actor) (*models.Snippet, error)
	RemoveSnippet(ctx context.Context, id string, actor models.Actor) error
}

type referenceService struct {
	clients   repository.ClientRepository
	campaigns repository.CampaignRepository
	library   repository.LibraryRepository
}

func NewReferenceService(clients repository.ClientRepository, campaigns repository.CampaignRepository, library repository.LibraryRepository) ReferenceService {
	return &referenceService{
		clients:   clients,
		campaigns: campaigns,
		library:   library,
	}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, field+" is required")
	}
	return nil
}

func (s *referenceService) ListClients(ctx context.Context, actor models.Actor) ([]*models.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, persistence("list clients", err)
	}
	scope := actor.TenantScope()
	if scope == "" {
		return clients, nil
	}
	var own []*models.Client
	for _, c := range clients {
		if c.Name == scope {
			own = append(own, c)
		}
	}
	return own, nil
}

func (s *referenceService) CreateClient(ctx context.Context, client models.Client, actor models.Actor) (*models.Client, error) {
	if !policy.CanManageTeam(actor.Role) {
		return nil, ErrForbidden
	}
	client.Name = strings.TrimSpace(client.Name)
	if err := required("name", client.Name); err != nil {
		return nil, err
	}
	_, exists, err := s.clients.GetByName(ctx, client.Name)
	if err != nil {
		return nil, persistence("get client", err)
	}
	if exists {
		return nil, invalid("name", "a client with this name already exists")
	}

	if client.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, &client); err != nil {
		return nil, persistence("create client", err)
	}
	return &client, nil
}

func (s *referenceService) UpdateClient(ctx context.Context, client models.Client, actor models.Actor) error {
	if !policy.CanManageTeam(actor.Role) {
		return ErrForbidden
	}
	if err := required("name", client.Name); err != nil {
		return err
	}
	if err := s.clients.Update(ctx, &client); err != nil {
		return persistence("update client", err)
	}
	return nil
}

func (s *referenceService) RemoveClient(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanManageTeam(actor.Role) {
		return ErrForbidden
	}
	if err := s.clients.Remove(ctx, id); err != nil {
		return persistence("remove client", err)
	}
	return nil
}

func (s *referenceService) ListCampaigns(ctx context.Context, client string, actor models.Actor) ([]*models.Campaign, error) {
	if scope := actor.TenantScope(); scope != "" {
		client = scope
	}
	campaigns, err := s.campaigns.List(ctx, client)
	if err != nil {
		return nil, persistence("list campaigns", err)
	}
	return campaigns, nil
}

func (s *referenceService) CreateCampaign(ctx context.Context, campaign models.Campaign, actor models.Actor) (*models.Campaign, error) {
	if !policy.CanEdit(actor.Role) {
		return nil, ErrForbidden
	}
	if err := required("name", campaign.Name); err != nil {
		return nil, err
	}
	if err := required("client", campaign.Client); err != nil {
		return nil, err
	}

	var err error
	if campaign.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.campaigns.Create(ctx, &campaign); err != nil {
		return nil, persistence("create campaign", err)
	}
	return &campaign, nil
}

func (s *referenceService) RemoveCampaign(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanEdit(actor.Role) {
		return ErrForbidden
	}
	if err := s.campaigns.Remove(ctx, id); err != nil {
		return persistence("remove campaign", err)
	}
	return nil
}

func (s *referenceService) ListTemplates(ctx context.Context, actor models.Actor) ([]*models.Template, error) {
	if !policy.CanEdit(actor.Role) {
		return nil, ErrForbidden
	}
	templates, err := s.library.ListTemplates(ctx)
	if err != nil {
		return nil, persistence("list templates", err)
	}
	return templates, nil
}

func (s *referenceService) CreateTemplate(ctx context.Context, template models.Template, actor models.Actor) (*models.Template, error) {
	if !policy.CanEdit(actor.Role) {
		return nil, ErrForbidden
	}
	if err := required("name", template.Name); err != nil {
		return nil, err
	}
	if err := required("caption", template.Caption); err != nil {
		return nil, err
	}

	var err error
	if template.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.library.CreateTemplate(ctx, &template); err != nil {
		return nil, persistence("create template", err)
	}
	return &template, nil
}

func (s *referenceService) RemoveTemplate(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanEdit(actor.Role) {
		return ErrForbidden
	}
	if err := s.library.RemoveTemplate(ctx, id); err != nil {
		return persistence("remove template", err)
	}
	return nil
}

func (s *referenceService) ListSnippets(ctx context.Context, actor models.Actor) ([]*models.Snippet, error) {
	if !policy.CanEdit(actor.Role) {
		return nil, ErrForbidden
	}
	snippets, err := s.library.ListSnippets(ctx)
	if err != nil {
		return nil, persistence("list snippets", err)
	}
	return snippets, nil
}

func (s *referenceService) CreateSnippet(ctx context.Context, snippet models.Snippet, actor models.Actor) (*models.Snippet, error) {
	if !policy.CanEdit(actor.Role) {
		return nil, ErrForbidden
	}
	if err := required("label", snippet.Label); err != nil {
		return nil, err
	}
	if err := required("text", snippet.Text); err != nil {
		return nil, err
	}

	var err error
	if snippet.ID, err = gonanoid.New(); err != nil {
		return nil, err
	}
	if err := s.library.CreateSnippet(ctx, &snippet); err != nil {
		return nil, persistence("create snippet", err)
	}
	return &snippet, nil
}

func (s *referenceService) RemoveSnippet(ctx context.Context, id string, actor models.Actor) error {
	if !policy.CanEdit(actor.Role) {
		return ErrForbidden
	}
	if err := s.library.RemoveSnippet(ctx, id); err != nil {
		return persistence("remove snippet", err)
	}
	return nil
}
