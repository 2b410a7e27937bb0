package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/contentflow/internal/models"
)

type ClientRepository interface {
	List(ctx context.Context) ([]*models.Client, error)
	GetByName(ctx context.Context, name string) (*models.Client, bool, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Remove(ctx context.Context, id string) error
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, logo_url, created_at FROM clients ORDER BY name`)
	if err != nil {
		logErr("list clients", err)
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.LogoURL, &c.CreatedAt); err != nil {
			logErr("scan client", err)
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, rows.Err()
}

func (r *clientRepository) GetByName(ctx context.Context, name string) (*models.Client, bool, error) {
	var c models.Client
	query := `SELECT id, name, logo_url, created_at FROM clients WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.LogoURL, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		logErr("get client", err)
		return nil, false, err
	}
	return &c, true, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return execOne(ctx, r.db, "create client",
		`INSERT INTO clients (id, name, logo_url) VALUES ($1, $2, $3)`,
		client.ID, client.Name, client.LogoURL)
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return execOne(ctx, r.db, "update client",
		`UPDATE clients SET name = $1, logo_url = $2 WHERE id = $3`,
		client.Name, client.LogoURL, client.ID)
}

func (r *clientRepository) Remove(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "remove client", `DELETE FROM clients WHERE id = $1`, id)
}

type CampaignRepository interface {
	// List returns every campaign, or only those of client when it is non-empty.
	List(ctx context.Context, client string) ([]*models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) error
	Remove(ctx context.Context, id string) error
}

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) List(ctx context.Context, client string) ([]*models.Campaign, error) {
	query := `SELECT id, name, client, created_at FROM campaigns WHERE ($1 = '' OR client = $1) ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, client)
	if err != nil {
		logErr("list campaigns", err)
		return nil, err
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Client, &c.CreatedAt); err != nil {
			logErr("scan campaign", err)
			return nil, err
		}
		campaigns = append(campaigns, &c)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return execOne(ctx, r.db, "create campaign",
		`INSERT INTO campaigns (id, name, client) VALUES ($1, $2, $3)`,
		campaign.ID, campaign.Name, campaign.Client)
}

func (r *campaignRepository) Remove(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "remove campaign", `DELETE FROM campaigns WHERE id = $1`, id)
}
