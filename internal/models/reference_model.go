package models

import "time"

type Client struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	LogoURL   string    `db:"logo_url" json:"logoUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Campaign struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Client    string    `db:"client" json:"client"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Template struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Caption   string    `db:"caption" json:"caption"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Snippet struct {
	ID        string    `db:"id" json:"id"`
	Label     string    `db:"label" json:"label"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
