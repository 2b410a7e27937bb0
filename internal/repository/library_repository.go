package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/contentflow/internal/models"
)

// LibraryRepository stores the caption templates and reusable snippets
// offered in the post editor.
type LibraryRepository interface {
	ListTemplates(ctx context.Context) ([]*models.Template, error)
	CreateTemplate(ctx context.Context, template *models.Template) error
	RemoveTemplate(ctx context.Context, id string) error
	ListSnippets(ctx context.Context) ([]*models.Snippet, error)
	CreateSnippet(ctx context.Context, snippet *models.Snippet) error
	RemoveSnippet(ctx context.Context, id string) error
}

type libraryRepository struct {
	db *sql.DB
}

func NewLibraryRepository(db *sql.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, caption, created_at FROM templates ORDER BY created_at DESC`)
	if err != nil {
		logErr("list templates", err)
		return nil, err
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Caption, &t.CreatedAt); err != nil {
			logErr("scan template", err)
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func (r *libraryRepository) CreateTemplate(ctx context.Context, template *models.Template) error {
	return execOne(ctx, r.db, "create template",
		`INSERT INTO templates (id, name, caption) VALUES ($1, $2, $3)`,
		template.ID, template.Name, template.Caption)
}

func (r *libraryRepository) RemoveTemplate(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "remove template", `DELETE FROM templates WHERE id = $1`, id)
}

func (r *libraryRepository) ListSnippets(ctx context.Context) ([]*models.Snippet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, text, created_at FROM snippets ORDER BY label`)
	if err != nil {
		logErr("list snippets", err)
		return nil, err
	}
	defer rows.Close()

	var snippets []*models.Snippet
	for rows.Next() {
		var s models.Snippet
		if err := rows.Scan(&s.ID, &s.Label, &s.Text, &s.CreatedAt); err != nil {
			logErr("scan snippet", err)
			return nil, err
		}
		snippets = append(snippets, &s)
	}
	return snippets, rows.Err()
}

func (r *libraryRepository) CreateSnippet(ctx context.Context, snippet *models.Snippet) error {
	return execOne(ctx, r.db, "create snippet",
		`INSERT INTO snippets (id, label, text) VALUES ($1, $2, $3)`,
		snippet.ID, snippet.Label, snippet.Text)
}

func (r *libraryRepository) RemoveSnippet(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "remove snippet", `DELETE FROM snippets WHERE id = $1`, id)
}
