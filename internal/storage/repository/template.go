package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// CreateTemplate вставляет новый шаблон сообщения и возвращает его ID.
func (r *Repository) CreateTemplate(ctx context.Context, tmpl models.MessageTemplate) (string, error) {
	const op = "repository.CreateTemplate"

	query := `INSERT INTO message_templates (id, name, body)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID string
	err := r.DB.QueryRowContext(ctx, query, tmpl.ID, tmpl.Name, tmpl.Body).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTemplates возвращает все шаблоны сообщений.
func (r *Repository) ListTemplates(ctx context.Context) ([]*models.MessageTemplate, error) {
	const op = "repository.ListTemplates"

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, body FROM message_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MessageTemplate
	for rows.Next() {
		var item models.MessageTemplate
		if err := rows.Scan(&item.ID, &item.Name, &item.Body); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindTemplateByName возвращает шаблон по имени.
func (r *Repository) FindTemplateByName(ctx context.Context, name string) (*models.MessageTemplate, error) {
	const op = "repository.FindTemplateByName"

	row := r.DB.QueryRowContext(ctx,
		`SELECT id, name, body FROM message_templates WHERE name = $1`, name)

	var tmpl models.MessageTemplate
	err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tmpl, nil
}

// UpdateTemplate обновляет шаблон по ID и возвращает количество изменённых строк.
func (r *Repository) UpdateTemplate(ctx context.Context, tmpl models.MessageTemplate) (int, error) {
	const op = "repository.UpdateTemplate"

	result, err := r.DB.ExecContext(ctx,
		`UPDATE message_templates SET name = $1, body = $2 WHERE id = $3`,
		tmpl.Name, tmpl.Body, tmpl.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveTemplate удаляет шаблон по ID и возвращает количество удалённых строк.
func (r *Repository) RemoveTemplate(ctx context.Context, id string) (int, error) {
	const op = "repository.RemoveTemplate"

	result, err := r.DB.ExecContext(ctx, `DELETE FROM message_templates WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
