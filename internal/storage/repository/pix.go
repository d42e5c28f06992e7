package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// CreatePixConfig вставляет новую PIX-конфигурацию и возвращает её ID.
func (r *Repository) CreatePixConfig(ctx context.Context, pix models.PixConfig) (string, error) {
	const op = "repository.CreatePixConfig"

	query := `INSERT INTO pix_configs (id, key_type, key, holder, active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := r.DB.QueryRowContext(ctx, query,
		pix.ID, pix.KeyType, pix.Key, pix.Holder, pix.Active).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPixConfigs возвращает все PIX-конфигурации.
func (r *Repository) ListPixConfigs(ctx context.Context) ([]*models.PixConfig, error) {
	const op = "repository.ListPixConfigs"

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, key_type, key, holder, active FROM pix_configs ORDER BY holder`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PixConfig
	for rows.Next() {
		var item models.PixConfig
		if err := rows.Scan(&item.ID, &item.KeyType, &item.Key, &item.Holder, &item.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetActivePixConfig возвращает активную PIX-конфигурацию,
// ErrNotFound если активной нет.
func (r *Repository) GetActivePixConfig(ctx context.Context) (*models.PixConfig, error) {
	const op = "repository.GetActivePixConfig"

	row := r.DB.QueryRowContext(ctx,
		`SELECT id, key_type, key, holder, active FROM pix_configs WHERE active LIMIT 1`)

	var pix models.PixConfig
	err := row.Scan(&pix.ID, &pix.KeyType, &pix.Key, &pix.Holder, &pix.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &pix, nil
}

// ActivatePixConfig делает конфигурацию с указанным ID единственной активной.
func (r *Repository) ActivatePixConfig(ctx context.Context, id string) error {
	const op = "repository.ActivatePixConfig"

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE pix_configs SET active = false WHERE active`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE pix_configs SET active = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemovePixConfig удаляет конфигурацию по ID и возвращает количество удалённых строк.
func (r *Repository) RemovePixConfig(ctx context.Context, id string) (int, error) {
	const op = "repository.RemovePixConfig"

	result, err := r.DB.ExecContext(ctx, `DELETE FROM pix_configs WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
