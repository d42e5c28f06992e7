package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// FindAdminByUsername возвращает администратора по имени.
func (r *Repository) FindAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	const op = "repository.FindAdminByUsername"

	row := r.DB.QueryRowContext(ctx,
		`SELECT uid, username, password_hash FROM admins WHERE username = $1`, username)

	var admin models.Admin
	err := row.Scan(&admin.UID, &admin.Username, &admin.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &admin, nil
}

// CreateAdmin вставляет администратора. Используется при первичной настройке.
func (r *Repository) CreateAdmin(ctx context.Context, admin models.Admin) error {
	const op = "repository.CreateAdmin"

	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO admins (uid, username, password_hash) VALUES ($1, $2, $3)`,
		admin.UID, admin.Username, admin.PasswordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
