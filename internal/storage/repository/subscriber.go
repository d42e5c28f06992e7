package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

const subscriberColumns = `id, name, phone, plan, screens, servers, credits,
			      status, expiry_date, expiry_time, credentials, notes, created_at`

// CreateSubscriber вставляет нового абонента в коллекцию и возвращает его ID.
func (r *Repository) CreateSubscriber(ctx context.Context, collection models.Collection, sub models.Subscriber) (string, error) {
	const op = "repository.CreateSubscriber"
	table, err := tableFor(collection)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	creds, err := json.Marshal(sub.Credentials)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO ` + table + ` (id, name, phone, plan, screens, servers, credits,
			      status, expiry_date, expiry_time, credentials, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID string
	err = r.DB.QueryRowContext(ctx, query,
		sub.ID, sub.Name, sub.Phone, sub.Plan, sub.Screens, sub.Servers, sub.Credits,
		sub.Status, sub.ExpiryDate, sub.ExpiryTime, creds, sub.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscriber возвращает абонента по ID.
func (r *Repository) ReadSubscriber(ctx context.Context, collection models.Collection, id string) (*models.Subscriber, error) {
	const op = "repository.ReadSubscriber"
	table, err := tableFor(collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + subscriberColumns + ` FROM ` + table + ` WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, query, id)

	sub, err := scanSubscriber(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscriber обновляет все поля абонента по ID и возвращает количество
// изменённых строк.
func (r *Repository) UpdateSubscriber(ctx context.Context, collection models.Collection, sub models.Subscriber) (int, error) {
	const op = "repository.UpdateSubscriber"
	table, err := tableFor(collection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	creds, err := json.Marshal(sub.Credentials)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE ` + table + `
			  SET name = $1, phone = $2, plan = $3, screens = $4, servers = $5,
			      credits = $6, status = $7, expiry_date = $8, expiry_time = $9,
			      credentials = $10, notes = $11
			  WHERE id = $12`
	result, err := r.DB.ExecContext(ctx, query,
		sub.Name, sub.Phone, sub.Plan, sub.Screens, sub.Servers,
		sub.Credits, sub.Status, sub.ExpiryDate, sub.ExpiryTime,
		creds, sub.Notes, sub.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateSubscriberStatus записывает только статус абонента. Используется
// обходом автоматических переходов: узкая запись не затирает параллельные
// правки остальных полей.
func (r *Repository) UpdateSubscriberStatus(ctx context.Context, collection models.Collection, id string, status models.Status) (int, error) {
	const op = "repository.UpdateSubscriberStatus"
	table, err := tableFor(collection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.DB.ExecContext(ctx,
		`UPDATE `+table+` SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscriber удаляет абонента по ID и возвращает количество удалённых строк.
func (r *Repository) RemoveSubscriber(ctx context.Context, collection models.Collection, id string) (int, error) {
	const op = "repository.RemoveSubscriber"
	table, err := tableFor(collection)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.DB.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscribers возвращает срез абонентов коллекции с пагинацией.
func (r *Repository) ListSubscribers(ctx context.Context, collection models.Collection, limit, offset int) ([]*models.Subscriber, error) {
	const op = "repository.ListSubscribers"
	table, err := tableFor(collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + subscriberColumns + ` FROM ` + table + `
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectSubscribers(rows, op)
}

// ListAllSubscribers возвращает полную коллекцию абонентов. Используется
// обходом статусов и проверкой уведомлений: обе работают по локальному
// снимку всей коллекции.
func (r *Repository) ListAllSubscribers(ctx context.Context, collection models.Collection) ([]*models.Subscriber, error) {
	const op = "repository.ListAllSubscribers"
	table, err := tableFor(collection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+subscriberColumns+` FROM `+table+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectSubscribers(rows, op)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscriber(row rowScanner) (*models.Subscriber, error) {
	var sub models.Subscriber
	var creds []byte
	if err := row.Scan(&sub.ID, &sub.Name, &sub.Phone, &sub.Plan, &sub.Screens,
		&sub.Servers, &sub.Credits, &sub.Status, &sub.ExpiryDate, &sub.ExpiryTime,
		&creds, &sub.Notes, &sub.CreatedAt); err != nil {
		return nil, err
	}
	if len(creds) > 0 {
		if err := json.Unmarshal(creds, &sub.Credentials); err != nil {
			return nil, err
		}
	}
	return &sub, nil
}

func collectSubscribers(rows *sql.Rows, op string) ([]*models.Subscriber, error) {
	var result []*models.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
