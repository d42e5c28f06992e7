package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// CreateReceipt вставляет квитанцию о продлении и возвращает её ID.
func (r *Repository) CreateReceipt(ctx context.Context, receipt models.Receipt) (string, error) {
	const op = "repository.CreateReceipt"

	query := `INSERT INTO receipts (id, collection, subscriber_id, subscriber, plan,
			      amount, old_expiry_date, new_expiry_date, pix_key, body)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID string
	err := r.DB.QueryRowContext(ctx, query,
		receipt.ID, receipt.Collection, receipt.SubscriberID, receipt.Subscriber,
		receipt.Plan, receipt.Amount, receipt.OldExpiryDate, receipt.NewExpiryDate,
		receipt.PixKey, receipt.Body).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReceipts возвращает квитанции с пагинацией, новые первыми.
// subscriberID фильтрует по абоненту, пустая строка — без фильтра.
func (r *Repository) ListReceipts(ctx context.Context, subscriberID string, limit, offset int) ([]*models.Receipt, error) {
	const op = "repository.ListReceipts"

	query := `SELECT id, collection, subscriber_id, subscriber, plan, amount,
			      old_expiry_date, new_expiry_date, pix_key, body, created_at
			  FROM receipts
			  WHERE ($1::text = '' OR subscriber_id = $1::text)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, subscriberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Receipt
	for rows.Next() {
		var item models.Receipt
		if err := rows.Scan(&item.ID, &item.Collection, &item.SubscriberID,
			&item.Subscriber, &item.Plan, &item.Amount, &item.OldExpiryDate,
			&item.NewExpiryDate, &item.PixKey, &item.Body, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
