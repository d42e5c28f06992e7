package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// CreatePlan вставляет новый план и возвращает его ID.
func (r *Repository) CreatePlan(ctx context.Context, plan models.Plan) (string, error) {
	const op = "repository.CreatePlan"

	query := `INSERT INTO plans (id, name, duration, price)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID string
	err := r.DB.QueryRowContext(ctx, query,
		plan.ID, plan.Name, plan.Duration, plan.Price).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPlans возвращает все планы.
func (r *Repository) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "repository.ListPlans"

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, duration, price FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var item models.Plan
		if err := rows.Scan(&item.ID, &item.Name, &item.Duration, &item.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindPlanByName возвращает план по имени. Имя — не стабильный внешний ключ,
// план абонента может не разрешиться: в этом случае возвращается ErrNotFound.
func (r *Repository) FindPlanByName(ctx context.Context, name string) (*models.Plan, error) {
	const op = "repository.FindPlanByName"

	row := r.DB.QueryRowContext(ctx,
		`SELECT id, name, duration, price FROM plans WHERE name = $1`, name)

	var plan models.Plan
	err := row.Scan(&plan.ID, &plan.Name, &plan.Duration, &plan.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &plan, nil
}

// UpdatePlan обновляет план по ID и возвращает количество изменённых строк.
func (r *Repository) UpdatePlan(ctx context.Context, plan models.Plan) (int, error) {
	const op = "repository.UpdatePlan"

	result, err := r.DB.ExecContext(ctx,
		`UPDATE plans SET name = $1, duration = $2, price = $3 WHERE id = $4`,
		plan.Name, plan.Duration, plan.Price, plan.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePlan удаляет план по ID и возвращает количество удалённых строк.
func (r *Repository) RemovePlan(ctx context.Context, id string) (int, error) {
	const op = "repository.RemovePlan"

	result, err := r.DB.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
