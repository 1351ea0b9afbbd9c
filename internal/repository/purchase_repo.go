package repository

import (
	"app/internal/model"
	"context"
	"database/sql"
	"errors"
)

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, p *model.Purchase) error
	GetPurchaseByID(ctx context.Context, id string) (*model.Purchase, error)
	// MarkCompleted flips pending -> completed. Returns false when the row
	// was not pending (replay) or does not exist.
	MarkCompleted(ctx context.Context, id string) (bool, error)
	// MarkFailed flips pending -> failed with the same guard.
	MarkFailed(ctx context.Context, id string) (bool, error)
	// ListCompletedByCourseIDs returns completed purchases for a set of
	// courses, newest first (educator analytics).
	ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Purchase, error)
}

type purchaseRepo struct {
	db *sql.DB
}

func NewPurchaseRepo(db *sql.DB) PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) CreatePurchase(ctx context.Context, p *model.Purchase) error {
	query := `INSERT INTO purchases (id, course_id, user_id, amount, status)
              VALUES (gen_random_uuid(), $1, $2, $3, $4)
              RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, p.CourseID, p.UserID, p.Amount, p.Status).
		Scan(&p.PurchaseID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *purchaseRepo) GetPurchaseByID(ctx context.Context, id string) (*model.Purchase, error) {
	var p model.Purchase
	query := `SELECT id, course_id, user_id, amount, status, created_at, updated_at FROM purchases WHERE id=$1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.PurchaseID, &p.CourseID, &p.UserID, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	return r.resolve(ctx, id, model.PurchaseStatusCompleted)
}

func (r *purchaseRepo) MarkFailed(ctx context.Context, id string) (bool, error) {
	return r.resolve(ctx, id, model.PurchaseStatusFailed)
}

// resolve applies a terminal status. The WHERE status='pending' guard makes
// the transition happen at most once even under concurrent replays.
func (r *purchaseRepo) resolve(ctx context.Context, id, status string) (bool, error) {
	query := `
		UPDATE purchases
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *purchaseRepo) ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]model.Purchase, error) {
	if len(courseIDs) == 0 {
		return []model.Purchase{}, nil
	}

	query := `
		SELECT id, course_id, user_id, amount, status, created_at, updated_at
		FROM purchases
		WHERE status = 'completed' AND course_id = ANY($1)
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, courseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.PurchaseID, &p.CourseID, &p.UserID, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(purchases) == 0 {
		return []model.Purchase{}, nil
	}

	return purchases, nil
}
