package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	sharedredis "github.com/ElPoteRD/CuentaClaras-sub000/shared/redis"
	goredis "github.com/redis/go-redis/v9"
)

const (
	categoryViewKeyPrefix = "category:view:"
	categoryColumns       = `id, user_id, name, created_at, updated_at`
)

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryRepository stores categories in PostgreSQL and keeps a Redis view
// per category for the ownership lookups done on every transaction write.
type CategoryRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.CategoryView]
}

func NewCategoryRepository(db *sql.DB, redisClient *goredis.Client, ttl time.Duration) *CategoryRepository {
	return &CategoryRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.CategoryView](redisClient, categoryViewKeyPrefix, ttl),
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapError(err, nil, "create category")
	}
	r.cache.Set(ctx, c.ID, c.View(), sharedredis.Version(c.UpdatedAt))
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	if view, ok := r.cache.Get(ctx, id); ok {
		return view.Category(), nil
	}

	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id,
	))
	if err != nil {
		return nil, mapError(err, errs.ErrCategoryNotFound, "get category")
	}
	r.cache.Set(ctx, c.ID, c.View(), sharedredis.Version(c.UpdatedAt))
	return c, nil
}

func (r *CategoryRepository) ListByUserID(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY name`, userID,
	)
	if err != nil {
		return nil, mapError(err, nil, "list categories")
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, errs.Internal("failed to scan category", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("failed to list categories", err)
	}
	return categories, nil
}

// Update stores the new name. updated_at moves strictly forward under the row
// lock, so the version cached for each update follows commit order.
func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE categories SET name = $2, updated_at = GREATEST($3, updated_at + INTERVAL '1 microsecond')
		WHERE id = $1 RETURNING updated_at`,
		c.ID, c.Name, c.UpdatedAt,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return mapError(err, errs.ErrCategoryNotFound, "update category")
	}
	r.cache.Set(ctx, c.ID, c.View(), sharedredis.Version(c.UpdatedAt))
	return nil
}

// Delete fails with Conflict while transactions still reference the category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError(err, nil, "delete category")
	}
	if err := expectRow(res, errs.ErrCategoryNotFound); err != nil {
		return err
	}
	r.cache.Delete(ctx, id)
	return nil
}
