package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homequeen/api/internal/seed"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// Seed loads the demo fixtures. Rows that already exist are left untouched,
// so running it again inserts nothing. An account registered earlier under a
// seed email keeps its id and receives the seeded rows.
func (db *DB) Seed(ctx context.Context, fx *seed.Fixtures) (int64, error) {
	var inserted int64
	tm := NewTransactionManager(db, db.logger)

	err := tm.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		ex := executor(ctx, db)
		insert := func(op, query string, args ...interface{}) error {
			res, err := ex.ExecContext(ctx, query, args...)
			if err != nil {
				return classify(op, err)
			}
			n, _ := res.RowsAffected()
			inserted += n
			return nil
		}

		if err := insert("seed family",
			`INSERT INTO families (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			fx.Family.ID, fx.Family.Name, fx.Family.CreatedAt); err != nil {
			return err
		}

		for _, u := range []*models.User{fx.Wife, fx.ProviderUser} {
			if err := insert("seed user",
				`INSERT INTO users (`+userColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9, $10)
				ON CONFLICT DO NOTHING`,
				u.ID, u.Email, u.Phone, u.PasswordHash, u.Name, u.Avatar, u.Role, u.IsVerified, u.CreatedAt, u.UpdatedAt); err != nil {
				return err
			}
			id, err := resolveUserID(ctx, ex, *u.Email)
			if err != nil {
				return err
			}
			u.ID = id
		}

		if _, err := ex.ExecContext(ctx,
			`UPDATE users SET family_id = $2, updated_at = NOW() WHERE id = $1`,
			fx.Wife.ID, fx.Family.ID); err != nil {
			return classify("seed family member", err)
		}

		for _, s := range fx.Services {
			if err := insert("seed service",
				`INSERT INTO services (id, name, description, category, base_price, image_url, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
				s.ID, s.Name, s.Description, s.Category, s.BasePrice, s.ImageURL, s.IsActive); err != nil {
				return err
			}
		}

		p := fx.Provider
		if err := insert("seed provider",
			`INSERT INTO providers (id, user_id, service_id, bio, rating, review_count, is_approved, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
			p.ID, fx.ProviderUser.ID, p.ServiceID, p.Bio, p.Rating, p.ReviewCount, p.IsApproved, p.IsAvailable); err != nil {
			return err
		}

		for _, t := range fx.Tasks {
			if err := insert("seed task",
				`INSERT INTO tasks (id, user_id, family_id, title, description, status, priority, due_date, completed_at, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) ON CONFLICT (id) DO NOTHING`,
				t.ID, fx.Wife.ID, t.FamilyID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CompletedAt, t.CreatedAt, t.UpdatedAt); err != nil {
				return err
			}
		}

		for _, e := range fx.Expenses {
			if err := insert("seed expense",
				`INSERT INTO expenses (id, user_id, family_id, amount, category, description, date, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (id) DO NOTHING`,
				e.ID, fx.Wife.ID, e.FamilyID, e.Amount, e.Category, e.Description, e.Date, e.CreatedAt); err != nil {
				return err
			}
		}

		for _, n := range fx.Notifications {
			if err := insert("seed notification",
				`INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
				n.ID, fx.Wife.ID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	db.logger.Info("seed applied", zap.Int64("rows_inserted", inserted))
	return inserted, nil
}

func resolveUserID(ctx context.Context, ex Executor, email string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := ex.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id); err != nil {
		return uuid.Nil, classify("resolve seed user", err)
	}
	return id, nil
}
