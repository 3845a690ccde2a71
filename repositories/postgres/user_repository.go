package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

const userColumns = `id, email, phone, password_hash, name, avatar, role, is_verified, family_id, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s rowScanner) (*models.User, error) {
	user := &models.User{}
	err := s.Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Name,
		&user.Avatar,
		&user.Role,
		&user.IsVerified,
		&user.FamilyID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Name,
		user.Avatar,
		user.Role,
		user.IsVerified,
		user.FamilyID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return classify("create user", err)
	}

	r.logger.Debug("user created", zap.String("id", user.ID.String()))
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByPhone retrieves a user by phone
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, "get user by phone", `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg interface{}) (*models.User, error) {
	user, err := scanUser(executor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, classify(op, err)
	}
	return user, nil
}

// UpdateProfile updates name and avatar
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, patch repositories.UserProfilePatch) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    avatar = CASE WHEN $3 THEN $4 ELSE avatar END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(executor(ctx, r.db).QueryRowContext(ctx, query, id, patch.Name, patch.SetAvatar, patch.Avatar))
	if err != nil {
		return nil, classify("update user", err)
	}
	return user, nil
}

// SetFamily attaches the user to a family
func (r *UserRepository) SetFamily(ctx context.Context, id, familyID uuid.UUID) error {
	query := `UPDATE users SET family_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, id, familyID)
	if err := expectOne("set user family", result, err); err != nil {
		return err
	}

	r.logger.Debug("user joined family",
		zap.String("id", id.String()),
		zap.String("family_id", familyID.String()))
	return nil
}

// FamilyRepository implements the repositories.FamilyRepository interface
type FamilyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *DB, logger *zap.Logger) repositories.FamilyRepository {
	return &FamilyRepository{db: db, logger: logger}
}

// Create inserts a family
func (r *FamilyRepository) Create(ctx context.Context, family *models.Family) error {
	query := `INSERT INTO families (id, name, created_at) VALUES ($1, $2, $3)`

	if _, err := executor(ctx, r.db).ExecContext(ctx, query, family.ID, family.Name, family.CreatedAt); err != nil {
		return classify("create family", err)
	}
	return nil
}

// GetByID returns the family and its members
func (r *FamilyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	exec := executor(ctx, r.db)

	family := &models.Family{}
	err := exec.QueryRowContext(ctx, `SELECT id, name, created_at FROM families WHERE id = $1`, id).
		Scan(&family.ID, &family.Name, &family.CreatedAt)
	if err != nil {
		return nil, classify("get family", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT id, name, avatar, role
		FROM users
		WHERE family_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, classify("list family members", err)
	}
	defer rows.Close()

	family.Members = []models.FamilyMember{}
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Avatar, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		family.Members = append(family.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}

	return family, nil
}
