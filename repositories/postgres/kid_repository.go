package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

const (
	profileColumns  = `k.id, k.parent_id, k.family_id, k.name, k.birth_date, k.school_name, k.grade, k.created_at`
	homeworkColumns = `h.id, h.kid_id, h.title, h.description, h.due_date, h.is_completed, h.created_at`
)

func scanProfile(s rowScanner, extra ...interface{}) (models.KidProfile, error) {
	var p models.KidProfile
	dest := []interface{}{&p.ID, &p.ParentID, &p.FamilyID, &p.Name, &p.BirthDate, &p.SchoolName, &p.Grade, &p.CreatedAt}
	err := s.Scan(append(dest, extra...)...)
	return p, err
}

func scanHomework(s rowScanner, extra ...interface{}) (models.Homework, error) {
	var h models.Homework
	dest := []interface{}{&h.ID, &h.KidID, &h.Title, &h.Description, &h.DueDate, &h.IsCompleted, &h.CreatedAt}
	err := s.Scan(append(dest, extra...)...)
	return h, err
}

// KidRepository implements the repositories.KidRepository interface
type KidRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewKidRepository creates a new kid repository
func NewKidRepository(db *DB, logger *zap.Logger) repositories.KidRepository {
	return &KidRepository{db: db, logger: logger}
}

// ListProfiles returns the parent's kids with their homework counts
func (r *KidRepository) ListProfiles(ctx context.Context, parentID uuid.UUID) ([]models.KidProfile, error) {
	query := `
		SELECT ` + profileColumns + `, COUNT(h.id)
		FROM kid_profiles k
		LEFT JOIN homework h ON h.kid_id = k.id
		WHERE k.parent_id = $1
		GROUP BY k.id
		ORDER BY k.created_at ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, classify("list kid profiles", err)
	}
	defer rows.Close()

	profiles := []models.KidProfile{}
	for rows.Next() {
		var count int
		p, err := scanProfile(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kid profile: %w", err)
		}
		p.HomeworkCount = count
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kid profile rows: %w", err)
	}

	return profiles, nil
}

// GetProfile returns one of the parent's kids
func (r *KidRepository) GetProfile(ctx context.Context, parentID, id uuid.UUID) (*models.KidProfile, error) {
	query := `
		SELECT ` + profileColumns + `, (SELECT COUNT(*) FROM homework h WHERE h.kid_id = k.id)
		FROM kid_profiles k
		WHERE k.id = $1 AND k.parent_id = $2
	`

	var count int
	p, err := scanProfile(executor(ctx, r.db).QueryRowContext(ctx, query, id, parentID), &count)
	if err != nil {
		return nil, classify("get kid profile", err)
	}
	p.HomeworkCount = count
	return &p, nil
}

// CreateProfile inserts a kid profile
func (r *KidRepository) CreateProfile(ctx context.Context, p *models.KidProfile) error {
	query := `
		INSERT INTO kid_profiles (id, parent_id, family_id, name, birth_date, school_name, grade, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		p.ID, p.ParentID, p.FamilyID, p.Name, p.BirthDate, p.SchoolName, p.Grade, p.CreatedAt)
	if err != nil {
		return classify("create kid profile", err)
	}
	return nil
}

// UpdateProfile applies a partial update to an owned profile
func (r *KidRepository) UpdateProfile(ctx context.Context, parentID, id uuid.UUID, patch models.KidProfilePatch) (*models.KidProfile, error) {
	query := `
		UPDATE kid_profiles k
		SET name = COALESCE($3, k.name),
		    birth_date = COALESCE($4, k.birth_date),
		    school_name = COALESCE($5, k.school_name),
		    grade = COALESCE($6, k.grade)
		WHERE k.id = $1 AND k.parent_id = $2
		RETURNING ` + profileColumns + `, (SELECT COUNT(*) FROM homework h WHERE h.kid_id = k.id)`

	var count int
	p, err := scanProfile(executor(ctx, r.db).QueryRowContext(ctx, query,
		id, parentID, patch.Name, patch.BirthDate, patch.SchoolName, patch.Grade), &count)
	if err != nil {
		return nil, classify("update kid profile", err)
	}
	p.HomeworkCount = count
	return &p, nil
}

// DeleteProfile removes an owned profile and, by cascade, its homework
func (r *KidRepository) DeleteProfile(ctx context.Context, parentID, id uuid.UUID) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM kid_profiles WHERE id = $1 AND parent_id = $2`, id, parentID)
	return expectOne("delete kid profile", result, err)
}

// ListHomework returns homework across the parent's kids, soonest first
func (r *KidRepository) ListHomework(ctx context.Context, parentID uuid.UUID) ([]models.Homework, error) {
	query := `
		SELECT ` + homeworkColumns + `, k.id, k.name
		FROM homework h
		JOIN kid_profiles k ON k.id = h.kid_id
		WHERE k.parent_id = $1
		ORDER BY h.due_date ASC
	`
	return r.queryHomework(ctx, "list homework", query, true, parentID)
}

// ListHomeworkForKid returns one owned kid's homework. A kid that is not
// owned yields ErrNotFound rather than an empty list.
func (r *KidRepository) ListHomeworkForKid(ctx context.Context, parentID, kidID uuid.UUID) ([]models.Homework, error) {
	if _, err := r.GetProfile(ctx, parentID, kidID); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + homeworkColumns + `
		FROM homework h
		JOIN kid_profiles k ON k.id = h.kid_id
		WHERE h.kid_id = $1 AND k.parent_id = $2
		ORDER BY h.due_date ASC
	`
	return r.queryHomework(ctx, "list kid homework", query, false, kidID, parentID)
}

func (r *KidRepository) queryHomework(ctx context.Context, op, query string, withKid bool, args ...interface{}) ([]models.Homework, error) {
	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.Homework{}
	for rows.Next() {
		var (
			h   models.Homework
			err error
		)
		if withKid {
			kid := &models.KidSummary{}
			h, err = scanHomework(rows, &kid.ID, &kid.Name)
			h.Kid = kid
		} else {
			h, err = scanHomework(rows)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan homework: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating homework rows: %w", err)
	}
	return out, nil
}

// CreateHomework inserts homework for a kid owned by parentID
func (r *KidRepository) CreateHomework(ctx context.Context, parentID uuid.UUID, hw *models.Homework) error {
	query := `
		INSERT INTO homework (id, kid_id, title, description, due_date, is_completed, created_at)
		SELECT $1, k.id, $3, $4, $5, $6, $7
		FROM kid_profiles k
		WHERE k.id = $2 AND k.parent_id = $8
	`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		hw.ID, hw.KidID, hw.Title, hw.Description, hw.DueDate, hw.IsCompleted, hw.CreatedAt, parentID)
	return expectOne("create homework", result, err)
}

// UpdateHomework applies a partial update to homework of an owned kid
func (r *KidRepository) UpdateHomework(ctx context.Context, parentID, id uuid.UUID, patch models.HomeworkPatch) (*models.Homework, error) {
	query := `
		UPDATE homework h
		SET title = COALESCE($3, h.title),
		    description = COALESCE($4, h.description),
		    due_date = COALESCE($5, h.due_date),
		    is_completed = COALESCE($6, h.is_completed)
		FROM kid_profiles k
		WHERE h.id = $1 AND k.id = h.kid_id AND k.parent_id = $2
		RETURNING ` + homeworkColumns

	h, err := scanHomework(executor(ctx, r.db).QueryRowContext(ctx, query,
		id, parentID, patch.Title, patch.Description, patch.DueDate, patch.IsCompleted))
	if err != nil {
		return nil, classify("update homework", err)
	}
	return &h, nil
}

// DeleteHomework removes homework of an owned kid
func (r *KidRepository) DeleteHomework(ctx context.Context, parentID, id uuid.UUID) error {
	query := `
		DELETE FROM homework h
		USING kid_profiles k
		WHERE h.id = $1 AND k.id = h.kid_id AND k.parent_id = $2
	`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, id, parentID)
	return expectOne("delete homework", result, err)
}
