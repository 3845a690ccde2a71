package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

// Insert inserts a new audit log entry
func (r *AuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, action, identifier, details, ip_address, user_agent, request_id, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	details := log.Details
	if len(details) == 0 {
		details = []byte(`{}`)
	}

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.Action,
		log.Identifier,
		[]byte(details),
		log.IPAddress,
		log.UserAgent,
		log.RequestID,
		log.Timestamp,
	)
	if err != nil {
		return classify("insert audit log", err)
	}

	r.logger.Debug("audit log inserted", zap.String("id", log.ID.String()), zap.String("action", string(log.Action)))
	return nil
}

// ListRecent returns the newest audit entries
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, user_id, action, identifier, details,
		       COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(request_id, ''), timestamp
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, classify("list audit logs", err)
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var (
			l       models.AuditLog
			details []byte
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Identifier, &details,
			&l.IPAddress, &l.UserAgent, &l.RequestID, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		l.Details = details
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}
	return logs, nil
}

// RevocationRepository implements the repositories.RevocationRepository interface
type RevocationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRevocationRepository creates a new token denylist repository
func NewRevocationRepository(db *DB, logger *zap.Logger) repositories.RevocationRepository {
	return &RevocationRepository{db: db, logger: logger}
}

// Revoke records a token id
func (r *RevocationRepository) Revoke(ctx context.Context, t *models.RevokedToken) error {
	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, t.JTI, t.UserID, t.ExpiresAt, t.RevokedAt); err != nil {
		return classify("revoke token", err)
	}
	return nil
}

// IsRevoked reports whether a token id is on the denylist
func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&revoked)
	if err != nil {
		return false, classify("check revoked token", err)
	}
	return revoked, nil
}

// DeleteExpired drops denylist entries for tokens that have expired anyway
func (r *RevocationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, classify("delete expired revocations", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// LoginAttemptRepository implements the repositories.LoginAttemptRepository interface
type LoginAttemptRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(db *DB, logger *zap.Logger) repositories.LoginAttemptRepository {
	return &LoginAttemptRepository{db: db, logger: logger}
}

// Record stores one failed attempt
func (r *LoginAttemptRepository) Record(ctx context.Context, scopeKey string, at time.Time) error {
	_, err := executor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO login_attempts (scope_key, timestamp) VALUES ($1, $2)`, scopeKey, at)
	if err != nil {
		return classify("record login attempt", err)
	}
	return nil
}

// Count returns the attempts for scopeKey in [from, to)
func (r *LoginAttemptRepository) Count(ctx context.Context, scopeKey string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE scope_key = $1
		  AND timestamp >= $2
		  AND timestamp <= $3
	`

	var count int
	if err := executor(ctx, r.db).QueryRowContext(ctx, query, scopeKey, from, to).Scan(&count); err != nil {
		return 0, classify("count login attempts", err)
	}
	return count, nil
}

// DeleteBefore removes attempts older than cutoff
func (r *LoginAttemptRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM login_attempts WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, classify("delete login attempts", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
