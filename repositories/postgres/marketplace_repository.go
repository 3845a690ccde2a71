package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// ServiceRepository implements the repositories.ServiceRepository interface
type ServiceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewServiceRepository creates a new service catalogue repository
func NewServiceRepository(db *DB, logger *zap.Logger) repositories.ServiceRepository {
	return &ServiceRepository{db: db, logger: logger}
}

const serviceColumns = `s.id, s.name, s.description, s.category, s.base_price, s.image_url, s.is_active`

func scanService(s rowScanner, extra ...interface{}) (models.Service, error) {
	var svc models.Service
	dest := []interface{}{&svc.ID, &svc.Name, &svc.Description, &svc.Category, &svc.BasePrice, &svc.ImageURL, &svc.IsActive}
	err := s.Scan(append(dest, extra...)...)
	return svc, err
}

// ListActive returns active services with their provider counts
func (r *ServiceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	query := `
		SELECT ` + serviceColumns + `, COUNT(p.id)
		FROM services s
		LEFT JOIN providers p ON p.service_id = s.id
		WHERE s.is_active
		GROUP BY s.id
		ORDER BY s.name ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list services", err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var count int
		svc, err := scanService(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		svc.ProviderCount = count
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return services, nil
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services s WHERE s.id = $1`

	svc, err := scanService(executor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("get service", err)
	}
	return &svc, nil
}

// FirstIDByCategory returns the oldest service in a category
func (r *ServiceRepository) FirstIDByCategory(ctx context.Context, category models.ServiceCategory) (uuid.UUID, error) {
	var id uuid.UUID
	err := executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT id FROM services WHERE category = $1 ORDER BY created_at ASC LIMIT 1`, category).Scan(&id)
	if err != nil {
		return uuid.Nil, classify("find service by category", err)
	}
	return id, nil
}

// ProviderRepository implements the repositories.ProviderRepository interface
type ProviderRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *DB, logger *zap.Logger) repositories.ProviderRepository {
	return &ProviderRepository{db: db, logger: logger}
}

const providerSelect = `
	SELECT p.id, p.user_id, p.service_id, p.bio, p.rating, p.review_count, p.is_approved, p.is_available,
	       u.id, u.name, u.avatar,
	       s.id, s.name, s.category, s.base_price
	FROM providers p
	JOIN users u ON u.id = p.user_id
	JOIN services s ON s.id = p.service_id
`

func scanProvider(s rowScanner) (models.Provider, error) {
	var (
		p   models.Provider
		u   models.UserSummary
		svc models.ServiceSummary
	)
	err := s.Scan(
		&p.ID, &p.UserID, &p.ServiceID, &p.Bio, &p.Rating, &p.ReviewCount, &p.IsApproved, &p.IsAvailable,
		&u.ID, &u.Name, &u.Avatar,
		&svc.ID, &svc.Name, &svc.Category, &svc.BasePrice,
	)
	p.User = &u
	p.Service = &svc
	return p, err
}

// ListApproved returns approved providers, best rated first
func (r *ProviderRepository) ListApproved(ctx context.Context, serviceID *uuid.UUID) ([]models.Provider, error) {
	query := providerSelect + `
		WHERE p.is_approved
		  AND ($1::uuid IS NULL OR p.service_id = $1)
		ORDER BY p.rating DESC, p.created_at ASC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, classify("list providers", err)
	}
	defer rows.Close()

	providers := []models.Provider{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider rows: %w", err)
	}
	return providers, nil
}

// GetByID returns a provider with up to reviewLimit of its newest reviews
func (r *ProviderRepository) GetByID(ctx context.Context, id uuid.UUID, reviewLimit int) (*models.Provider, error) {
	exec := executor(ctx, r.db)

	p, err := scanProvider(exec.QueryRowContext(ctx, providerSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, classify("get provider", err)
	}
	p.Reviews = []models.Review{}
	if reviewLimit <= 0 {
		return &p, nil
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT rv.id, rv.provider_id, rv.user_id, rv.rating, rv.comment, rv.created_at, u.name
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.provider_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2
	`, id, reviewLimit)
	if err != nil {
		return nil, classify("list reviews", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProviderID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.User.Name); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		p.Reviews = append(p.Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}
	return &p, nil
}

// BookingRepository implements the repositories.BookingRepository interface
type BookingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *DB, logger *zap.Logger) repositories.BookingRepository {
	return &BookingRepository{db: db, logger: logger}
}

const bookingColumns = `b.id, b.user_id, b.provider_id, b.status, b.scheduled_at, b.address, b.notes, b.price, b.created_at`

func bookingDest(b *models.Booking) []interface{} {
	return []interface{}{&b.ID, &b.UserID, &b.ProviderID, &b.Status, &b.ScheduledAt, &b.Address, &b.Notes, &b.Price, &b.CreatedAt}
}

// ListByOwner returns the owner's bookings, latest appointment first
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       p.id, p.user_id, p.service_id, p.bio, p.rating, p.review_count, p.is_approved, p.is_available,
		       u.id, u.name, u.avatar,
		       s.id, s.name, s.category, s.base_price
		FROM bookings b
		JOIN providers p ON p.id = b.provider_id
		JOIN users u ON u.id = p.user_id
		JOIN services s ON s.id = p.service_id
		WHERE b.user_id = $1
		ORDER BY b.scheduled_at DESC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, classify("list bookings", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBookingWithProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

func scanBookingWithProvider(s rowScanner) (models.Booking, error) {
	var (
		b   models.Booking
		p   models.Provider
		u   models.UserSummary
		svc models.ServiceSummary
	)
	dest := append(bookingDest(&b),
		&p.ID, &p.UserID, &p.ServiceID, &p.Bio, &p.Rating, &p.ReviewCount, &p.IsApproved, &p.IsAvailable,
		&u.ID, &u.Name, &u.Avatar,
		&svc.ID, &svc.Name, &svc.Category, &svc.BasePrice,
	)
	err := s.Scan(dest...)
	p.User = &u
	p.Service = &svc
	b.Provider = &p
	return b, err
}

// Create inserts a booking
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, provider_id, status, scheduled_at, address, notes, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		b.ID, b.UserID, b.ProviderID, b.Status, b.ScheduledAt, b.Address, b.Notes, b.Price, b.CreatedAt)
	if err != nil {
		return classify("create booking", err)
	}

	r.logger.Debug("booking created",
		zap.String("id", b.ID.String()),
		zap.String("provider_id", b.ProviderID.String()))
	return nil
}

// UpdateStatus sets a booking's status, scoped to the provider's own bookings
// when providerUserID is given
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, providerUserID *uuid.UUID, status models.BookingStatus) (*models.Booking, error) {
	query := `
		UPDATE bookings b
		SET status = $2
		WHERE b.id = $1
		  AND ($3::uuid IS NULL OR b.provider_id IN (SELECT id FROM providers WHERE user_id = $3))
		RETURNING ` + bookingColumns

	var b models.Booking
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id, status, providerUserID).Scan(bookingDest(&b)...)
	if err != nil {
		return nil, classify("update booking status", err)
	}
	return &b, nil
}

// ListOrders returns the owner's orders with their bookings, newest first
func (r *BookingRepository) ListOrders(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.booking_id, o.total, o.status, o.created_at,
		       ` + bookingColumns + `,
		       p.id, p.user_id, p.service_id, p.bio, p.rating, p.review_count, p.is_approved, p.is_available,
		       u.id, u.name, u.avatar,
		       s.id, s.name, s.category, s.base_price
		FROM orders o
		JOIN bookings b ON b.id = o.booking_id
		JOIN providers p ON p.id = b.provider_id
		JOIN users u ON u.id = p.user_id
		JOIN services s ON s.id = p.service_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, classify("list orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		b, err := scanBookingWithProvider(prefixScanner{rows, []interface{}{&o.ID, &o.UserID, &o.BookingID, &o.Total, &o.Status, &o.CreatedAt}})
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Booking = &b
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// prefixScanner scans leading columns into prefix before handing the rest on
type prefixScanner struct {
	s      rowScanner
	prefix []interface{}
}

func (p prefixScanner) Scan(dest ...interface{}) error {
	return p.s.Scan(append(append([]interface{}{}, p.prefix...), dest...)...)
}

// NotificationRepository implements the repositories.NotificationRepository interface
type NotificationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB, logger *zap.Logger) repositories.NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

// ListByOwner returns the newest notifications first
func (r *NotificationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, classify("list notifications", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return out, nil
}

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	_, err := executor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return classify("create notification", err)
	}
	return nil
}

// MarkRead marks one owned notification as read. Matching nothing is not an error.
func (r *NotificationRepository) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	_, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, ownerID)
	return classify("mark notification read", err)
}

// MarkAllRead marks all of the owner's notifications as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, ownerID uuid.UUID) error {
	_, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, ownerID)
	return classify("mark notifications read", err)
}
